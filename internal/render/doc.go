// Package render turns extracted repository details into the source file that
// git-details writes: a python module or a Go file.
package render
