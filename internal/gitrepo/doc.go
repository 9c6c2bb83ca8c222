// Package gitrepo answers questions about a local git working tree.
//
// CLIInspector shells out to git through execshell; GoGitInspector reads the
// repository in-process with go-git. Both satisfy details.Inspector. The
// package also locates the repository enclosing a directory and normalizes
// remote URLs into browsable form.
package gitrepo
