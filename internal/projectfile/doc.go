// Package projectfile reads the [tool.git-details] table of a TOML project file.
package projectfile
