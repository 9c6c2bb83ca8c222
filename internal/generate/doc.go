// Package generate implements the git-details generate command.
//
// A generation run resolves where its configuration comes from (the
// git_details section of the application configuration merged with command
// flags, or the [tool.git-details] table of a project file), validates it,
// checks the destination and the git environment, extracts repository details
// and writes the rendered file. Missing configuration, a disabled section and
// a directory outside any repository are quiet no-ops; everything else that
// goes wrong stops the run before a file is written.
package generate
