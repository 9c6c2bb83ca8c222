// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle
// notifications, and OSCommandRunner is the os/exec backed default. The git
// inspector runs every repository query through these types so tests can
// substitute a recording runner.
package execshell
