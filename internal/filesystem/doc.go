// Package filesystem adapts the operating system file system to the small
// interfaces consumed by the generate service.
package filesystem
