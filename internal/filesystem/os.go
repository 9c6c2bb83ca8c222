package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem reads and writes through the operating system.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// WriteFile replaces the file contents, creating it with the supplied permissions when absent.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}

// Getwd returns the process working directory.
func (OSFileSystem) Getwd() (string, error) {
	return os.Getwd()
}
