package gitrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	gitMetadataEntryNameConstant          = ".git"
	repositoryNotFoundMessageConstant     = "no git repository found"
	repositoryNotFoundTemplateConstant    = "%w in %s or any parent directory"
	startDirectoryResolveTemplateConstant = "failed to resolve %s: %w"
)

// ErrRepositoryNotFound indicates no enclosing directory carries a .git entry.
var ErrRepositoryNotFound = errors.New(repositoryNotFoundMessageConstant)

// StatFileSystem reports file metadata.
type StatFileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

type osStatFileSystem struct{}

func (osStatFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// RepositoryLocator finds the working tree enclosing a directory.
type RepositoryLocator struct {
	fileSystem StatFileSystem
}

// NewRepositoryLocator constructs a locator; a nil file system uses the operating system.
func NewRepositoryLocator(fileSystem StatFileSystem) *RepositoryLocator {
	if fileSystem == nil {
		fileSystem = osStatFileSystem{}
	}
	return &RepositoryLocator{fileSystem: fileSystem}
}

// Locate walks upward from startDirectory and returns the first directory containing a .git entry.
// The entry may be a directory or a file, so worktrees and submodule checkouts are recognized.
func (locator *RepositoryLocator) Locate(startDirectory string) (string, error) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(startDirectoryResolveTemplateConstant, startDirectory, absoluteError)
	}

	for {
		if _, statError := locator.fileSystem.Stat(filepath.Join(currentDirectory, gitMetadataEntryNameConstant)); statError == nil {
			return currentDirectory, nil
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", fmt.Errorf(repositoryNotFoundTemplateConstant, ErrRepositoryNotFound, startDirectory)
		}
		currentDirectory = parentDirectory
	}
}

// LocateRepository finds the working tree enclosing startDirectory on the operating system file system.
func LocateRepository(startDirectory string) (string, error) {
	return NewRepositoryLocator(nil).Locate(startDirectory)
}
