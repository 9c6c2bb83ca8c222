package dependencies

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/temirov/gitdetails/internal/details"
	"github.com/temirov/gitdetails/internal/execshell"
	"github.com/temirov/gitdetails/internal/filesystem"
	"github.com/temirov/gitdetails/internal/gitrepo"
	"github.com/temirov/gitdetails/internal/ui"
)

// FileSystem is the file access needed to place generated files.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// ExecutableLocator finds executables on PATH.
type ExecutableLocator interface {
	Locate(name execshell.CommandName) (string, error)
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing FileSystem) FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveExecutableLocator returns the provided locator or a PATH lookup.
func ResolveExecutableLocator(existing ExecutableLocator) ExecutableLocator {
	if existing != nil {
		return existing
	}
	return execshell.NewOSCommandRunner()
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Console logging narrates each git invocation when humanReadable is set.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadable bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var options []execshell.ShellExecutorOption
	if humanReadable {
		options = append(options, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(logger)))
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), options...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// InspectorFactory builds the details.Inspector for a repository.
type InspectorFactory func(backend gitrepo.Backend, repositoryRoot string) (details.Inspector, error)

// ResolveInspectorFactory returns the provided factory or one that opens inspectors through executor or go-git.
func ResolveInspectorFactory(existing InspectorFactory, executor gitrepo.GitExecutor) InspectorFactory {
	if existing != nil {
		return existing
	}
	return func(backend gitrepo.Backend, repositoryRoot string) (details.Inspector, error) {
		if backend == gitrepo.BackendGoGit {
			goGitInspector, openError := gitrepo.NewGoGitInspector(repositoryRoot)
			if openError != nil {
				return nil, openError
			}
			return goGitInspector, nil
		}
		cliInspector, creationError := gitrepo.NewCLIInspector(executor, repositoryRoot)
		if creationError != nil {
			return nil, creationError
		}
		return cliInspector, nil
	}
}
