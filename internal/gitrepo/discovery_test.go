package gitrepo_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdetails/internal/gitrepo"
)

const repositoryDirectoryPermissions = 0o755

func TestLocateRepositoryWalksUpward(testInstance *testing.T) {
	testCases := []struct {
		name             string
		repositoryLayout []string
		gitEntryIsFile   bool
		startSegments    []string
	}{
		{name: "repository_root", repositoryLayout: []string{"project"}, startSegments: []string{"project"}},
		{name: "nested_directory", repositoryLayout: []string{"project"}, startSegments: []string{"project", "pkg", "version"}},
		{name: "worktree_git_file", repositoryLayout: []string{"worktree"}, gitEntryIsFile: true, startSegments: []string{"worktree", "cmd"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			rootDirectory := testInstance.TempDir()
			repositoryPath := filepath.Join(append([]string{rootDirectory}, testCase.repositoryLayout...)...)
			startDirectory := filepath.Join(append([]string{rootDirectory}, testCase.startSegments...)...)
			require.NoError(testInstance, os.MkdirAll(startDirectory, repositoryDirectoryPermissions))

			gitEntryPath := filepath.Join(repositoryPath, ".git")
			if testCase.gitEntryIsFile {
				require.NoError(testInstance, os.WriteFile(gitEntryPath, []byte("gitdir: /elsewhere/.git/worktrees/worktree\n"), 0o600))
			} else {
				require.NoError(testInstance, os.MkdirAll(gitEntryPath, repositoryDirectoryPermissions))
			}

			located, locateError := gitrepo.LocateRepository(startDirectory)
			require.NoError(testInstance, locateError)
			require.Equal(testInstance, repositoryPath, located)
		})
	}
}

func TestRepositoryLocatorReportsMissingRepository(testInstance *testing.T) {
	locator := gitrepo.NewRepositoryLocator(emptyFileSystem{})

	_, locateError := locator.Locate(filepath.Join(string(filepath.Separator), "workspace", "project"))
	require.ErrorIs(testInstance, locateError, gitrepo.ErrRepositoryNotFound)
	require.Contains(testInstance, locateError.Error(), "project")
}

type emptyFileSystem struct{}

func (emptyFileSystem) Stat(path string) (fs.FileInfo, error) {
	return nil, fs.ErrNotExist
}
