package projectfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitdetails/internal/projectfile"
)

type sectionFixture struct {
	WriteTo string `toml:"write_to"`
	Enabled *bool  `toml:"enabled"`
}

func writeProjectFile(testInstance *testing.T, contents string) string {
	testInstance.Helper()
	path := filepath.Join(testInstance.TempDir(), projectfile.DefaultFileNameConstant)
	require.NoError(testInstance, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestReadProjectFile(testInstance *testing.T) {
	testCases := []struct {
		name          string
		contents      string
		expectSection bool
		expectError   bool
	}{
		{name: "section_present", contents: "[tool.git-details]\nwrite_to = \"pkg/_git.py\"\n", expectSection: true},
		{name: "empty_section_present", contents: "[tool.git-details]\n", expectSection: true},
		{name: "other_tool_only", contents: "[tool.black]\nline-length = 100\n"},
		{name: "no_tool_table", contents: "[project]\nname = \"demo\"\n"},
		{name: "tool_not_table", contents: "tool = \"git-details\"\n", expectError: true},
		{name: "section_not_table", contents: "[tool]\ngit-details = 3\n", expectError: true},
		{name: "invalid_toml", contents: "[tool.git-details\n", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			path := writeProjectFile(testInstance, testCase.contents)

			document, readError := projectfile.Read(path)
			if testCase.expectError {
				require.Error(testInstance, readError)
				return
			}
			require.NoError(testInstance, readError)
			require.Equal(testInstance, path, document.Path)
			require.Equal(testInstance, testCase.expectSection, document.HasSection())
		})
	}
}

func TestReadMissingProjectFile(testInstance *testing.T) {
	document, readError := projectfile.Read(filepath.Join(testInstance.TempDir(), projectfile.DefaultFileNameConstant))
	require.NoError(testInstance, readError)
	require.False(testInstance, document.HasSection())
	require.ErrorIs(testInstance, document.Decode(&sectionFixture{}), projectfile.ErrSectionNotFound)
}

func TestDocumentDecode(testInstance *testing.T) {
	path := writeProjectFile(testInstance, "[tool.git-details]\nwrite_to = \"pkg/_git.py\"\nenabled = false\n")

	document, readError := projectfile.Read(path)
	require.NoError(testInstance, readError)

	var decoded sectionFixture
	require.NoError(testInstance, document.Decode(&decoded))
	require.Equal(testInstance, "pkg/_git.py", decoded.WriteTo)
	require.NotNil(testInstance, decoded.Enabled)
	require.False(testInstance, *decoded.Enabled)
}
