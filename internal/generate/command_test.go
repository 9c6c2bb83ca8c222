package generate_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitdetails/internal/details"
	"github.com/temirov/gitdetails/internal/generate"
	"github.com/temirov/gitdetails/internal/gitrepo"
	"github.com/temirov/gitdetails/internal/utils"
	"github.com/temirov/gitdetails/internal/utils/flags"
)

func newCommandBuilder(workingDirectory string, section map[string]any, backends *[]gitrepo.Backend) *generate.CommandBuilder {
	return &generate.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() map[string]any { return section },
		WorkingDirectory:      workingDirectory,
		ExecutableLocator:     stubExecutableLocator{},
		RepositoryLocator:     stubRepositoryLocator{root: workingDirectory},
		InspectorFactory: func(backend gitrepo.Backend, repositoryRoot string) (details.Inspector, error) {
			*backends = append(*backends, backend)
			return cleanInspector{root: repositoryRoot}, nil
		},
	}
}

func executeGenerate(testInstance *testing.T, builder *generate.CommandBuilder, executionContext context.Context, arguments ...string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&output)
	command.SetArgs(flags.NormalizeToggleArguments(arguments))
	executionError := command.ExecuteContext(executionContext)
	return output.String(), executionError
}

func TestGenerateCommandFlagsOverrideConfiguration(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workingDirectory, "pkg"), 0o755))

	var backends []gitrepo.Backend
	builder := newCommandBuilder(workingDirectory, map[string]any{"write_to": "ignored.py", "backend": "go-git"}, &backends)

	_, executionError := executeGenerate(testInstance, builder, context.Background(), "--write-to", "pkg/_git.py", "--backend", "cli")
	require.NoError(testInstance, executionError)
	require.FileExists(testInstance, filepath.Join(workingDirectory, "pkg", "_git.py"))
	require.NoFileExists(testInstance, filepath.Join(workingDirectory, "ignored.py"))
	require.Equal(testInstance, []gitrepo.Backend{gitrepo.BackendCLI}, backends)
}

func TestGenerateCommandDisabledFlag(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()

	var backends []gitrepo.Backend
	builder := newCommandBuilder(workingDirectory, map[string]any{"write_to": "_git.py"}, &backends)

	_, executionError := executeGenerate(testInstance, builder, context.Background(), "--enabled", "no")
	require.NoError(testInstance, executionError)
	require.NoFileExists(testInstance, filepath.Join(workingDirectory, "_git.py"))
	require.Empty(testInstance, backends)
}

func TestGenerateCommandDryRunPrintsContent(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()

	var backends []gitrepo.Backend
	builder := newCommandBuilder(workingDirectory, nil, &backends)

	output, executionError := executeGenerate(testInstance, builder, context.Background(), "--write-to", "git_details.go", "--package", "buildinfo", "--dry-run")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "package buildinfo\n")
	require.NoFileExists(testInstance, filepath.Join(workingDirectory, "git_details.go"))
}

func TestGenerateCommandWithoutConfigurationIsQuiet(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()

	var backends []gitrepo.Backend
	builder := newCommandBuilder(workingDirectory, nil, &backends)

	output, executionError := executeGenerate(testInstance, builder, context.Background())
	require.NoError(testInstance, executionError)
	require.Empty(testInstance, output)
	require.Empty(testInstance, backends)
}

func TestGenerateCommandRejectsConflictingSources(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "gitdetails.toml"), []byte("[tool.git-details]\nwrite_to = \"_git.py\"\n"), 0o600))

	var backends []gitrepo.Backend
	builder := newCommandBuilder(workingDirectory, map[string]any{"write_to": "_git.py"}, &backends)
	executionContext := utils.NewCommandContextAccessor().WithConfigurationFilePath(context.Background(), "/etc/git-details/config.yaml")

	_, executionError := executeGenerate(testInstance, builder, executionContext)
	require.ErrorAs(testInstance, executionError, &generate.ConflictingConfigurationError{})
	require.ErrorContains(testInstance, executionError, "/etc/git-details/config.yaml (git_details)")
	require.NoFileExists(testInstance, filepath.Join(workingDirectory, "_git.py"))
}

func TestGenerateCommandUsesCustomProjectFile(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "build.toml"), []byte("[tool.git-details]\nwrite_to = \"_git.py\"\n"), 0o600))

	var backends []gitrepo.Backend
	builder := newCommandBuilder(workingDirectory, nil, &backends)

	_, executionError := executeGenerate(testInstance, builder, context.Background(), "--project-file", "build.toml")
	require.NoError(testInstance, executionError)
	require.FileExists(testInstance, filepath.Join(workingDirectory, "_git.py"))
}

func TestGenerateCommandRejectsArguments(testInstance *testing.T) {
	var backends []gitrepo.Backend
	builder := newCommandBuilder(testInstance.TempDir(), nil, &backends)

	_, executionError := executeGenerate(testInstance, builder, context.Background(), "extra")
	require.Error(testInstance, executionError)
}
