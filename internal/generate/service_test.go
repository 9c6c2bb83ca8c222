package generate_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitdetails/internal/details"
	"github.com/temirov/gitdetails/internal/execshell"
	"github.com/temirov/gitdetails/internal/filesystem"
	"github.com/temirov/gitdetails/internal/generate"
	"github.com/temirov/gitdetails/internal/gitrepo"
	"github.com/temirov/gitdetails/internal/projectfile"
)

const (
	testRevisionConstant = "9fceb02d0ae598e95dc970b74767f19372d61af8"
	testRemoteConstant   = "git@github.com:org/my-service.git"
)

type stubExecutableLocator struct {
	err error
}

func (locator stubExecutableLocator) Locate(name execshell.CommandName) (string, error) {
	if locator.err != nil {
		return "", locator.err
	}
	return "/usr/bin/" + string(name), nil
}

type stubRepositoryLocator struct {
	root string
	err  error
}

func (locator stubRepositoryLocator) Locate(string) (string, error) {
	return locator.root, locator.err
}

type cleanInspector struct {
	root  string
	dirty bool
}

func (inspector cleanInspector) RepositoryRoot(context.Context) (string, error) {
	return inspector.root, nil
}

func (inspector cleanInspector) HeadRevision(context.Context) (string, error) {
	return testRevisionConstant, nil
}

func (inspector cleanInspector) CurrentBranch(context.Context) (string, error) {
	return "main", nil
}

func (inspector cleanInspector) TagAtHead(context.Context) (string, error) {
	return "v1.2.3", nil
}

func (inspector cleanInspector) RemoteURL(context.Context, string) (string, error) {
	return testRemoteConstant, nil
}

func (inspector cleanInspector) HasUncommittedChanges(context.Context) (bool, error) {
	return inspector.dirty, nil
}

type serviceFixture struct {
	workingDirectory string
	service          *generate.Service
	inspectorCalls   *int
	requestedBackend *gitrepo.Backend
	logs             *observer.ObservedLogs
}

type serviceFixtureOptions struct {
	gitLookupError  error
	repositoryError error
	inspectorError  error
	dirty           bool
}

func newServiceFixture(testInstance *testing.T, options serviceFixtureOptions) serviceFixture {
	testInstance.Helper()

	workingDirectory := filepath.Join(testInstance.TempDir(), "my-service")
	require.NoError(testInstance, os.MkdirAll(filepath.Join(workingDirectory, "pkg"), 0o755))

	inspectorCalls := 0
	var requestedBackend gitrepo.Backend
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)

	service, serviceError := generate.NewService(generate.ServiceDependencies{
		Logger:            zap.New(observedCore),
		FileSystem:        filesystem.OSFileSystem{},
		ExecutableLocator: stubExecutableLocator{err: options.gitLookupError},
		RepositoryLocator: stubRepositoryLocator{root: workingDirectory, err: options.repositoryError},
		InspectorFactory: func(backend gitrepo.Backend, repositoryRoot string) (details.Inspector, error) {
			inspectorCalls++
			requestedBackend = backend
			if options.inspectorError != nil {
				return nil, options.inspectorError
			}
			return cleanInspector{root: repositoryRoot, dirty: options.dirty}, nil
		},
	})
	require.NoError(testInstance, serviceError)

	return serviceFixture{
		workingDirectory: workingDirectory,
		service:          service,
		inspectorCalls:   &inspectorCalls,
		requestedBackend: &requestedBackend,
		logs:             observedLogs,
	}
}

func buildScript(section map[string]any) generate.ConfigurationSource {
	return generate.BuildScriptConfiguration{Origin: "config.yaml (git_details)", Section: section}
}

func TestServiceGenerateWritesPythonFile(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance, serviceFixtureOptions{})

	result, generateError := fixture.service.Generate(context.Background(), generate.Options{
		WorkingDirectory: fixture.workingDirectory,
		Source:           buildScript(map[string]any{"write_to": "pkg/_git_details.py"}),
	})
	require.NoError(testInstance, generateError)
	require.Equal(testInstance, generate.ResultStatusWritten, result.Status)

	destination := filepath.Join(fixture.workingDirectory, "pkg", "_git_details.py")
	require.Equal(testInstance, destination, result.Destination)

	contents, readError := os.ReadFile(destination)
	require.NoError(testInstance, readError)

	lines := strings.Split(strings.TrimSuffix(string(contents), "\n"), "\n")
	require.Len(testInstance, lines, 15)
	require.Equal(testInstance, `    "name": "my-service",`, lines[6])
	require.Equal(testInstance, `    "revision": "`+testRevisionConstant+`",`, lines[7])
	require.Equal(testInstance, `    "tag": "v1.2.3",`, lines[9])
	require.Equal(testInstance, `    "url": "https///github.com/org/my-service",`, lines[10])
	require.Equal(testInstance, `    "git": "`+testRemoteConstant+`",`, lines[11])
	require.Equal(testInstance, `    "is_dirty": False,`, lines[12])
	require.Equal(testInstance, gitrepo.BackendCLI, *fixture.requestedBackend)
}

func TestServiceGenerateFromProjectFileWritesGoFile(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance, serviceFixtureOptions{dirty: true})
	require.NoError(testInstance, os.MkdirAll(filepath.Join(fixture.workingDirectory, "version"), 0o755))

	projectFilePath := filepath.Join(fixture.workingDirectory, projectfile.DefaultFileNameConstant)
	require.NoError(testInstance, os.WriteFile(projectFilePath, []byte("[tool.git-details]\nwrite_to = \"version/git_details.go\"\nbackend = \"go-git\"\n"), 0o600))
	document, readError := projectfile.Read(projectFilePath)
	require.NoError(testInstance, readError)

	result, generateError := fixture.service.Generate(context.Background(), generate.Options{
		WorkingDirectory: fixture.workingDirectory,
		Source:           generate.ProjectFileConfiguration{Document: document},
	})
	require.NoError(testInstance, generateError)
	require.Equal(testInstance, generate.ResultStatusWritten, result.Status)
	require.Equal(testInstance, gitrepo.BackendGoGit, *fixture.requestedBackend)

	contents, contentsError := os.ReadFile(filepath.Join(fixture.workingDirectory, "version", "git_details.go"))
	require.NoError(testInstance, contentsError)
	require.Contains(testInstance, string(contents), "package version\n")
	require.Contains(testInstance, string(contents), testRevisionConstant+"-dirty")
	require.Contains(testInstance, string(contents), "var GitDetails = Git\n")
}

func TestServiceGenerateDryRunDoesNotWrite(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance, serviceFixtureOptions{})

	result, generateError := fixture.service.Generate(context.Background(), generate.Options{
		WorkingDirectory: fixture.workingDirectory,
		Source:           buildScript(map[string]any{"write_to": "pkg/_git_details.py"}),
		DryRun:           true,
	})
	require.NoError(testInstance, generateError)
	require.Equal(testInstance, generate.ResultStatusRendered, result.Status)
	require.Contains(testInstance, string(result.Content), "__git__ = git")
	require.NoFileExists(testInstance, filepath.Join(fixture.workingDirectory, "pkg", "_git_details.py"))
}

func TestServiceGenerateNoOps(testInstance *testing.T) {
	testCases := []struct {
		name           string
		options        serviceFixtureOptions
		source         generate.ConfigurationSource
		expectedStatus generate.ResultStatus
	}{
		{name: "no_configuration", source: generate.NoConfiguration{}, expectedStatus: generate.ResultStatusNotConfigured},
		{name: "nil_source", source: nil, expectedStatus: generate.ResultStatusNotConfigured},
		{
			name:           "disabled_skips_validation",
			source:         buildScript(map[string]any{"enabled": false}),
			expectedStatus: generate.ResultStatusDisabled,
		},
		{
			name:           "outside_repository",
			options:        serviceFixtureOptions{repositoryError: gitrepo.ErrRepositoryNotFound},
			source:         buildScript(map[string]any{"write_to": "pkg/_git_details.py"}),
			expectedStatus: generate.ResultStatusNoRepository,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newServiceFixture(testInstance, testCase.options)

			result, generateError := fixture.service.Generate(context.Background(), generate.Options{
				WorkingDirectory: fixture.workingDirectory,
				Source:           testCase.source,
			})
			require.NoError(testInstance, generateError)
			require.Equal(testInstance, testCase.expectedStatus, result.Status)
			require.Zero(testInstance, *fixture.inspectorCalls)
			require.NoFileExists(testInstance, filepath.Join(fixture.workingDirectory, "pkg", "_git_details.py"))
		})
	}
}

func TestServiceGenerateFailures(testInstance *testing.T) {
	testCases := []struct {
		name          string
		options       serviceFixtureOptions
		source        generate.ConfigurationSource
		assertFailure func(testInstance *testing.T, generateError error)
	}{
		{
			name:   "conflicting_sources",
			source: generate.ConflictingConfiguration{BuildScriptOrigin: "config.yaml (git_details)", ProjectFilePath: "gitdetails.toml"},
			assertFailure: func(testInstance *testing.T, generateError error) {
				require.ErrorAs(testInstance, generateError, &generate.ConflictingConfigurationError{})
			},
		},
		{
			name:   "missing_write_to",
			source: buildScript(map[string]any{"remote": "origin"}),
			assertFailure: func(testInstance *testing.T, generateError error) {
				require.ErrorAs(testInstance, generateError, &generate.ValidationError{})
				require.Contains(testInstance, generateError.Error(), "write_to")
			},
		},
		{
			name:   "missing_destination_directory",
			source: buildScript(map[string]any{"write_to": "missing/_git_details.py"}),
			assertFailure: func(testInstance *testing.T, generateError error) {
				require.ErrorAs(testInstance, generateError, &generate.DestinationError{})
				require.Contains(testInstance, generateError.Error(), "does NOT exist")
			},
		},
		{
			name:    "git_unavailable",
			options: serviceFixtureOptions{gitLookupError: errors.New("executable file not found in $PATH")},
			source:  buildScript(map[string]any{"write_to": "pkg/_git_details.py"}),
			assertFailure: func(testInstance *testing.T, generateError error) {
				require.ErrorIs(testInstance, generateError, generate.ErrGitUnavailable)
			},
		},
		{
			name:    "inspector_failure",
			options: serviceFixtureOptions{inspectorError: errors.New("corrupt repository")},
			source:  buildScript(map[string]any{"write_to": "pkg/_git_details.py"}),
			assertFailure: func(testInstance *testing.T, generateError error) {
				require.ErrorContains(testInstance, generateError, "corrupt repository")
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fixture := newServiceFixture(testInstance, testCase.options)

			_, generateError := fixture.service.Generate(context.Background(), generate.Options{
				WorkingDirectory: fixture.workingDirectory,
				Source:           testCase.source,
			})
			require.Error(testInstance, generateError)
			testCase.assertFailure(testInstance, generateError)
			require.NoFileExists(testInstance, filepath.Join(fixture.workingDirectory, "pkg", "_git_details.py"))
		})
	}
}

func TestServiceGenerateDestinationIsFile(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance, serviceFixtureOptions{})
	require.NoError(testInstance, os.WriteFile(filepath.Join(fixture.workingDirectory, "notes"), []byte("x"), 0o600))

	_, generateError := fixture.service.Generate(context.Background(), generate.Options{
		WorkingDirectory: fixture.workingDirectory,
		Source:           buildScript(map[string]any{"write_to": "notes/_git_details.py"}),
	})
	require.ErrorAs(testInstance, generateError, &generate.DestinationError{})
	require.Contains(testInstance, generateError.Error(), "is NOT a directory")
}

func TestServiceGenerateWarnsBeforeOverriding(testInstance *testing.T) {
	fixture := newServiceFixture(testInstance, serviceFixtureOptions{})
	destination := filepath.Join(fixture.workingDirectory, "pkg", "_git_details.py")
	require.NoError(testInstance, os.WriteFile(destination, []byte("stale"), 0o600))

	result, generateError := fixture.service.Generate(context.Background(), generate.Options{
		WorkingDirectory: fixture.workingDirectory,
		Source:           buildScript(map[string]any{"write_to": destination}),
	})
	require.NoError(testInstance, generateError)
	require.Equal(testInstance, generate.ResultStatusWritten, result.Status)

	warnings := fixture.logs.FilterMessage("existing file will be overridden").All()
	require.Len(testInstance, warnings, 1)
	require.Equal(testInstance, zapcore.WarnLevel, warnings[0].Level)

	contents, readError := os.ReadFile(destination)
	require.NoError(testInstance, readError)
	require.NotEqual(testInstance, "stale", string(contents))
}

func TestNewServiceRequiresCollaborators(testInstance *testing.T) {
	_, serviceError := generate.NewService(generate.ServiceDependencies{})
	require.Error(testInstance, serviceError)
}
