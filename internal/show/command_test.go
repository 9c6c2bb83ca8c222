package show_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gitdetails/internal/details"
	"github.com/temirov/gitdetails/internal/gitrepo"
	"github.com/temirov/gitdetails/internal/show"
)

const (
	testRepositoryRootConstant = "/workspace/sample-service"
	testRevisionConstant       = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"
)

type stubRepositoryLocator struct {
	root        string
	locateError error
}

func (locator stubRepositoryLocator) Locate(string) (string, error) {
	return locator.root, locator.locateError
}

type taggedInspector struct{}

func (taggedInspector) RepositoryRoot(context.Context) (string, error) {
	return testRepositoryRootConstant, nil
}

func (taggedInspector) HeadRevision(context.Context) (string, error) {
	return testRevisionConstant, nil
}

func (taggedInspector) CurrentBranch(context.Context) (string, error) {
	return "main", nil
}

func (taggedInspector) TagAtHead(context.Context) (string, error) {
	return "v1.2.0", nil
}

func (taggedInspector) RemoteURL(context.Context, string) (string, error) {
	return "git@github.com:example/sample-service.git", nil
}

func (taggedInspector) HasUncommittedChanges(context.Context) (bool, error) {
	return false, nil
}

func TestMain(testMain *testing.M) {
	color.NoColor = true
	testMain.Run()
}

func TestWriteDetailsSubstitutesUnavailableValues(testInstance *testing.T) {
	var output bytes.Buffer
	show.WriteDetails(&output, details.Details{Name: "sample-service", Revision: testRevisionConstant})

	expected := "git-details\n" +
		"- name: sample-service\n" +
		"- revision: " + testRevisionConstant + "\n" +
		"- branch: N/A\n" +
		"- tag: N/A\n" +
		"- url: N/A\n" +
		"- git: N/A\n" +
		"- is_dirty: N/A\n"
	require.Equal(testInstance, expected, output.String())
}

func TestShowCommandPrintsBuildDetails(testInstance *testing.T) {
	builder := show.CommandBuilder{
		BuildDetailsProvider: func() details.Details {
			return details.Details{Name: "git-details", Tag: "v0.3.0-dirty", IsDirty: true}
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetArgs([]string{})
	require.NoError(testInstance, command.Execute())

	require.Contains(testInstance, output.String(), "- name: git-details\n")
	require.Contains(testInstance, output.String(), "- tag: v0.3.0-dirty\n")
	require.Contains(testInstance, output.String(), "- is_dirty: true\n")
}

func TestShowCommandLiveExtractsFromRepository(testInstance *testing.T) {
	var requestedBackend gitrepo.Backend
	builder := show.CommandBuilder{
		WorkingDirectory:  testRepositoryRootConstant,
		RepositoryLocator: stubRepositoryLocator{root: testRepositoryRootConstant},
		InspectorFactory: func(backend gitrepo.Backend, repositoryRoot string) (details.Inspector, error) {
			requestedBackend = backend
			require.Equal(testInstance, testRepositoryRootConstant, repositoryRoot)
			return taggedInspector{}, nil
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetArgs([]string{"--live", "--backend", "go-git"})
	require.NoError(testInstance, command.Execute())

	require.Equal(testInstance, gitrepo.BackendGoGit, requestedBackend)
	require.Contains(testInstance, output.String(), "- name: sample-service\n")
	require.Contains(testInstance, output.String(), "- url: https///github.com/example/sample-service\n")
	require.Contains(testInstance, output.String(), "- is_dirty: N/A\n")
}

func TestShowCommandLiveFailureIsLoggedOnly(testInstance *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	builder := show.CommandBuilder{
		LoggerProvider:    func() *zap.Logger { return zap.New(core) },
		WorkingDirectory:  testInstance.TempDir(),
		RepositoryLocator: stubRepositoryLocator{locateError: errors.New("no git repository found")},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetArgs([]string{"--live"})
	require.NoError(testInstance, command.Execute())

	require.Contains(testInstance, output.String(), "- name: N/A\n")
	require.Equal(testInstance, 1, recorded.FilterMessage("live details unavailable").Len())
}

func TestShowCommandRejectsArguments(testInstance *testing.T) {
	builder := show.CommandBuilder{}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	command.SetArgs([]string{"extra"})
	require.Error(testInstance, command.Execute())
}
