package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gitdetails/internal/execshell"
)

const (
	gitRevParseSubcommandConstant        = "rev-parse"
	gitShowTopLevelFlagConstant          = "--show-toplevel"
	gitAbbrevRefFlagConstant             = "--abbrev-ref"
	gitHeadReferenceConstant             = "HEAD"
	gitDescribeSubcommandConstant        = "describe"
	gitTagsFlagConstant                  = "--tags"
	gitExactMatchFlagConstant            = "--exact-match"
	gitRemoteSubcommandConstant          = "remote"
	gitGetURLSubcommandConstant          = "get-url"
	gitStatusSubcommandConstant          = "status"
	gitPorcelainFlagConstant             = "--porcelain"
	gitUntrackedFilesNoFlagConstant      = "--untracked-files=no"
	executorNotConfiguredMessageConstant = "git executor not configured"
	remoteNameRequiredMessageConstant    = "remote name required"
	gitQueryFailedTemplateConstant       = "git %s: %w"
	gitOptionalLocksVariableConstant     = "GIT_OPTIONAL_LOCKS"
	gitTerminalPromptVariableConstant    = "GIT_TERMINAL_PROMPT"
	disabledVariableValueConstant        = "0"
)

// QueryEnvironment keeps git from refreshing the index or prompting while answering queries.
var QueryEnvironment = map[string]string{
	gitOptionalLocksVariableConstant:  disabledVariableValueConstant,
	gitTerminalPromptVariableConstant: disabledVariableValueConstant,
}

// ErrExecutorNotConfigured indicates a CLIInspector was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrRemoteNameRequired indicates RemoteURL was called with a blank remote name.
var ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CLIInspector answers repository questions by running the git executable in a working directory.
type CLIInspector struct {
	executor         GitExecutor
	workingDirectory string
}

// NewCLIInspector validates the executor and constructs a CLIInspector rooted at workingDirectory.
func NewCLIInspector(executor GitExecutor, workingDirectory string) (*CLIInspector, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &CLIInspector{executor: executor, workingDirectory: workingDirectory}, nil
}

// RepositoryRoot returns the top-level directory of the working tree.
func (inspector *CLIInspector) RepositoryRoot(executionContext context.Context) (string, error) {
	return inspector.query(executionContext, gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant)
}

// HeadRevision returns the full commit id of HEAD.
func (inspector *CLIInspector) HeadRevision(executionContext context.Context) (string, error) {
	return inspector.query(executionContext, gitRevParseSubcommandConstant, gitHeadReferenceConstant)
}

// CurrentBranch returns the checked-out branch, or an empty string for a detached HEAD.
func (inspector *CLIInspector) CurrentBranch(executionContext context.Context) (string, error) {
	branchName, queryError := inspector.query(executionContext, gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant)
	if queryError != nil {
		return "", queryError
	}
	if branchName == gitHeadReferenceConstant {
		return "", nil
	}
	return branchName, nil
}

// TagAtHead returns the tag pointing exactly at HEAD. git exits non-zero when there is none, which yields an empty tag.
func (inspector *CLIInspector) TagAtHead(executionContext context.Context) (string, error) {
	tagName, queryError := inspector.query(executionContext, gitDescribeSubcommandConstant, gitTagsFlagConstant, gitExactMatchFlagConstant, gitHeadReferenceConstant)
	if queryError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(queryError, &failedError) {
			return "", nil
		}
		return "", queryError
	}
	return tagName, nil
}

// RemoteURL returns the configured fetch URL of the named remote exactly as stored.
func (inspector *CLIInspector) RemoteURL(executionContext context.Context, remoteName string) (string, error) {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return "", ErrRemoteNameRequired
	}
	return inspector.query(executionContext, gitRemoteSubcommandConstant, gitGetURLSubcommandConstant, trimmedRemoteName)
}

// HasUncommittedChanges reports modified, staged or deleted tracked files.
func (inspector *CLIInspector) HasUncommittedChanges(executionContext context.Context) (bool, error) {
	statusOutput, queryError := inspector.query(executionContext, gitStatusSubcommandConstant, gitPorcelainFlagConstant, gitUntrackedFilesNoFlagConstant)
	if queryError != nil {
		return false, queryError
	}
	return len(statusOutput) > 0, nil
}

func (inspector *CLIInspector) query(executionContext context.Context, arguments ...string) (string, error) {
	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     inspector.workingDirectory,
		EnvironmentVariables: QueryEnvironment,
	})
	if executionError != nil {
		return "", fmt.Errorf(gitQueryFailedTemplateConstant, arguments[0], executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}
