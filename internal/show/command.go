package show

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdetails/internal/buildinfo"
	"github.com/temirov/gitdetails/internal/dependencies"
	"github.com/temirov/gitdetails/internal/details"
	"github.com/temirov/gitdetails/internal/gitrepo"
	"github.com/temirov/gitdetails/internal/render"
	"github.com/temirov/gitdetails/internal/utils"
)

const (
	commandUseConstant                 = "show"
	commandShortDescriptionConstant    = "Print the repository details compiled into git-details"
	commandLongDescriptionConstant     = "show prints the name, revision, branch, tag, remote and dirty state recorded when git-details itself was built. With --live it reads them from the enclosing repository of the working directory instead."
	unexpectedArgumentsMessageConstant = "show does not accept positional arguments"
	flagLiveNameConstant               = "live"
	flagLiveDescriptionConstant        = "Read details from the working directory repository"
	flagBackendNameConstant            = "backend"
	flagBackendDescriptionConstant     = "How git is queried with --live"
	flagRemoteNameConstant             = "remote"
	flagRemoteDescriptionConstant      = "Remote whose URL is reported with --live"
	unavailableValueConstant           = "N/A"
	lineTemplateConstant               = "- %s: %v\n"
	liveExtractionFailedLogConstant    = "live details unavailable"
	workingDirectoryLogFieldConstant   = "working_directory"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// RepositoryLocator finds the repository root enclosing a directory.
type RepositoryLocator interface {
	Locate(startDirectory string) (string, error)
}

// CommandBuilder assembles the show command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	WorkingDirectory             string
	GitExecutor                  gitrepo.GitExecutor
	RepositoryLocator            RepositoryLocator
	InspectorFactory             dependencies.InspectorFactory
	BuildDetailsProvider         func() details.Details
}

// Build constructs the show command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Bool(flagLiveNameConstant, false, flagLiveDescriptionConstant)
	command.Flags().String(flagBackendNameConstant, string(gitrepo.BackendCLI), flagBackendDescriptionConstant)
	command.Flags().String(flagRemoteNameConstant, details.DefaultRemoteNameConstant, flagRemoteDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	live, _ := command.Flags().GetBool(flagLiveNameConstant)
	var shownDetails details.Details
	if live {
		shownDetails = builder.liveDetails(command)
	} else {
		shownDetails = builder.buildDetails()
	}

	WriteDetails(command.OutOrStdout(), shownDetails)
	return nil
}

// WriteDetails prints the tool name followed by one line per field, with N/A for empty values.
func WriteDetails(writer io.Writer, shownDetails details.Details) {
	keyColor := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(writer, render.ToolNameConstant)
	for _, field := range shownDetails.Fields() {
		fmt.Fprintf(writer, lineTemplateConstant, keyColor.Sprint(field.Key), displayValue(field.Value))
	}
}

func displayValue(value any) any {
	switch typed := value.(type) {
	case string:
		if len(typed) == 0 {
			return unavailableValueConstant
		}
	case bool:
		if !typed {
			return unavailableValueConstant
		}
	}
	return value
}

func (builder *CommandBuilder) buildDetails() details.Details {
	if builder.BuildDetailsProvider != nil {
		return builder.BuildDetailsProvider()
	}
	return buildinfo.Current()
}

func (builder *CommandBuilder) liveDetails(command *cobra.Command) details.Details {
	logger := builder.resolveLogger()
	workingDirectory := builder.resolveWorkingDirectory(command.Context())

	extracted, extractionError := builder.extractLive(command, logger, workingDirectory)
	if extractionError != nil {
		logger.Warn(liveExtractionFailedLogConstant, zap.String(workingDirectoryLogFieldConstant, workingDirectory), zap.Error(extractionError))
		return details.Details{}
	}
	return extracted
}

func (builder *CommandBuilder) extractLive(command *cobra.Command, logger *zap.Logger, workingDirectory string) (details.Details, error) {
	backendValue, _ := command.Flags().GetString(flagBackendNameConstant)
	backend, backendError := gitrepo.ParseBackend(backendValue)
	if backendError != nil {
		return details.Details{}, backendError
	}

	repositoryRoot, locateError := builder.resolveRepositoryLocator().Locate(workingDirectory)
	if locateError != nil {
		return details.Details{}, locateError
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLogging())
	if executorError != nil {
		return details.Details{}, executorError
	}

	inspector, inspectorError := dependencies.ResolveInspectorFactory(builder.InspectorFactory, gitExecutor)(backend, repositoryRoot)
	if inspectorError != nil {
		return details.Details{}, inspectorError
	}

	remoteName, _ := command.Flags().GetString(flagRemoteNameConstant)
	extractor, extractorError := details.NewExtractor(logger, inspector, remoteName)
	if extractorError != nil {
		return details.Details{}, extractorError
	}
	return extractor.Extract(command.Context()), nil
}

func (builder *CommandBuilder) resolveWorkingDirectory(executionContext context.Context) string {
	if len(builder.WorkingDirectory) > 0 {
		return builder.WorkingDirectory
	}
	if workingDirectory, found := utils.NewCommandContextAccessor().WorkingDirectory(executionContext); found && len(workingDirectory) > 0 {
		return workingDirectory
	}
	workingDirectory, _ := os.Getwd()
	return workingDirectory
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	return builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveRepositoryLocator() RepositoryLocator {
	if builder.RepositoryLocator != nil {
		return builder.RepositoryLocator
	}
	return gitrepo.NewRepositoryLocator(nil)
}
