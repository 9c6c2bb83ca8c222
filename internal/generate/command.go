package generate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitdetails/internal/dependencies"
	"github.com/temirov/gitdetails/internal/gitrepo"
	"github.com/temirov/gitdetails/internal/projectfile"
	"github.com/temirov/gitdetails/internal/render"
	"github.com/temirov/gitdetails/internal/utils"
	"github.com/temirov/gitdetails/internal/utils/flags"
	pathutils "github.com/temirov/gitdetails/internal/utils/path"
)

const (
	commandUseConstant                    = "generate"
	commandShortDescriptionConstant       = "Write repository details into a generated source file"
	commandLongDescriptionConstant        = "generate queries the enclosing git repository for its name, revision, branch, tag, remote and dirty state and writes them to the file named by write_to. Configuration comes from the git_details section of the configuration file and these flags, or from the [tool.git-details] table of the project file, never both."
	commandExecutionErrorTemplateConstant = "git-details generate failed: %w"
	unexpectedArgumentsMessageConstant    = "generate does not accept positional arguments"
	workingDirectoryTemplateConstant      = "determine working directory: %w"
	flagWriteToNameConstant               = "write-to"
	flagWriteToDescriptionConstant        = "Destination of the generated file, relative to the working directory"
	flagEnabledNameConstant               = "enabled"
	flagEnabledDescriptionConstant        = "Generate the file; disabled runs do nothing"
	flagFormatNameConstant                = "format"
	flagFormatDescriptionConstant         = "Generated file format; inferred from the destination extension when omitted"
	flagPackageNameConstant               = "package"
	flagPackageDescriptionConstant        = "Go package name for the go format; defaults to the destination directory name"
	flagBackendNameConstant               = "backend"
	flagBackendDescriptionConstant        = "How git is queried"
	flagRemoteNameConstant                = "remote"
	flagRemoteDescriptionConstant         = "Remote whose URL is recorded"
	flagProjectFileNameConstant           = "project-file"
	flagProjectFileDescriptionConstant    = "TOML project file holding a [tool.git-details] table"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Print the generated file instead of writing it"
	flagsOriginConstant                   = "command flags"
	configurationOriginTemplateConstant   = "%s (git_details)"
	runFinishedLogMessageConstant         = "generate finished"
	statusLogFieldConstant                = "status"
	configurationFileLogFieldConstant     = "config_file"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the git_details section of the application configuration.
type ConfigurationProvider func() map[string]any

// CommandBuilder assembles the generate command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	WorkingDirectory             string
	GitExecutor                  gitrepo.GitExecutor
	FileSystem                   FileSystem
	ExecutableLocator            ExecutableLocator
	RepositoryLocator            RepositoryLocator
	InspectorFactory             InspectorFactory
}

// Build constructs the generate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	defaults := DefaultConfiguration()
	command.Flags().String(flagWriteToNameConstant, "", flagWriteToDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), nil, flagEnabledNameConstant, defaults.Enabled, flagEnabledDescriptionConstant)
	command.Flags().String(flagFormatNameConstant, "", flags.FormatChoiceUsage("", []string{string(render.FormatPython), string(render.FormatGo)}, flagFormatDescriptionConstant))
	command.Flags().String(flagPackageNameConstant, "", flagPackageDescriptionConstant)
	command.Flags().String(flagBackendNameConstant, defaults.Backend, flags.FormatChoiceUsage(defaults.Backend, []string{string(gitrepo.BackendCLI), string(gitrepo.BackendGoGit)}, flagBackendDescriptionConstant))
	command.Flags().String(flagRemoteNameConstant, defaults.Remote, flagRemoteDescriptionConstant)
	command.Flags().String(flagProjectFileNameConstant, projectfile.DefaultFileNameConstant, flagProjectFileDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	workingDirectory, workingDirectoryError := builder.resolveWorkingDirectory(command)
	if workingDirectoryError != nil {
		return workingDirectoryError
	}

	logger := builder.resolveLogger()
	homeExpander := pathutils.NewHomeExpander()

	projectFilePath, _ := command.Flags().GetString(flagProjectFileNameConstant)
	document, documentError := projectfile.Read(homeExpander.Resolve(workingDirectory, projectFilePath))
	if documentError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, documentError)
	}

	configurationFilePath, _ := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	source := ResolveSource(buildScriptOrigin(configurationFilePath), builder.buildScriptSection(command), document)

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLogging())
	if executorError != nil {
		return executorError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:            logger,
		FileSystem:        dependencies.ResolveFileSystem(builder.FileSystem),
		ExecutableLocator: dependencies.ResolveExecutableLocator(builder.ExecutableLocator),
		RepositoryLocator: builder.resolveRepositoryLocator(),
		InspectorFactory:  builder.resolveInspectorFactory(gitExecutor),
		HomeExpander:      homeExpander,
	})
	if serviceError != nil {
		return serviceError
	}

	dryRun, _ := command.Flags().GetBool(flagDryRunNameConstant)
	result, generateError := service.Generate(command.Context(), Options{
		WorkingDirectory: workingDirectory,
		Source:           source,
		DryRun:           dryRun,
	})
	if generateError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, generateError)
	}

	logger.Debug(
		runFinishedLogMessageConstant,
		zap.String(statusLogFieldConstant, string(result.Status)),
		zap.String(configurationFileLogFieldConstant, configurationFilePath),
	)

	if result.Status == ResultStatusRendered {
		_, printError := command.OutOrStdout().Write(result.Content)
		return printError
	}
	return nil
}

// buildScriptSection merges explicitly set flags over the configured git_details section.
func (builder *CommandBuilder) buildScriptSection(command *cobra.Command) map[string]any {
	section := map[string]any{}
	if builder.ConfigurationProvider != nil {
		for key, value := range builder.ConfigurationProvider() {
			section[strings.ToLower(key)] = value
		}
	}

	stringFlags := map[string]string{
		flagWriteToNameConstant: WriteToKeyConstant,
		flagFormatNameConstant:  FormatKeyConstant,
		flagPackageNameConstant: PackageKeyConstant,
		flagBackendNameConstant: BackendKeyConstant,
		flagRemoteNameConstant:  RemoteKeyConstant,
	}
	for flagName, configurationKey := range stringFlags {
		if command.Flags().Changed(flagName) {
			value, _ := command.Flags().GetString(flagName)
			section[configurationKey] = value
		}
	}
	if command.Flags().Changed(flagEnabledNameConstant) {
		section[EnabledKeyConstant] = command.Flags().Lookup(flagEnabledNameConstant).Value.String()
	}

	if len(section) == 0 {
		return nil
	}
	return section
}

func buildScriptOrigin(configurationFilePath string) string {
	if len(strings.TrimSpace(configurationFilePath)) == 0 {
		return flagsOriginConstant
	}
	return fmt.Sprintf(configurationOriginTemplateConstant, configurationFilePath)
}

func (builder *CommandBuilder) resolveWorkingDirectory(command *cobra.Command) (string, error) {
	if len(builder.WorkingDirectory) > 0 {
		return builder.WorkingDirectory, nil
	}
	if workingDirectory, found := utils.NewCommandContextAccessor().WorkingDirectory(command.Context()); found && len(workingDirectory) > 0 {
		return workingDirectory, nil
	}
	workingDirectory, getwdError := os.Getwd()
	if getwdError != nil {
		return "", fmt.Errorf(workingDirectoryTemplateConstant, getwdError)
	}
	return workingDirectory, nil
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

func (builder *CommandBuilder) resolveInspectorFactory(executor gitrepo.GitExecutor) InspectorFactory {
	if builder.InspectorFactory != nil {
		return builder.InspectorFactory
	}
	return InspectorFactory(dependencies.ResolveInspectorFactory(nil, executor))
}
