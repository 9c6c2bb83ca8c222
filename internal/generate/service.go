package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/gitdetails/internal/details"
	"github.com/temirov/gitdetails/internal/execshell"
	"github.com/temirov/gitdetails/internal/gitrepo"
	"github.com/temirov/gitdetails/internal/render"
	pathutils "github.com/temirov/gitdetails/internal/utils/path"
)

const (
	fileSystemNotConfiguredMessageConstant        = "generate service file system not configured"
	executableLocatorNotConfiguredMessageConstant = "generate service executable locator not configured"
	repositoryLocatorNotConfiguredMessageConstant = "generate service repository locator not configured"
	inspectorFactoryNotConfiguredMessageConstant  = "generate service inspector factory not configured"
	gitUnavailableMessageConstant                 = "git is either not installed or not in PATH"
	gitUnavailableTemplateConstant                = "%w: %v"
	projectFileDecodeTemplateConstant             = "invalid %s section: %w"
	inspectorCreationTemplateConstant             = "open repository %s: %w"
	renderTemplateConstant                        = "render %s: %w"
	writeTemplateConstant                         = "write %s: %w"
	destinationErrorTemplateConstant              = "git-details: %s %s"
	destinationMissingProblemConstant             = "does NOT exist"
	destinationNotDirectoryProblemConstant        = "is NOT a directory"
	destinationIsDirectoryProblemConstant         = "is a directory, not a file"
	generatedFilePermissionsConstant              = fs.FileMode(0o644)

	notConfiguredLogMessageConstant       = "git-details not configured; nothing to do"
	disabledLogMessageConstant            = "git-details disabled; nothing to do"
	noRepositoryLogMessageConstant        = "not inside a git repository; nothing to do"
	configurationLoadedLogMessageConstant = "loaded git-details configuration"
	overriddenLogMessageConstant          = "existing file will be overridden"
	renderedLogMessageConstant            = "rendered git details without writing"
	writtenLogMessageConstant             = "wrote git details"
	sectionLogFieldConstant               = "section"
	pathLogFieldConstant                  = "path"
	formatLogFieldConstant                = "format"
	backendLogFieldConstant               = "backend"
	directoryLogFieldConstant             = "directory"
	repositoryLogFieldConstant            = "repository"
)

// ErrGitUnavailable indicates the git executable cannot be found.
var ErrGitUnavailable = errors.New(gitUnavailableMessageConstant)

var (
	errFileSystemNotConfigured        = errors.New(fileSystemNotConfiguredMessageConstant)
	errExecutableLocatorNotConfigured = errors.New(executableLocatorNotConfiguredMessageConstant)
	errRepositoryLocatorNotConfigured = errors.New(repositoryLocatorNotConfiguredMessageConstant)
	errInspectorFactoryNotConfigured  = errors.New(inspectorFactoryNotConfiguredMessageConstant)
)

// ResultStatus summarizes how a run ended.
type ResultStatus string

// Run outcomes.
const (
	ResultStatusNotConfigured ResultStatus = ResultStatus("not_configured")
	ResultStatusDisabled      ResultStatus = ResultStatus("disabled")
	ResultStatusNoRepository  ResultStatus = ResultStatus("no_repository")
	ResultStatusRendered      ResultStatus = ResultStatus("rendered")
	ResultStatusWritten       ResultStatus = ResultStatus("written")
)

// DestinationError reports an unusable write_to location.
type DestinationError struct {
	Path    string
	Problem string
	Cause   error
}

// Error describes the destination problem.
func (destinationError DestinationError) Error() string {
	return fmt.Sprintf(destinationErrorTemplateConstant, destinationError.Path, destinationError.Problem)
}

// Unwrap exposes the underlying file system error when present.
func (destinationError DestinationError) Unwrap() error {
	return destinationError.Cause
}

// FileSystem is the file access needed to place generated files.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}

// ExecutableLocator finds executables on PATH.
type ExecutableLocator interface {
	Locate(name execshell.CommandName) (string, error)
}

// RepositoryLocator finds the working tree enclosing a directory.
type RepositoryLocator interface {
	Locate(startDirectory string) (string, error)
}

// InspectorFactory opens a details.Inspector for a repository.
type InspectorFactory func(backend gitrepo.Backend, repositoryRoot string) (details.Inspector, error)

// ContentRenderer renders extracted details.
type ContentRenderer interface {
	Render(request render.Request) ([]byte, error)
}

// ServiceDependencies enumerates the collaborators of Service.
type ServiceDependencies struct {
	Logger            *zap.Logger
	FileSystem        FileSystem
	ExecutableLocator ExecutableLocator
	RepositoryLocator RepositoryLocator
	InspectorFactory  InspectorFactory
	Renderer          ContentRenderer
	Validator         *ConfigurationValidator
	HomeExpander      *pathutils.HomeExpander
}

// Options configures a single Generate call.
type Options struct {
	WorkingDirectory string
	Source           ConfigurationSource
	DryRun           bool
}

// Result describes a finished run. Content is set for rendered and written runs.
type Result struct {
	Status      ResultStatus
	Destination string
	Format      render.Format
	Details     details.Details
	Content     []byte
}

// Service writes git details files.
type Service struct {
	logger            *zap.Logger
	fileSystem        FileSystem
	executableLocator ExecutableLocator
	repositoryLocator RepositoryLocator
	inspectorFactory  InspectorFactory
	renderer          ContentRenderer
	validator         *ConfigurationValidator
	homeExpander      *pathutils.HomeExpander
}

// NewService validates dependencies and fills optional ones with defaults.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, errFileSystemNotConfigured
	}
	if dependencies.ExecutableLocator == nil {
		return nil, errExecutableLocatorNotConfigured
	}
	if dependencies.RepositoryLocator == nil {
		return nil, errRepositoryLocatorNotConfigured
	}
	if dependencies.InspectorFactory == nil {
		return nil, errInspectorFactoryNotConfigured
	}

	service := &Service{
		logger:            dependencies.Logger,
		fileSystem:        dependencies.FileSystem,
		executableLocator: dependencies.ExecutableLocator,
		repositoryLocator: dependencies.RepositoryLocator,
		inspectorFactory:  dependencies.InspectorFactory,
		renderer:          dependencies.Renderer,
		validator:         dependencies.Validator,
		homeExpander:      dependencies.HomeExpander,
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	if service.renderer == nil {
		service.renderer = render.NewRenderer()
	}
	if service.validator == nil {
		validator, validatorError := NewConfigurationValidator()
		if validatorError != nil {
			return nil, validatorError
		}
		service.validator = validator
	}
	if service.homeExpander == nil {
		service.homeExpander = pathutils.NewHomeExpander()
	}
	return service, nil
}

// Generate runs one generation. The file is written last, so a returned error means nothing was written.
func (service *Service) Generate(executionContext context.Context, options Options) (Result, error) {
	configuration, sectionName, proceed, resolveError := service.resolveConfiguration(options.Source)
	if resolveError != nil {
		return Result{}, resolveError
	}
	if !proceed {
		return Result{Status: ResultStatusNotConfigured}, nil
	}

	configuration = configuration.Sanitize()
	service.logger.Debug(
		configurationLoadedLogMessageConstant,
		zap.String(sectionLogFieldConstant, sectionName),
		zap.String(WriteToKeyConstant, configuration.WriteTo),
		zap.Bool(EnabledKeyConstant, configuration.Enabled),
	)
	if !configuration.Enabled {
		service.logger.Debug(disabledLogMessageConstant, zap.String(sectionLogFieldConstant, sectionName))
		return Result{Status: ResultStatusDisabled}, nil
	}

	if validationError := service.validator.Validate(sectionName, configuration); validationError != nil {
		return Result{}, validationError
	}

	destination := service.homeExpander.Resolve(options.WorkingDirectory, configuration.WriteTo)
	format, formatError := render.ResolveFormat(configuration.Format, destination)
	if formatError != nil {
		return Result{}, formatError
	}
	backend, backendError := gitrepo.ParseBackend(configuration.Backend)
	if backendError != nil {
		return Result{}, backendError
	}

	if destinationError := service.checkDestination(destination); destinationError != nil {
		return Result{}, destinationError
	}

	if backend == gitrepo.BackendCLI {
		if _, locateError := service.executableLocator.Locate(execshell.CommandGit); locateError != nil {
			return Result{}, fmt.Errorf(gitUnavailableTemplateConstant, ErrGitUnavailable, locateError)
		}
	}

	repositoryRoot, locateError := service.repositoryLocator.Locate(options.WorkingDirectory)
	if locateError != nil {
		service.logger.Debug(noRepositoryLogMessageConstant, zap.String(directoryLogFieldConstant, options.WorkingDirectory), zap.Error(locateError))
		return Result{Status: ResultStatusNoRepository}, nil
	}

	inspector, inspectorError := service.inspectorFactory(backend, repositoryRoot)
	if inspectorError != nil {
		return Result{}, fmt.Errorf(inspectorCreationTemplateConstant, repositoryRoot, inspectorError)
	}
	extractor, extractorError := details.NewExtractor(service.logger, inspector, configuration.Remote)
	if extractorError != nil {
		return Result{}, extractorError
	}
	extracted := extractor.Extract(executionContext)

	request := render.Request{Format: format, Details: extracted}
	if format == render.FormatGo {
		request.PackageName = render.PackageName(configuration.Package, destination)
	}
	content, renderError := service.renderer.Render(request)
	if renderError != nil {
		return Result{}, fmt.Errorf(renderTemplateConstant, destination, renderError)
	}

	result := Result{Status: ResultStatusRendered, Destination: destination, Format: format, Details: extracted, Content: content}
	logFields := []zap.Field{
		zap.String(pathLogFieldConstant, destination),
		zap.String(formatLogFieldConstant, string(format)),
		zap.String(backendLogFieldConstant, string(backend)),
		zap.String(repositoryLogFieldConstant, repositoryRoot),
	}
	if options.DryRun {
		service.logger.Info(renderedLogMessageConstant, logFields...)
		return result, nil
	}

	if writeError := service.fileSystem.WriteFile(destination, content, generatedFilePermissionsConstant); writeError != nil {
		return Result{}, fmt.Errorf(writeTemplateConstant, destination, writeError)
	}
	service.logger.Info(writtenLogMessageConstant, logFields...)
	result.Status = ResultStatusWritten
	return result, nil
}

func (service *Service) resolveConfiguration(source ConfigurationSource) (Configuration, string, bool, error) {
	switch typedSource := source.(type) {
	case nil, NoConfiguration:
		service.logger.Debug(notConfiguredLogMessageConstant)
		return Configuration{}, "", false, nil
	case ConflictingConfiguration:
		return Configuration{}, "", false, ConflictingConfigurationError(typedSource)
	case BuildScriptConfiguration:
		configuration, decodeError := decodeSection(buildScriptSectionNameConstant, typedSource.Section)
		if decodeError != nil {
			return Configuration{}, "", false, decodeError
		}
		return configuration, buildScriptSectionNameConstant, true, nil
	case ProjectFileConfiguration:
		configuration := DefaultConfiguration()
		if decodeError := typedSource.Document.Decode(&configuration); decodeError != nil {
			return Configuration{}, "", false, fmt.Errorf(projectFileDecodeTemplateConstant, projectFileSectionNameConstant, decodeError)
		}
		return configuration, projectFileSectionNameConstant, true, nil
	default:
		service.logger.Debug(notConfiguredLogMessageConstant)
		return Configuration{}, "", false, nil
	}
}

func (service *Service) checkDestination(destination string) error {
	directory := filepath.Dir(destination)
	directoryInfo, directoryError := service.fileSystem.Stat(directory)
	if directoryError != nil {
		return DestinationError{Path: directory, Problem: destinationMissingProblemConstant, Cause: directoryError}
	}
	if !directoryInfo.IsDir() {
		return DestinationError{Path: directory, Problem: destinationNotDirectoryProblemConstant}
	}

	existingInfo, existingError := service.fileSystem.Stat(destination)
	if existingError != nil {
		return nil
	}
	if existingInfo.IsDir() {
		return DestinationError{Path: destination, Problem: destinationIsDirectoryProblemConstant}
	}
	service.logger.Warn(overriddenLogMessageConstant, zap.String(pathLogFieldConstant, destination))
	return nil
}
