package generate

import (
	"fmt"

	"github.com/temirov/gitdetails/internal/projectfile"
)

const (
	buildScriptSectionNameConstant     = "git_details"
	projectFileSectionNameConstant     = projectfile.ToolTableConstant + "." + projectfile.SectionTableConstant
	conflictingSourcesTemplateConstant = "both %s and %s configure git-details; remove one of them"
)

// ConfigurationSource identifies where the configuration of a run comes from.
// It is one of NoConfiguration, BuildScriptConfiguration, ProjectFileConfiguration or ConflictingConfiguration.
type ConfigurationSource interface {
	configurationSource()
}

// NoConfiguration means neither source carries a git-details section.
type NoConfiguration struct{}

// BuildScriptConfiguration is the git_details section of the application configuration merged with command flags.
type BuildScriptConfiguration struct {
	Origin  string
	Section map[string]any
}

// ProjectFileConfiguration is the [tool.git-details] table of a project file.
type ProjectFileConfiguration struct {
	Document projectfile.Document
}

// ConflictingConfiguration means both sources carry a section.
type ConflictingConfiguration struct {
	BuildScriptOrigin string
	ProjectFilePath   string
}

func (NoConfiguration) configurationSource()          {}
func (BuildScriptConfiguration) configurationSource() {}
func (ProjectFileConfiguration) configurationSource() {}
func (ConflictingConfiguration) configurationSource() {}

// ConflictingConfigurationError reports that both sources configure git-details.
type ConflictingConfigurationError struct {
	BuildScriptOrigin string
	ProjectFilePath   string
}

// Error describes the conflict.
func (conflictError ConflictingConfigurationError) Error() string {
	return fmt.Sprintf(conflictingSourcesTemplateConstant, conflictError.BuildScriptOrigin, conflictError.ProjectFilePath)
}

// ResolveSource picks the configuration source from the build-script section and the project file.
// An empty build-script section counts as absent.
func ResolveSource(buildScriptOrigin string, buildScriptSection map[string]any, document projectfile.Document) ConfigurationSource {
	hasBuildScript := len(buildScriptSection) > 0
	hasProjectFile := document.HasSection()

	switch {
	case hasBuildScript && hasProjectFile:
		return ConflictingConfiguration{BuildScriptOrigin: buildScriptOrigin, ProjectFilePath: document.Path}
	case hasBuildScript:
		return BuildScriptConfiguration{Origin: buildScriptOrigin, Section: buildScriptSection}
	case hasProjectFile:
		return ProjectFileConfiguration{Document: document}
	default:
		return NoConfiguration{}
	}
}
