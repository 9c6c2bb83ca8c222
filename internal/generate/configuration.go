package generate

import (
	"errors"
	"fmt"
	"go/token"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/temirov/gitdetails/internal/details"
	"github.com/temirov/gitdetails/internal/gitrepo"
)

// Configuration keys shared by the application configuration, flags and the project file.
const (
	WriteToKeyConstant = "write_to"
	EnabledKeyConstant = "enabled"
	FormatKeyConstant  = "format"
	PackageKeyConstant = "package"
	BackendKeyConstant = "backend"
	RemoteKeyConstant  = "remote"

	mapstructureTagNameConstant         = "mapstructure"
	goIdentifierValidationTagConstant   = "goidentifier"
	requiredValidationTagConstant       = "required"
	oneOfValidationTagConstant          = "oneof"
	requiredProblemTemplateConstant     = "%s key-value pair is missing"
	oneOfProblemTemplateConstant        = "%s must be one of: %s"
	goIdentifierProblemTemplateConstant = "%s must be a valid Go package name"
	genericProblemTemplateConstant      = "%s failed %s validation"
	oneOfParameterSeparatorConstant     = " "
	oneOfDisplaySeparatorConstant       = ", "
	validationErrorTemplateConstant     = "invalid %s section: %s"
	validationProblemSeparatorConstant  = "; "
	decodeErrorTemplateConstant         = "invalid %s section: %w"
	ruleRegistrationTemplateConstant    = "register %s validation rule: %w"
)

// Configuration controls a single generation run.
type Configuration struct {
	WriteTo string `mapstructure:"write_to" toml:"write_to" validate:"required"`
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Format  string `mapstructure:"format" toml:"format" validate:"omitempty,oneof=python go"`
	Package string `mapstructure:"package" toml:"package" validate:"omitempty,goidentifier"`
	Backend string `mapstructure:"backend" toml:"backend" validate:"oneof=cli go-git"`
	Remote  string `mapstructure:"remote" toml:"remote"`
}

// DefaultConfiguration returns the values applied before a section is decoded.
func DefaultConfiguration() Configuration {
	return Configuration{
		Enabled: true,
		Backend: string(gitrepo.BackendCLI),
		Remote:  details.DefaultRemoteNameConstant,
	}
}

// Sanitize trims values and restores defaults for blank optional keys.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.WriteTo = strings.TrimSpace(configuration.WriteTo)
	sanitized.Format = strings.ToLower(strings.TrimSpace(configuration.Format))
	sanitized.Package = strings.TrimSpace(configuration.Package)
	sanitized.Backend = strings.ToLower(strings.TrimSpace(configuration.Backend))
	sanitized.Remote = strings.TrimSpace(configuration.Remote)

	defaults := DefaultConfiguration()
	if len(sanitized.Backend) == 0 {
		sanitized.Backend = defaults.Backend
	}
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaults.Remote
	}
	return sanitized
}

// ValidationError lists every problem found in a configuration section.
type ValidationError struct {
	Section  string
	Problems []string
}

// Error describes the invalid section.
func (validationError ValidationError) Error() string {
	return fmt.Sprintf(validationErrorTemplateConstant, validationError.Section, strings.Join(validationError.Problems, validationProblemSeparatorConstant))
}

// ConfigurationValidator checks Configuration values and reports problems by configuration key.
type ConfigurationValidator struct {
	validate *validator.Validate
}

// NewConfigurationValidator registers the key name mapping and custom rules.
func NewConfigurationValidator() (*ConfigurationValidator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.Split(field.Tag.Get(mapstructureTagNameConstant), ",")[0]
		if len(name) == 0 {
			return field.Name
		}
		return name
	})

	registrationError := registerValidationRules(validate, map[string]validator.Func{
		goIdentifierValidationTagConstant: isGoPackageName,
	})
	if registrationError != nil {
		return nil, registrationError
	}
	return &ConfigurationValidator{validate: validate}, nil
}

func registerValidationRules(validate *validator.Validate, rules map[string]validator.Func) error {
	for tag, rule := range rules {
		if registrationError := validate.RegisterValidation(tag, rule); registrationError != nil {
			return fmt.Errorf(ruleRegistrationTemplateConstant, tag, registrationError)
		}
	}
	return nil
}

func isGoPackageName(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()
	return token.IsIdentifier(value) && !token.IsKeyword(value)
}

// Validate returns a ValidationError naming every offending key of section.
func (configurationValidator *ConfigurationValidator) Validate(section string, configuration Configuration) error {
	validationResult := configurationValidator.validate.Struct(configuration)
	if validationResult == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(validationResult, &fieldErrors) {
		return validationResult
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		problems = append(problems, describeProblem(fieldError))
	}
	return ValidationError{Section: section, Problems: problems}
}

func describeProblem(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case requiredValidationTagConstant:
		return fmt.Sprintf(requiredProblemTemplateConstant, fieldError.Field())
	case oneOfValidationTagConstant:
		choices := strings.ReplaceAll(fieldError.Param(), oneOfParameterSeparatorConstant, oneOfDisplaySeparatorConstant)
		return fmt.Sprintf(oneOfProblemTemplateConstant, fieldError.Field(), choices)
	case goIdentifierValidationTagConstant:
		return fmt.Sprintf(goIdentifierProblemTemplateConstant, fieldError.Field())
	default:
		return fmt.Sprintf(genericProblemTemplateConstant, fieldError.Field(), fieldError.Tag())
	}
}

// decodeSection decodes a free-form section over the defaults.
func decodeSection(section string, values map[string]any) (Configuration, error) {
	configuration := DefaultConfiguration()
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &configuration,
		TagName:          mapstructureTagNameConstant,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		return Configuration{}, fmt.Errorf(decodeErrorTemplateConstant, section, decoderError)
	}
	if decodeError := decoder.Decode(values); decodeError != nil {
		return Configuration{}, fmt.Errorf(decodeErrorTemplateConstant, section, decodeError)
	}
	return configuration, nil
}
