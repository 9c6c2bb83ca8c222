package render

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"golang.org/x/tools/imports"

	"github.com/temirov/gitdetails/internal/details"
)

const (
	// ToolNameConstant is the generator name recorded in file headers.
	ToolNameConstant = "git-details"

	pythonTrueLiteralConstant          = "True"
	pythonFalseLiteralConstant         = "False"
	pythonStringTemplateConstant       = "\"%s\""
	goSourceExtensionConstant          = ".go"
	defaultPackageNameConstant         = "gitdetails"
	packageNameReplacementConstant     = '_'
	leadingDigitPackagePrefixConstant  = "v"
	unsupportedFormatTemplateConstant  = "unsupported output format %q"
	templateExecutionTemplateConstant  = "render %s template: %w"
	goFormattingTemplateConstant       = "format generated go source: %w"
	goFormattingFilenameConstant       = "git_details.go"
	goTabWidthConstant                 = 8
	packageNameRequiredMessageConstant = "package name required for go output"
)

// Format selects the language of the generated file.
type Format string

// Supported formats.
const (
	FormatPython Format = Format("python")
	FormatGo     Format = Format("go")
)

// ErrPackageNameRequired indicates a go render request without a package name.
var ErrPackageNameRequired = errors.New(packageNameRequiredMessageConstant)

// UnsupportedFormatError reports a format outside FormatPython and FormatGo.
type UnsupportedFormatError struct {
	Format string
}

// Error describes the unsupported format.
func (formatError UnsupportedFormatError) Error() string {
	return fmt.Sprintf(unsupportedFormatTemplateConstant, formatError.Format)
}

// Request describes a single render.
type Request struct {
	Format      Format
	Details     details.Details
	PackageName string
}

type templateField struct {
	Key     string
	Literal string
}

type templateData struct {
	ToolName    string
	PackageName string
	Fields      []templateField
}

// Renderer renders details through the fixed per-format templates.
type Renderer struct {
	templates map[Format]*template.Template
}

// NewRenderer parses the built-in templates.
func NewRenderer() *Renderer {
	return &Renderer{templates: map[Format]*template.Template{
		FormatPython: template.Must(template.New(string(FormatPython)).Parse(pythonTemplateConstant)),
		FormatGo:     template.Must(template.New(string(FormatGo)).Parse(goTemplateConstant)),
	}}
}

// Render returns the file content for the request. Go output is passed through gofmt.
func (renderer *Renderer) Render(request Request) ([]byte, error) {
	selectedTemplate, known := renderer.templates[request.Format]
	if !known {
		return nil, UnsupportedFormatError{Format: string(request.Format)}
	}
	if request.Format == FormatGo && len(strings.TrimSpace(request.PackageName)) == 0 {
		return nil, ErrPackageNameRequired
	}

	data := templateData{
		ToolName:    ToolNameConstant,
		PackageName: strings.TrimSpace(request.PackageName),
	}
	for _, field := range request.Details.Fields() {
		data.Fields = append(data.Fields, templateField{Key: field.Key, Literal: literal(request.Format, field.Value)})
	}

	var buffer bytes.Buffer
	if executionError := selectedTemplate.Execute(&buffer, data); executionError != nil {
		return nil, fmt.Errorf(templateExecutionTemplateConstant, request.Format, executionError)
	}

	if request.Format != FormatGo {
		return buffer.Bytes(), nil
	}

	formatted, formattingError := imports.Process(goFormattingFilenameConstant, buffer.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   goTabWidthConstant,
		FormatOnly: true,
	})
	if formattingError != nil {
		return nil, fmt.Errorf(goFormattingTemplateConstant, formattingError)
	}
	return formatted, nil
}

func literal(format Format, value any) string {
	switch typedValue := value.(type) {
	case bool:
		if format == FormatGo {
			return strconv.FormatBool(typedValue)
		}
		if typedValue {
			return pythonTrueLiteralConstant
		}
		return pythonFalseLiteralConstant
	case string:
		if format == FormatGo {
			return strconv.Quote(typedValue)
		}
		return fmt.Sprintf(pythonStringTemplateConstant, typedValue)
	default:
		return fmt.Sprint(typedValue)
	}
}

// ResolveFormat returns the configured format, or infers it from the destination extension when none is configured.
func ResolveFormat(configuredFormat string, destinationPath string) (Format, error) {
	normalizedFormat := strings.ToLower(strings.TrimSpace(configuredFormat))
	switch Format(normalizedFormat) {
	case FormatPython, FormatGo:
		return Format(normalizedFormat), nil
	case "":
	default:
		return "", UnsupportedFormatError{Format: configuredFormat}
	}

	if strings.EqualFold(filepath.Ext(destinationPath), goSourceExtensionConstant) {
		return FormatGo, nil
	}
	return FormatPython, nil
}

// PackageName returns the configured package, or derives one from the destination directory name.
func PackageName(configuredPackage string, destinationPath string) string {
	if trimmedPackage := strings.TrimSpace(configuredPackage); len(trimmedPackage) > 0 {
		return trimmedPackage
	}
	return sanitizePackageName(filepath.Base(filepath.Dir(destinationPath)))
}

func sanitizePackageName(directoryName string) string {
	var builder strings.Builder
	for _, character := range strings.ToLower(directoryName) {
		switch {
		case character < unicode.MaxASCII && (unicode.IsLetter(character) || unicode.IsDigit(character)):
			builder.WriteRune(character)
		case character == '-' || character == '.' || character == ' ' || character == packageNameReplacementConstant:
			builder.WriteRune(packageNameReplacementConstant)
		}
	}

	candidate := strings.Trim(builder.String(), string(packageNameReplacementConstant))
	if len(candidate) == 0 {
		return defaultPackageNameConstant
	}
	if unicode.IsDigit(rune(candidate[0])) {
		candidate = leadingDigitPackagePrefixConstant + candidate
	}
	if token.IsKeyword(candidate) {
		candidate += string(packageNameReplacementConstant)
	}
	return candidate
}
