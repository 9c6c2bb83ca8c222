package projectfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	// DefaultFileNameConstant is the project file looked up in the working directory.
	DefaultFileNameConstant = "gitdetails.toml"
	// ToolTableConstant and SectionTableConstant locate the [tool.git-details] table.
	ToolTableConstant    = "tool"
	SectionTableConstant = "git-details"

	readTemplateConstant           = "read project file %s: %w"
	parseTemplateConstant          = "parse project file %s: %w"
	sectionTypeTemplateConstant    = "project file %s: [%s] must be a table"
	decodeTemplateConstant         = "decode [%s.%s] in %s: %w"
	sectionNotFoundMessageConstant = "project file has no git-details section"
)

// ErrSectionNotFound indicates Decode was called on a Document without a section.
var ErrSectionNotFound = errors.New(sectionNotFoundMessageConstant)

// Document is the outcome of reading a project file.
type Document struct {
	Path    string
	Section map[string]any
}

// HasSection reports whether the file exists and carries a [tool.git-details] table.
func (document Document) HasSection() bool {
	return document.Section != nil
}

// Decode unmarshals the section into target using its toml tags.
func (document Document) Decode(target any) error {
	if !document.HasSection() {
		return ErrSectionNotFound
	}

	encoded, encodeError := toml.Marshal(document.Section)
	if encodeError != nil {
		return fmt.Errorf(decodeTemplateConstant, ToolTableConstant, SectionTableConstant, document.Path, encodeError)
	}
	if decodeError := toml.NewDecoder(bytes.NewReader(encoded)).Decode(target); decodeError != nil {
		return fmt.Errorf(decodeTemplateConstant, ToolTableConstant, SectionTableConstant, document.Path, decodeError)
	}
	return nil
}

// Read loads path. A missing file or a file without the table yields a Document without a section.
func Read(path string) (Document, error) {
	document := Document{Path: path}

	contents, readError := os.ReadFile(path)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return document, nil
		}
		return Document{}, fmt.Errorf(readTemplateConstant, path, readError)
	}

	var parsed map[string]any
	if unmarshalError := toml.Unmarshal(contents, &parsed); unmarshalError != nil {
		return Document{}, fmt.Errorf(parseTemplateConstant, path, unmarshalError)
	}

	toolValue, toolPresent := parsed[ToolTableConstant]
	if !toolPresent {
		return document, nil
	}
	toolTable, toolIsTable := toolValue.(map[string]any)
	if !toolIsTable {
		return Document{}, fmt.Errorf(sectionTypeTemplateConstant, path, ToolTableConstant)
	}

	sectionValue, sectionPresent := toolTable[SectionTableConstant]
	if !sectionPresent {
		return document, nil
	}
	section, sectionIsTable := sectionValue.(map[string]any)
	if !sectionIsTable {
		return Document{}, fmt.Errorf(sectionTypeTemplateConstant, path, ToolTableConstant+"."+SectionTableConstant)
	}

	document.Section = section
	return document, nil
}
