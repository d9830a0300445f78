// Package mapping describes how columns of a tabular dataset map onto article
// fields. Mappings are YAML documents of kind DataMapping.
package mapping

import (
	"fmt"
	"io"

	"github.com/DjordjeVuckovic/article-fts/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	Kind    = "DataMapping"
	Version = "v1"
)

// Article fields a column can target.
const (
	TargetTitle     = "Title"
	TargetContent   = "Content"
	TargetCreatedAt = "CreatedAt"
)

// Source types a column can declare.
const (
	SourceTypeString   = "string"
	SourceTypeDatetime = "datetime"
)

// DefaultDateFormats are tried in order after DataMapping.DateFormat.
var DefaultDateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04",
}

type DataMapping struct {
	Kind     string   `yaml:"kind"`
	Version  string   `yaml:"version"`
	Metadata Metadata `yaml:"metadata"`
	Dataset  string   `yaml:"dataset"`
	// DateFormat is a Go time layout tried before DefaultDateFormats.
	DateFormat    string         `yaml:"dateFormat,omitempty"`
	FieldMappings []FieldMapping `yaml:"fieldMappings"`
}

type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

type FieldMapping struct {
	Source     string `yaml:"source"`
	SourceType string `yaml:"sourceType,omitempty"`
	Target     string `yaml:"target"`
	// Default replaces an empty or missing source value.
	Default  string `yaml:"default,omitempty"`
	Required bool   `yaml:"required,omitempty"`
}

// Default maps the news dataset layout: Heading, Article and Date columns.
func Default() *DataMapping {
	return &DataMapping{
		Kind:    Kind,
		Version: Version,
		Metadata: Metadata{
			Name:        "News Articles",
			Description: "Heading/Article/Date news dataset",
		},
		Dataset: "news-articles",
		FieldMappings: []FieldMapping{
			{Source: "Heading", SourceType: SourceTypeString, Target: TargetTitle, Default: domain.UntitledArticle},
			{Source: "Article", SourceType: SourceTypeString, Target: TargetContent},
			{Source: "Date", SourceType: SourceTypeDatetime, Target: TargetCreatedAt},
		},
	}
}

// Load decodes a YAML mapping. Unknown keys are rejected.
func Load(r io.Reader, validate bool) (*DataMapping, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var m DataMapping
	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode data mapping: %w", err)
	}
	if validate {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func (dm *DataMapping) Validate() error {
	if dm.Kind != Kind {
		return &MappingError{Message: fmt.Sprintf("kind must be %s, got %q", Kind, dm.Kind)}
	}
	if dm.Version != Version {
		return &MappingError{Message: fmt.Sprintf("unsupported version %q", dm.Version)}
	}
	if dm.Metadata.Name == "" {
		return &MappingError{Message: "metadata.name is required"}
	}
	if len(dm.FieldMappings) == 0 {
		return &MappingError{Message: "at least one field mapping is required"}
	}

	seen := make(map[string]bool, len(dm.FieldMappings))
	for i, fm := range dm.FieldMappings {
		if fm.Source == "" {
			return &MappingError{Message: fmt.Sprintf("fieldMappings[%d] must have source defined", i)}
		}
		switch fm.Target {
		case TargetTitle, TargetContent, TargetCreatedAt:
		default:
			return &MappingError{Message: fmt.Sprintf("fieldMappings[%d] has unknown target %q", i, fm.Target)}
		}
		if seen[fm.Target] {
			return &MappingError{Message: fmt.Sprintf("target %s is mapped more than once", fm.Target)}
		}
		seen[fm.Target] = true

		switch fm.SourceType {
		case "", SourceTypeString, SourceTypeDatetime:
		default:
			return &MappingError{Message: fmt.Sprintf("fieldMappings[%d] has unsupported sourceType %q", i, fm.SourceType)}
		}
		if fm.Target == TargetCreatedAt && fm.SourceType == SourceTypeString {
			return &MappingError{Message: fmt.Sprintf("fieldMappings[%d] must use sourceType %s for %s", i, SourceTypeDatetime, TargetCreatedAt)}
		}
	}
	return nil
}

// DateFormats returns the layouts to try, most specific first.
func (dm *DataMapping) DateFormats() []string {
	if dm.DateFormat == "" {
		return DefaultDateFormats
	}
	return append([]string{dm.DateFormat}, DefaultDateFormats...)
}

type MappingError struct {
	Message string
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("datamapping error: %s", e.Message)
}
