// Package planfile loads mapping declarations from YAML and turns them into
// remap builder directives.
//
// A plan file names its source and destination types; the Go types are
// supplied at Build time and checked against those names.
package planfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// CurrentVersion is the plan file format version written by default.
const CurrentVersion = "1"

var validate = validator.New()

// File is a parsed plan file.
type File struct {
	Version  string    `yaml:"version" json:"version" validate:"oneof=1"`
	Mappings []Mapping `yaml:"mappings" json:"mappings" validate:"required,min=1,dive"`
}

// Mapping declares one projection.
type Mapping struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Source      string `yaml:"source" json:"source" validate:"required"`
	Destination string `yaml:"destination" json:"destination" validate:"required"`

	// nil leaves the builder default in place
	WriteNullIfSourceIsNull *bool `yaml:"writeNullIfSourceIsNull,omitempty" json:"writeNullIfSourceIsNull,omitempty"`
	OmitOthers              bool  `yaml:"omitOthers,omitempty" json:"omitOthers,omitempty"`

	Reassign         []FieldPair   `yaml:"reassign,omitempty" json:"reassign,omitempty" validate:"dive"`
	Replace          []Replacement `yaml:"replace,omitempty" json:"replace,omitempty" validate:"dive"`
	Omit             []string      `yaml:"omit,omitempty" json:"omit,omitempty" validate:"dive,required"`
	OmitInSource     []string      `yaml:"omitInSource,omitempty" json:"omitInSource,omitempty" validate:"dive,required"`
	CollectRemainder string        `yaml:"collectRemainder,omitempty" json:"collectRemainder,omitempty"`
	ExpandRemainder  string        `yaml:"expandRemainder,omitempty" json:"expandRemainder,omitempty"`
}

// FieldPair routes source field From into destination field To.
type FieldPair struct {
	From string `yaml:"from" json:"from" validate:"required"`
	To   string `yaml:"to" json:"to" validate:"required"`
}

// Replacement is a FieldPair with a named converter applied in between.
type Replacement struct {
	From      string `yaml:"from" json:"from" validate:"required"`
	To        string `yaml:"to" json:"to" validate:"required"`
	Converter string `yaml:"converter" json:"converter" validate:"required"`
}

// Load reads and parses the plan file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes YAML data, applies defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty plan file")
		}
		return nil, fmt.Errorf("failed to parse plan YAML: %w", err)
	}

	applyDefaults(&f)

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}
}

// Validate checks field constraints and that mapping names are unique.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid plan file: %w", err)
		}
		errs := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("%s: failed %q", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("invalid plan file: %w", errors.Join(errs...))
	}

	seen := make(map[string]struct{}, len(f.Mappings))
	for _, m := range f.Mappings {
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("invalid plan file: duplicate mapping name %q", m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	return nil
}

// Lookup returns the mapping called name.
func (f *File) Lookup(name string) (*Mapping, bool) {
	for i := range f.Mappings {
		if f.Mappings[i].Name == name {
			return &f.Mappings[i], true
		}
	}
	return nil, false
}
