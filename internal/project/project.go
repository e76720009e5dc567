// Package project reads the easyconfig.yaml project file.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"easyconfig/configsource"
	"easyconfig/internal/emit"
	"easyconfig/internal/generator"
)

// FileName is the project file looked up in a project directory.
const FileName = "easyconfig.yaml"

// DefaultTemplateMarker marks input files that shape the schema but are not
// loaded at run time.
const DefaultTemplateMarker = "template"

// ErrNoInputs is returned by Validate when a project lists no inputs.
var ErrNoInputs = errors.New("project lists no input files")

// Project describes one generation target.
type Project struct {
	Package        string   `yaml:"package"`
	Type           string   `yaml:"type"`
	Out            string   `yaml:"out"`             // Output directory, relative to the project file
	SchemaFile     string   `yaml:"schema_file"`     // e.g. "config.go"
	LoaderFile     string   `yaml:"loader_file"`     // e.g. "config_loader.go"
	Inputs         []string `yaml:"inputs"`          // Globs, relative to the project file
	EnvVar         string   `yaml:"env_var"`         // Variable naming extra files at run time
	RuntimeImport  string   `yaml:"runtime_import"`  // Import path of configsource
	GateImport     string   `yaml:"gate_import"`     // Import path of gate
	TemplateMarker string   `yaml:"template_marker"` // Substring excluding a file from run-time loading
}

// Defaults returns the project used when no project file exists.
func Defaults() Project {
	return Project{
		Package:        generator.DefaultPackage,
		Type:           generator.DefaultRootType,
		Out:            ".",
		SchemaFile:     "config.go",
		LoaderFile:     "config_loader.go",
		Inputs:         []string{"appsettings*.json"},
		EnvVar:         configsource.DefaultFilesEnv,
		RuntimeImport:  emit.DefaultRuntimeImport,
		GateImport:     emit.DefaultGateImport,
		TemplateMarker: DefaultTemplateMarker,
	}
}

// Parse decodes a project file. Fields left out keep their defaults;
// unknown fields are an error.
func Parse(content []byte) (Project, error) {
	p := Defaults()

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Project{}, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Validate checks that the project can be generated.
func (p Project) Validate() error {
	if !token.IsIdentifier(p.Package) {
		return fmt.Errorf("package '%s' is not a Go identifier", p.Package)
	}
	if !token.IsIdentifier(p.Type) || !token.IsExported(p.Type) {
		return fmt.Errorf("type '%s' is not an exported Go identifier", p.Type)
	}
	if slices.Contains(emit.Reserved, p.Type) {
		return fmt.Errorf("type '%s' clashes with a generated loader function", p.Type)
	}
	if p.SchemaFile == "" || p.LoaderFile == "" {
		return errors.New("schema_file and loader_file must be set")
	}
	if p.SchemaFile == p.LoaderFile {
		return fmt.Errorf("schema_file and loader_file are both '%s'", p.SchemaFile)
	}
	if len(p.Inputs) == 0 {
		return ErrNoInputs
	}
	return nil
}

// ToYAML serializes the project.
func (p Project) ToYAML() ([]byte, error) {
	return yaml.Marshal(&p)
}

// Load reads easyconfig.yaml from dir. A missing file yields Defaults.
func Load(dir string) (Project, error) {
	p, err := LoadFromPath(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	return p, err
}

// LoadFromPath reads and parses a project file.
func LoadFromPath(path string) (Project, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Project{}, err
		}
		return Project{}, fmt.Errorf("failed to read project: %w", err)
	}

	p, err := Parse(content)
	if err != nil {
		return Project{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
