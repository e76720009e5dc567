package project

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestParse_Defaults(t *testing.T) {
	p, err := Parse([]byte("inputs: [settings.yaml]\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := Defaults()
	want.Inputs = []string{"settings.yaml"}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("Parse = %+v, want %+v", p, want)
	}
}

func TestParse_Empty(t *testing.T) {
	p, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(p, Defaults()) {
		t.Errorf("empty project = %+v", p)
	}
}

func TestParse_AllFields(t *testing.T) {
	content := `
package: settings
type: Settings
out: internal/settings
schema_file: settings.go
loader_file: settings_loader.go
inputs:
  - appsettings.json
  - appsettings.*.json
env_var: APP_FILES
runtime_import: example.com/app/configsource
gate_import: example.com/app/gate
template_marker: sample
`
	p, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := Project{
		Package:        "settings",
		Type:           "Settings",
		Out:            "internal/settings",
		SchemaFile:     "settings.go",
		LoaderFile:     "settings_loader.go",
		Inputs:         []string{"appsettings.json", "appsettings.*.json"},
		EnvVar:         "APP_FILES",
		RuntimeImport:  "example.com/app/configsource",
		GateImport:     "example.com/app/gate",
		TemplateMarker: "sample",
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("Parse = %+v, want %+v", p, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"invalid yaml", "package: [", "invalid YAML"},
		{"unknown field", "packages: x\n", "invalid YAML"},
		{"bad package", "package: my-config\n", "not a Go identifier"},
		{"unexported type", "type: config\n", "exported"},
		{"reserved type", "type: Load\n", "clashes"},
		{"same file", "schema_file: a.go\nloader_file: a.go\n", "both"},
		{"no inputs", "inputs: []\n", "no input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	p, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(p, Defaults()) {
		t.Errorf("Load = %+v", p)
	}
}

func TestLoad_ReadsProjectFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("package: app\ninputs: [a.json]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Package != "app" || !reflect.DeepEqual(p.Inputs, []string{"a.json"}) {
		t.Errorf("Load = %+v", p)
	}
}

func TestLoadFromPath_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("inputs: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFromPath(bad)
	if !errors.Is(err, ErrNoInputs) {
		t.Errorf("invalid project error = %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), bad) {
		t.Errorf("error %q does not name the file", err)
	}
}

// For any valid project, serializing to YAML and parsing back yields the
// same project.
func TestProject_RoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genIdent := gen.RegexMatch(`[a-z][a-z0-9]{0,8}`)
	genType := gen.RegexMatch(`[A-Z][a-zA-Z0-9]{0,8}`).SuchThat(func(s string) bool {
		return s != "Files" && s != "Current" && s != "Load" && s != "LoadFrom" && s != "Populate" && s != "FilesEnv" && s != "OnFirstLoad"
	})
	genInputs := gen.SliceOfN(3, gen.RegexMatch(`[a-z]{1,8}\.(json|yaml)`))

	genProject := gopter.CombineGens(
		genIdent,
		genType,
		genInputs,
		gen.RegexMatch(`[A-Z_]{1,10}`),
		gen.AlphaString(),
	).Map(func(vals []interface{}) Project {
		p := Defaults()
		p.Package = vals[0].(string)
		p.Type = vals[1].(string)
		p.Inputs = vals[2].([]string)
		p.EnvVar = vals[3].(string)
		p.TemplateMarker = vals[4].(string)
		return p
	}).SuchThat(func(p Project) bool {
		return p.Validate() == nil
	})

	properties.Property("project round-trips through YAML", prop.ForAll(
		func(p Project) bool {
			data, err := p.ToYAML()
			if err != nil {
				return false
			}
			back, err := Parse(data)
			if err != nil {
				return false
			}
			return reflect.DeepEqual(p, back)
		},
		genProject,
	))

	properties.TestingRun(t)
}
