package emit

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"

	"easyconfig/configsource"
	"easyconfig/internal/diag"
	"easyconfig/internal/plan"
)

const sample = `{
	"Name": "api",
	"Logging": {"Level": "info", "File": {"Path": "/tmp/x"}},
	"Limits": {},
	"Port": 8080,
	"Tags": ["a", "b"],
	"Servers": [
		{"Host": "a", "Port": 1},
		{"Host": "b", "Weight": 0.5, "Labels": ["x"]}
	],
	"Bad": {"0": "a", "x": "b"}
}`

func samplePlan(t *testing.T) plan.Plan {
	t.Helper()
	src, err := configsource.NewBuilder().AddJSON("appsettings.json", []byte(sample)).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return plan.Build(src, "Config", diag.Discard)
}

func parse(t *testing.T, name string, src []byte) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), name, src, parser.ParseComments)
	if err != nil {
		t.Fatalf("%s does not parse: %v\n%s", name, err, src)
	}
	return f
}

func TestSchema_TypeChecks(t *testing.T) {
	out := Schema(Options{Package: "config"}, samplePlan(t))

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "config.go", out, 0)
	if err != nil {
		t.Fatalf("schema does not parse: %v\n%s", err, out)
	}

	pkg, err := new(types.Config).Check("config", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatalf("schema does not type-check: %v\n%s", err, out)
	}

	root := pkg.Scope().Lookup("Config")
	if root == nil {
		t.Fatal("Config type not declared")
	}
	st := root.Type().Underlying().(*types.Struct)

	want := map[string]string{
		"Name":    "string",
		"Port":    "int",
		"Tags":    "[]string",
		"Limits":  "struct{}",
		"Servers": "[]config.ConfigServersItem",
	}
	got := make(map[string]string)
	for i := 0; i < st.NumFields(); i++ {
		got[st.Field(i).Name()] = st.Field(i).Type().String()
	}
	for name, typ := range want {
		if got[name] != typ {
			t.Errorf("field %s has type %q, want %q", name, got[name], typ)
		}
	}
	if _, ok := got["Bad"]; ok {
		t.Error("invalid node emitted as a field")
	}
	if !strings.Contains(got["Logging"], "File struct{Path string}") {
		t.Errorf("Logging = %q", got["Logging"])
	}

	item := pkg.Scope().Lookup("ConfigServersItem")
	if item == nil {
		t.Fatal("element type not declared")
	}
	if s := item.Type().Underlying().String(); s != "struct{Host string; Port int; Weight float64; Labels []string}" {
		t.Errorf("ConfigServersItem = %s", s)
	}
}

func TestSchema_FieldOrder(t *testing.T) {
	out := string(Schema(Options{Package: "config"}, samplePlan(t)))

	order := []string{"Name string", "Logging struct", "Level string", "File struct", "Path string", "Limits struct{}", "Port int", "Tags []string", "Servers []ConfigServersItem"}
	last := -1
	for _, s := range order {
		i := strings.Index(out, s)
		if i < 0 {
			t.Fatalf("missing %q in\n%s", s, out)
		}
		if i < last {
			t.Errorf("%q out of source order", s)
		}
		last = i
	}
}

func TestSchema_Header(t *testing.T) {
	out := string(Schema(Options{Package: "config", Header: "// Code generated by easyconfig. DO NOT EDIT."}, samplePlan(t)))
	if !strings.HasPrefix(out, "// Code generated by easyconfig. DO NOT EDIT.\n\npackage config\n") {
		t.Errorf("unexpected preamble:\n%s", out)
	}
}

func TestSchema_Empty(t *testing.T) {
	out := Schema(Options{Package: "config"}, plan.Plan{RootType: "Settings"})
	f := parse(t, "config.go", out)
	if f.Name.Name != "config" {
		t.Errorf("package = %s", f.Name.Name)
	}
	if !strings.Contains(string(out), "type Settings struct {") {
		t.Errorf("root type missing:\n%s", out)
	}
}

func TestLoader_Parses(t *testing.T) {
	out := Loader(Options{
		Package:   "config",
		LoadFiles: []string{"appsettings.json", "appsettings.local.json"},
	}, samplePlan(t))

	f := parse(t, "config_loader.go", out)

	funcs := make(map[string]bool)
	for _, d := range f.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			funcs[fn.Name.Name] = true
		}
	}
	for _, name := range []string{"Populate", "Current", "OnFirstLoad", "LoadFrom", "Load"} {
		if !funcs[name] {
			t.Errorf("loader does not declare %s", name)
		}
	}

	imports := make(map[string]bool)
	for _, imp := range f.Imports {
		imports[imp.Path.Value] = true
	}
	for _, want := range []string{`"sync/atomic"`, `"easyconfig/configsource"`, `"easyconfig/gate"`} {
		if !imports[want] {
			t.Errorf("missing import %s", want)
		}
	}
}

func TestLoader_MirrorsSchema(t *testing.T) {
	out := string(Loader(Options{Package: "config"}, samplePlan(t)))

	for _, want := range []string{
		`c.Name = r.String("Name")`,
		`c.Logging.Level = r.String("Logging:Level")`,
		`c.Logging.File.Path = r.String("Logging:File:Path")`,
		`c.Port = r.Int("Port")`,
		`c.Tags = r.Strings("Tags")`,
		`c.Servers = []ConfigServersItem{}`,
		`for _, key := range r.Elements("Servers") {`,
		`item.Weight = r.Float(key + ":Weight")`,
		`item.Labels = r.Strings(key + ":Labels")`,
		`c.Servers = append(c.Servers, item)`,
		`const FilesEnv = "EASYCONFIG_FILES"`,
		`var Files = []string{}`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("loader missing %q", want)
		}
	}
	if strings.Contains(out, "Bad") || strings.Contains(out, "Limits") {
		t.Errorf("loader references a node without loadable fields:\n%s", out)
	}
}

func TestLoader_CustomImports(t *testing.T) {
	out := Loader(Options{
		Package:       "settings",
		RuntimeImport: "example.com/app/cfgsrc",
		GateImport:    "example.com/app/gate",
		EnvVar:        "APP_CONFIG_FILES",
	}, plan.Plan{RootType: "Config"})

	f := parse(t, "loader.go", out)
	var named string
	for _, imp := range f.Imports {
		if imp.Path.Value == `"example.com/app/cfgsrc"` && imp.Name != nil {
			named = imp.Name.Name
		}
	}
	if named != "configsource" {
		t.Errorf("runtime import name = %q, want configsource", named)
	}
	if !strings.Contains(string(out), `const FilesEnv = "APP_CONFIG_FILES"`) {
		t.Error("custom environment variable not rendered")
	}
}
