// Package emit renders a plan as Go source. Schema and Loader are
// independent renderers: each walks the same node stream with its own
// scope stack, so either can run without the other.
package emit

import (
	"path"
	"strconv"
	"strings"

	"easyconfig/internal/classify"
	"easyconfig/internal/plan"
)

// Default import paths of the runtime packages used by generated loaders.
const (
	DefaultRuntimeImport = "easyconfig/configsource"
	DefaultGateImport    = "easyconfig/gate"
)

// Reserved lists the package-level identifiers declared by the generated
// loader. A root type must not use one of them.
var Reserved = []string{"FilesEnv", "Files", "Populate", "Current", "OnFirstLoad", "LoadFrom", "Load"}

// Options controls rendering.
type Options struct {
	Package       string   // Package clause of both files
	Header        string   // Comment block written above the package clause
	RuntimeImport string   // Import path of the configsource package
	GateImport    string   // Import path of the gate package
	LoadFiles     []string // Files loaded by the generated Load, in order
	EnvVar        string   // Environment variable read by the generated Load
}

func (o Options) runtimeImport() string {
	if o.RuntimeImport == "" {
		return DefaultRuntimeImport
	}
	return o.RuntimeImport
}

func (o Options) gateImport() string {
	if o.GateImport == "" {
		return DefaultGateImport
	}
	return o.GateImport
}

// writer accumulates source text with tab indentation.
type writer struct {
	sb strings.Builder
}

func (w *writer) line(depth int, parts ...string) {
	w.sb.WriteString(strings.Repeat("\t", depth))
	for _, p := range parts {
		w.sb.WriteString(p)
	}
	w.sb.WriteByte('\n')
}

func (w *writer) blank() {
	w.sb.WriteByte('\n')
}

func (w *writer) bytes() []byte {
	return []byte(w.sb.String())
}

// preamble writes the header comment and package clause.
func (w *writer) preamble(opts Options) {
	if opts.Header != "" {
		w.sb.WriteString(opts.Header)
		if !strings.HasSuffix(opts.Header, "\n") {
			w.blank()
		}
		w.blank()
	}
	w.line(0, "package ", opts.Package)
}

// goType returns the Go type of a scalar or string-array node.
func goType(t classify.NodeType) string {
	switch t {
	case classify.Int:
		return "int"
	case classify.Float:
		return "float64"
	case classify.Bool:
		return "bool"
	case classify.StringArray:
		return "[]string"
	default:
		return "string"
	}
}

// getter returns the Reader method that reads a node of type t.
func getter(t classify.NodeType) string {
	switch t {
	case classify.Int:
		return "Int"
	case classify.Float:
		return "Float"
	case classify.Bool:
		return "Bool"
	case classify.StringArray:
		return "Strings"
	default:
		return "String"
	}
}

// importSpec renders an import line, naming the package explicitly when
// the last path element differs from name.
func importSpec(importPath, name string) string {
	if path.Base(importPath) == name {
		return strconv.Quote(importPath)
	}
	return name + " " + strconv.Quote(importPath)
}

// hasChildren reports whether the node after nodes[i] is nested in it.
func hasChildren(nodes []plan.Node, i int) bool {
	return i+1 < len(nodes) && nodes[i+1].Parent == nodes[i].Key
}
