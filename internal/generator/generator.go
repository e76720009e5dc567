// Package generator runs one generation pass: it plans a flattened
// configuration and renders the schema and loader files from the plan.
//
// A pass owns all of its state. Two calls with the same source and
// options produce byte-identical output.
package generator

import (
	"fmt"
	"go/format"
	"go/token"
	"slices"
	"strings"

	"easyconfig/internal/diag"
	"easyconfig/internal/emit"
	"easyconfig/internal/plan"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultPackage  = "config"
	DefaultRootType = "Config"
)

// Options configures a generation pass.
type Options struct {
	Package       string   // Package clause of the generated files
	RootType      string   // Name of the root struct
	RuntimeImport string   // Import path of configsource, emit.DefaultRuntimeImport if empty
	GateImport    string   // Import path of gate, emit.DefaultGateImport if empty
	LoadFiles     []string // Files loaded at run time, in layering order
	EnvVar        string   // Environment variable naming extra files
	Inputs        []string // Files the schema was inferred from, shown in the header
	Fingerprint   string   // Input fingerprint, shown in the header
}

// Result holds the generated files and the diagnostics of the pass.
type Result struct {
	Schema      []byte
	Loader      []byte
	Diagnostics []diag.Diagnostic
}

// Generate plans src and renders both files. Diagnostics are recorded in
// the result and forwarded to sink when it is not nil. Generate always
// returns both files.
func Generate(src plan.Source, opts Options, sink diag.Sink) Result {
	var collected diag.Collector
	report := diag.Sink(&collected)
	if sink != nil {
		report = diag.Multi(&collected, sink)
	}

	opts = normalize(opts, report)

	p := plan.Build(src, opts.RootType, report)

	eopts := emit.Options{
		Package:       opts.Package,
		Header:        Header(opts),
		RuntimeImport: opts.RuntimeImport,
		GateImport:    opts.GateImport,
		LoadFiles:     opts.LoadFiles,
		EnvVar:        opts.EnvVar,
	}

	schema := gofmt("schema", emit.Schema(eopts, p), report)
	loader := gofmt("loader", emit.Loader(eopts, p), report)

	return Result{
		Schema:      schema,
		Loader:      loader,
		Diagnostics: collected.Diagnostics(),
	}
}

// Header renders the comment block shared by both generated files.
func Header(opts Options) string {
	var sb strings.Builder
	sb.WriteString("// Code generated by easyconfig. DO NOT EDIT.\n")
	if len(opts.Inputs) > 0 {
		sb.WriteString("// Inputs: " + strings.Join(opts.Inputs, ", ") + "\n")
	}
	if opts.Fingerprint != "" {
		sb.WriteString("// Fingerprint: " + opts.Fingerprint + "\n")
	}
	return sb.String()
}

// normalize fills defaults and replaces names that cannot be declared.
func normalize(opts Options, sink diag.Sink) Options {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	} else if !token.IsIdentifier(opts.Package) {
		sink.Report("", fmt.Sprintf("package name %q is not a Go identifier; using %s", opts.Package, DefaultPackage))
		opts.Package = DefaultPackage
	}

	switch {
	case opts.RootType == "":
		opts.RootType = DefaultRootType
	case !token.IsIdentifier(opts.RootType) || !token.IsExported(opts.RootType):
		sink.Report("", fmt.Sprintf("type name %q is not an exported Go identifier; using %s", opts.RootType, DefaultRootType))
		opts.RootType = DefaultRootType
	case slices.Contains(emit.Reserved, opts.RootType):
		sink.Report("", fmt.Sprintf("type name %q is declared by the loader; using %s", opts.RootType, DefaultRootType))
		opts.RootType = DefaultRootType
	}

	return opts
}

// gofmt formats generated source. Unformattable source is returned as is
// and reported.
func gofmt(name string, src []byte, sink diag.Sink) []byte {
	out, err := format.Source(src)
	if err != nil {
		sink.Report("", fmt.Sprintf("formatting %s: %v", name, err))
		return src
	}
	return out
}
