package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"easyconfig/internal/project"
)

// ErrNoSubcommand is returned when the first argument is not a known subcommand
var ErrNoSubcommand = errors.New("missing subcommand: usage: easyconfig <generate|check|flatten> [flags] [files...]")

// ErrUsage wraps flag parsing failures
var ErrUsage = errors.New("usage error")

// Subcommand represents the CLI subcommand
type Subcommand string

const (
	SubcommandGenerate Subcommand = "generate"
	SubcommandCheck    Subcommand = "check"
	SubcommandFlatten  Subcommand = "flatten"
)

// Command represents the parsed CLI input
type Command struct {
	Subcommand Subcommand
	Files      []string // Positional inputs, replacing the project's inputs

	ProjectPath string // --project <path>

	// Project overrides
	Package        string // --package
	Type           string // --type
	Out            string // --out
	SchemaFile     string // --schema-file
	LoaderFile     string // --loader-file
	EnvVar         string // --env-var
	RuntimeImport  string // --runtime-import
	GateImport     string // --gate-import
	TemplateMarker string // --template-marker

	// Output flags
	CIMode     bool // --ci
	JSONOutput bool // --json
	Quiet      bool // --quiet
	Help       bool // --help, -h

	flags *pflag.FlagSet
}

// ParseArgs parses CLI arguments into a Command.
// It expects args to be os.Args[1:] (excluding the program name).
func ParseArgs(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, ErrNoSubcommand
	}

	var cmd Command
	switch sub := Subcommand(args[0]); sub {
	case SubcommandGenerate, SubcommandCheck, SubcommandFlatten:
		cmd.Subcommand = sub
	case "-h", "--help", "help":
		cmd.Help = true
		return cmd, nil
	default:
		return Command{}, ErrNoSubcommand
	}

	flagSet := pflag.NewFlagSet("easyconfig "+args[0], pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&cmd.ProjectPath, "project", "", "project file (default: "+project.FileName+", or $EASYCONFIG_PROJECT)")
	flagSet.StringVar(&cmd.Package, "package", "", "package name of the generated files")
	flagSet.StringVar(&cmd.Type, "type", "", "name of the generated root type")
	flagSet.StringVar(&cmd.Out, "out", "", "output directory, relative to the project file")
	flagSet.StringVar(&cmd.SchemaFile, "schema-file", "", "file name of the generated schema")
	flagSet.StringVar(&cmd.LoaderFile, "loader-file", "", "file name of the generated loader")
	flagSet.StringVar(&cmd.EnvVar, "env-var", "", "environment variable listing extra files at run time")
	flagSet.StringVar(&cmd.RuntimeImport, "runtime-import", "", "import path of the configsource package")
	flagSet.StringVar(&cmd.GateImport, "gate-import", "", "import path of the gate package")
	flagSet.StringVar(&cmd.TemplateMarker, "template-marker", "", "file name substring excluding a file from run-time loading")
	flagSet.BoolVar(&cmd.CIMode, "ci", false, "print GitHub Actions annotations")
	flagSet.BoolVar(&cmd.JSONOutput, "json", false, "print reports as JSON")
	flagSet.BoolVar(&cmd.Quiet, "quiet", false, "suppress diagnostics")
	flagSet.BoolVarP(&cmd.Help, "help", "h", false, "show help")

	if err := flagSet.Parse(args[1:]); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	cmd.Files = flagSet.Args()
	cmd.flags = flagSet
	return cmd, nil
}

// Changed reports whether the named flag was given on the command line.
func (c Command) Changed(name string) bool {
	return c.flags != nil && c.flags.Changed(name)
}

// Apply overlays the flags given on the command line onto p. Positional
// files replace the project's inputs.
func (c Command) Apply(p project.Project) project.Project {
	overrides := []struct {
		flag  string
		value string
		field *string
	}{
		{"package", c.Package, &p.Package},
		{"type", c.Type, &p.Type},
		{"out", c.Out, &p.Out},
		{"schema-file", c.SchemaFile, &p.SchemaFile},
		{"loader-file", c.LoaderFile, &p.LoaderFile},
		{"env-var", c.EnvVar, &p.EnvVar},
		{"runtime-import", c.RuntimeImport, &p.RuntimeImport},
		{"gate-import", c.GateImport, &p.GateImport},
		{"template-marker", c.TemplateMarker, &p.TemplateMarker},
	}
	for _, o := range overrides {
		if c.Changed(o.flag) {
			*o.field = o.value
		}
	}

	if len(c.Files) > 0 {
		p.Inputs = append([]string(nil), c.Files...)
	}
	return p
}

// Usage returns the help text.
func Usage() string {
	return `Usage: easyconfig <command> [flags] [files...]

Commands:
  generate   infer the schema from the input files and write the schema and loader
  check      fail if the generated files are missing or out of date
  flatten    print the merged, flattened configuration

Flags:
  --project <path>          project file (default: easyconfig.yaml, or $EASYCONFIG_PROJECT)
  --package <name>          package name of the generated files
  --type <name>             name of the generated root type
  --out <dir>               output directory, relative to the project file
  --schema-file <name>      file name of the generated schema
  --loader-file <name>      file name of the generated loader
  --env-var <name>          environment variable listing extra files at run time
  --runtime-import <path>   import path of the configsource package
  --gate-import <path>      import path of the gate package
  --template-marker <text>  file name substring excluding a file from run-time loading
  --ci                      print GitHub Actions annotations
  --json                    print reports as JSON
  --quiet                   suppress diagnostics
`
}
