package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"easyconfig/configsource"
	"easyconfig/internal/artifact"
	"easyconfig/internal/cli"
	"easyconfig/internal/diag"
	"easyconfig/internal/dump"
	"easyconfig/internal/generator"
	"easyconfig/internal/manifest"
	"easyconfig/internal/project"
)

// Exit codes
const (
	exitOK      = 0
	exitStale   = 1 // Stale artifacts or I/O failure
	exitUsage   = 2
	exitProject = 3 // Unreadable project file or input
)

func main() {
	exitCode := run(os.Args[1:], os.Environ(), ".")
	os.Exit(exitCode)
}

// run orchestrates one invocation and returns its exit code.
// This function is separated from main() to enable testing.
func run(args []string, environ []string, dir string) int {
	cmd, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		fmt.Fprint(os.Stderr, cli.Usage())
		return exitUsage
	}
	if cmd.Help {
		fmt.Print(cli.Usage())
		return exitOK
	}

	level := slog.LevelInfo
	if cmd.Quiet {
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	projectPath, explicit := resolveProjectPath(cmd.ProjectPath, environ, dir)
	p, err := loadProject(projectPath, explicit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load project: %v\n", err)
		return exitProject
	}
	p = cmd.Apply(p)
	if err := p.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid project: %v\n", err)
		return exitProject
	}

	projectDir := filepath.Dir(projectPath)
	inputs, err := manifest.Expand(projectDir, p.Inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid inputs: %v\n", err)
		return exitProject
	}
	inputs = manifest.Filter(inputs)

	src, err := buildSource(projectDir, inputs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read configuration: %v\n", err)
		return exitProject
	}

	if cmd.Subcommand == cli.SubcommandFlatten {
		return runFlatten(cmd, src)
	}

	res := generator.Generate(src, generator.Options{
		Package:       p.Package,
		RootType:      p.Type,
		RuntimeImport: p.RuntimeImport,
		GateImport:    p.GateImport,
		LoadFiles:     manifest.Runtime(inputs, p.TemplateMarker),
		EnvVar:        p.EnvVar,
		Inputs:        inputs,
		Fingerprint:   artifact.Fingerprint(src.Entries()),
	}, nil)

	ciMode := cmd.CIMode || getEnvBool(environ, "CI")
	if !cmd.Quiet {
		reportDiagnostics(res.Diagnostics, ciMode, logger)
	}

	outDir := filepath.Join(projectDir, p.Out)
	files := []artifact.Expected{
		{Path: filepath.Join(outDir, p.SchemaFile), Content: res.Schema},
		{Path: filepath.Join(outDir, p.LoaderFile), Content: res.Loader},
	}

	if cmd.Subcommand == cli.SubcommandCheck {
		return runCheck(cmd, files, ciMode)
	}

	for _, f := range files {
		written, err := artifact.Write(f.Path, f.Content)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot write %s: %v\n", f.Path, err)
			return exitStale
		}
		if written {
			logger.Info("wrote generated file", slog.String("path", f.Path))
		}
	}
	return exitOK
}

// runCheck reports generated files that do not match a fresh generation.
func runCheck(cmd cli.Command, files []artifact.Expected, ciMode bool) int {
	report, err := artifact.DetectStale(files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStale
	}

	switch {
	case cmd.JSONOutput:
		out, err := artifact.FormatJSON(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot format report: %v\n", err)
			return exitStale
		}
		fmt.Println(out)
	case ciMode:
		fmt.Fprint(os.Stderr, artifact.FormatCI(report))
	default:
		fmt.Fprint(os.Stderr, artifact.FormatCLI(report))
	}

	if report.Stale {
		return exitStale
	}
	return exitOK
}

// runFlatten prints the merged configuration.
func runFlatten(cmd cli.Command, src *configsource.Source) int {
	if !cmd.JSONOutput {
		fmt.Print(dump.Text(src))
		return exitOK
	}

	out, err := dump.JSON(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitStale
	}
	fmt.Print(string(out))
	return exitOK
}

func reportDiagnostics(ds []diag.Diagnostic, ciMode bool, logger *slog.Logger) {
	if ciMode {
		for _, d := range ds {
			fmt.Fprintln(os.Stderr, diag.FormatCI(d))
		}
		return
	}

	sink := diag.LogSink{Logger: logger}
	for _, d := range ds {
		sink.Report(d.Key, d.Reason)
	}
}

// resolveProjectPath determines the project file from flag, env var, or
// default. The second result is false for the default path.
func resolveProjectPath(flagValue string, environ []string, dir string) (string, bool) {
	// Flag takes precedence
	if flagValue != "" {
		return absoluteOr(dir, flagValue), true
	}

	if path, ok := getEnv(environ, "EASYCONFIG_PROJECT"); ok && path != "" {
		return absoluteOr(dir, path), true
	}

	return filepath.Join(dir, project.FileName), false
}

func absoluteOr(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// loadProject reads the project file. Only a project file named on the
// command line or in the environment has to exist.
func loadProject(path string, explicit bool) (project.Project, error) {
	p, err := project.LoadFromPath(path)
	if errors.Is(err, os.ErrNotExist) {
		if explicit {
			return project.Project{}, fmt.Errorf("project file not found: %s", path)
		}
		return project.Defaults(), nil
	}
	return p, err
}

// buildSource layers the inputs, resolved against the project directory.
func buildSource(projectDir string, inputs []string) (*configsource.Source, error) {
	paths := make([]string, len(inputs))
	for i, in := range inputs {
		paths[i] = filepath.Join(projectDir, filepath.FromSlash(in))
	}
	return configsource.NewBuilder().AddFiles(paths...).Build()
}

func getEnv(environ []string, name string) (string, bool) {
	prefix := name + "="
	for _, env := range environ {
		if strings.HasPrefix(env, prefix) {
			return strings.TrimPrefix(env, prefix), true
		}
	}
	return "", false
}

// getEnvBool checks if an environment variable is set to a truthy value
func getEnvBool(environ []string, name string) bool {
	val, ok := getEnv(environ, name)
	if !ok {
		return false
	}
	val = strings.ToLower(val)
	return val == "true" || val == "1" || val == "yes"
}
