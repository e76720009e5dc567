package emit

import (
	"strconv"

	"easyconfig/configsource"
	"easyconfig/internal/classify"
	"easyconfig/internal/plan"
)

// scope is an open struct while walking the loader: its key and the Go
// selector that reaches it from the populated value.
type scope struct {
	key      string
	selector string
}

// Loader renders the loader file: the file manifest, Populate, the
// published current value, the first-load gate and Load.
func Loader(opts Options, p plan.Plan) []byte {
	var w writer
	w.preamble(opts)
	w.blank()

	w.line(0, "import (")
	w.line(1, `"sync/atomic"`)
	w.blank()
	w.line(1, importSpec(opts.runtimeImport(), "configsource"))
	w.line(1, importSpec(opts.gateImport(), "gate"))
	w.line(0, ")")
	w.blank()

	envVar := opts.EnvVar
	if envVar == "" {
		envVar = configsource.DefaultFilesEnv
	}
	w.line(0, "// FilesEnv names the environment variable listing extra configuration files.")
	w.line(0, "const FilesEnv = ", strconv.Quote(envVar))
	w.blank()

	w.line(0, "// Files lists the configuration files read by Load, in layering order.")
	if len(opts.LoadFiles) == 0 {
		w.line(0, "var Files = []string{}")
	} else {
		w.line(0, "var Files = []string{")
		for _, f := range opts.LoadFiles {
			w.line(1, strconv.Quote(f), ",")
		}
		w.line(0, "}")
	}
	w.blank()

	w.line(0, "var (")
	w.line(1, "current   atomic.Pointer[", p.RootType, "]")
	w.line(1, "firstLoad gate.Gate")
	w.line(0, ")")
	w.blank()

	writePopulate(&w, p)
	w.blank()
	writeLifecycle(&w, p.RootType)

	return w.bytes()
}

func writePopulate(w *writer, p plan.Plan) {
	w.line(0, "// Populate fills c from src. Values that do not parse as the declared")
	w.line(0, "// type are left at their zero value and reported in the returned error.")
	w.line(0, "func Populate(c *", p.RootType, ", src *configsource.Source) error {")
	w.line(1, "r := src.Reader()")

	scopes := []scope{{key: "", selector: "c"}}
	for _, n := range p.Nodes {
		for len(scopes) > 1 && scopes[len(scopes)-1].key != n.Parent {
			scopes = scopes[:len(scopes)-1]
		}
		if scopes[len(scopes)-1].key != n.Parent {
			continue
		}
		target := scopes[len(scopes)-1].selector + "." + n.Field
		key := strconv.Quote(n.Key)

		switch n.Type {
		case classify.Object:
			scopes = append(scopes, scope{key: n.Key, selector: target})
		case classify.ObjectArray:
			writeElements(w, target, key, n.Record)
		default:
			w.line(1, target, " = r.", getter(n.Type), "(", key, ")")
		}
	}

	w.line(1, "return r.Err()")
	w.line(0, "}")
}

func writeElements(w *writer, target, key string, r *plan.Record) {
	w.line(1, target, " = []", r.TypeName, "{}")
	if len(r.Fields) == 0 {
		w.line(1, "for range r.Elements(", key, ") {")
	} else {
		w.line(1, "for _, key := range r.Elements(", key, ") {")
	}
	w.line(2, "var item ", r.TypeName)
	for _, f := range r.Fields {
		w.line(2, "item.", f.Field, " = r.", getter(f.Type), "(key + ", strconv.Quote(":"+f.Name), ")")
	}
	w.line(2, target, " = append(", target, ", item)")
	w.line(1, "}")
}

func writeLifecycle(w *writer, root string) {
	w.line(0, "// Current returns the most recently loaded configuration, or a zero")
	w.line(0, "// value before the first successful load. Callers must not modify it.")
	w.line(0, "func Current() *", root, " {")
	w.line(1, "if c := current.Load(); c != nil {")
	w.line(2, "return c")
	w.line(1, "}")
	w.line(1, "return &", root, "{}")
	w.line(0, "}")
	w.blank()

	w.line(0, "// OnFirstLoad registers fn to run once after the first successful load.")
	w.line(0, "// Registered after that load, fn runs immediately.")
	w.line(0, "func OnFirstLoad(fn func()) {")
	w.line(1, "firstLoad.Register(fn)")
	w.line(0, "}")
	w.blank()

	w.line(0, "// LoadFrom populates a new value from src and publishes it.")
	w.line(0, "func LoadFrom(src *configsource.Source) error {")
	w.line(1, "c := new(", root, ")")
	w.line(1, "if err := Populate(c, src); err != nil {")
	w.line(2, "return err")
	w.line(1, "}")
	w.line(1, "current.Store(c)")
	w.line(1, "firstLoad.Complete()")
	w.line(1, "return nil")
	w.line(0, "}")
	w.blank()

	w.line(0, "// Load reads Files, then extra, then the files named by FilesEnv. Later")
	w.line(0, "// files override earlier ones and missing files are skipped.")
	w.line(0, "func Load(extra ...string) error {")
	w.line(1, "src, err := configsource.NewBuilder().")
	w.line(2, "AddFiles(Files...).")
	w.line(2, "AddFiles(extra...).")
	w.line(2, "AddFiles(configsource.FilesFromEnv(FilesEnv)...).")
	w.line(2, "Build()")
	w.line(1, "if err != nil {")
	w.line(2, "return err")
	w.line(1, "}")
	w.line(1, "return LoadFrom(src)")
	w.line(0, "}")
}
