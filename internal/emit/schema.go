package emit

import (
	"easyconfig/internal/classify"
	"easyconfig/internal/plan"
)

// Schema renders the root struct and the element types of its object
// arrays.
func Schema(opts Options, p plan.Plan) []byte {
	var w writer
	w.preamble(opts)
	w.blank()

	w.line(0, "// ", p.RootType, " is the typed view of the configuration.")
	w.line(0, "type ", p.RootType, " struct {")

	// scopes holds the keys of the open structs; "" is the root.
	scopes := []string{""}
	for i, n := range p.Nodes {
		for len(scopes) > 1 && scopes[len(scopes)-1] != n.Parent {
			scopes = scopes[:len(scopes)-1]
			w.line(len(scopes), "}")
		}
		if scopes[len(scopes)-1] != n.Parent {
			continue
		}
		depth := len(scopes)

		switch n.Type {
		case classify.Object:
			if !hasChildren(p.Nodes, i) {
				w.line(depth, n.Field, " struct{}")
				continue
			}
			w.line(depth, n.Field, " struct {")
			scopes = append(scopes, n.Key)
		case classify.ObjectArray:
			w.line(depth, n.Field, " []", n.Record.TypeName)
		default:
			w.line(depth, n.Field, " ", goType(n.Type))
		}
	}
	for len(scopes) > 1 {
		scopes = scopes[:len(scopes)-1]
		w.line(len(scopes), "}")
	}
	w.line(0, "}")

	for _, r := range p.Records {
		w.blank()
		w.line(0, "// ", r.TypeName, " is one element of ", r.Key, ".")
		w.line(0, "type ", r.TypeName, " struct {")
		for _, f := range r.Fields {
			w.line(1, f.Field, " ", goType(f.Type))
		}
		w.line(0, "}")
	}

	return w.bytes()
}
