// Package plan turns a flattened configuration into the classified node
// stream that both code renderers consume.
//
// Building a plan classifies every entry in source order, unifies object
// arrays, assigns Go identifiers and drops everything that cannot be
// declared: invalid nodes with their whole subtree, array members and
// keys whose names collide. Every dropped node that needs attention is
// reported to the diagnostics sink. Renderers only ever see nodes that
// must be emitted, so the schema and the loader stay in lock-step.
package plan

import (
	"fmt"
	"iter"
	"strconv"

	"easyconfig/flatkey"
	"easyconfig/internal/classify"
	"easyconfig/internal/diag"
	"easyconfig/internal/unify"
)

// Source is a flattened configuration with subtree access.
// *configsource.Source implements it.
type Source interface {
	classify.Tree
	Entries() iter.Seq[flatkey.Entry]
}

// Node is one declaration of the generated schema.
type Node struct {
	Key    string            // Configuration key
	Parent string            // Key of the enclosing object, "" at the root
	Type   classify.NodeType // Object, StringArray, ObjectArray or a scalar
	Field  string            // Go field name inside the enclosing struct
	Record *Record           // Element record, only for ObjectArray
}

// Record is the synthetic element type of an object array.
type Record struct {
	Key      string // Key of the array
	TypeName string // Go type name, e.g. "ConfigServersItem"
	Fields   []RecordField
}

// RecordField is one property of an element record.
type RecordField struct {
	Name  string            // Key relative to an element, e.g. "Host"
	Field string            // Go field name
	Type  classify.NodeType // Scalar type or StringArray
}

// Plan is the classified node stream of one generation pass.
type Plan struct {
	RootType string
	Nodes    []Node    // In source order
	Records  []*Record // In the order their arrays appear
}

// builder carries the state of one Build call.
type builder struct {
	src      Source
	sink     diag.Sink
	plan     Plan
	idents   map[string]map[string]string // scope key -> field name -> claiming key
	paths    map[string]string            // object key -> concatenated field names
	typeUsed map[string]bool
}

// Build classifies src and returns the nodes to declare, in source order.
// rootType names the generated root struct and prefixes record types.
func Build(src Source, rootType string, sink diag.Sink) Plan {
	b := &builder{
		src:      src,
		sink:     sink,
		plan:     Plan{RootType: rootType},
		idents:   make(map[string]map[string]string),
		paths:    map[string]string{"": ""},
		typeUsed: map[string]bool{rootType: true},
	}

	skip := ""
	for e := range src.Entries() {
		if skip != "" && flatkey.IsAncestor(skip, e.Key) {
			continue
		}
		skip = ""

		if !b.visit(e) {
			skip = e.Key
		}
	}

	return b.plan
}

// visit plans one entry. It returns false when the entry's descendants
// must not be visited, either because the entry was dropped or because an
// array node already absorbed them.
func (b *builder) visit(e flatkey.Entry) bool {
	c := classify.Classify(b.src, e)

	switch c.Type {
	case classify.ArrayMember:
		if e.Depth() == 1 {
			b.sink.Report(e.Key, "array index at the top level of the configuration is not supported")
		}
		return false
	case classify.Invalid:
		b.sink.Report(e.Key, c.Reason)
		return false
	}

	parent := flatkey.Parent(e.Key)
	field, ok := b.claim(parent, e)
	if !ok {
		return false
	}

	node := Node{Key: e.Key, Parent: parent, Type: c.Type, Field: field}

	switch c.Type {
	case classify.Object:
		b.paths[e.Key] = b.paths[parent] + field
		b.plan.Nodes = append(b.plan.Nodes, node)
		return true
	case classify.ObjectArray:
		schema := unify.Unify(b.src, e, b.sink)
		node.Record = b.record(e.Key, b.paths[parent]+field, schema)
		b.plan.Records = append(b.plan.Records, node.Record)
		b.plan.Nodes = append(b.plan.Nodes, node)
		return false
	case classify.StringArray:
		b.plan.Nodes = append(b.plan.Nodes, node)
		return false
	default:
		b.plan.Nodes = append(b.plan.Nodes, node)
		return true
	}
}

// claim assigns the Go field name for e inside the struct of parent.
func (b *builder) claim(parent string, e flatkey.Entry) (string, bool) {
	field, ok := GoName(e.Name())
	if !ok {
		b.sink.Report(e.Key, fmt.Sprintf("name %q cannot be turned into a Go identifier", e.Name()))
		return "", false
	}

	scope := b.idents[parent]
	if scope == nil {
		scope = make(map[string]string)
		b.idents[parent] = scope
	}
	if other, taken := scope[field]; taken {
		b.sink.Report(e.Key, fmt.Sprintf("field name %s is already used by %s", field, other))
		return "", false
	}
	scope[field] = e.Key
	return field, true
}

// record builds the element type of the array at key from its unified
// schema. Properties whose names cannot be declared are reported and left
// out.
func (b *builder) record(key, path string, schema unify.ArraySchema) *Record {
	r := &Record{Key: key, TypeName: b.typeName(b.plan.RootType + path + "Item")}

	used := make(map[string]string)
	for _, p := range schema.Properties {
		field, ok := GoName(p.Name)
		if !ok {
			b.sink.Report(key, fmt.Sprintf("element property %q cannot be turned into a Go identifier", p.Name))
			continue
		}
		if other, taken := used[field]; taken {
			b.sink.Report(key, fmt.Sprintf("element property %q: field name %s is already used by %q", p.Name, field, other))
			continue
		}
		used[field] = p.Name
		r.Fields = append(r.Fields, RecordField{Name: p.Name, Field: field, Type: p.Type})
	}

	return r
}

// typeName returns want, or want with a numeric suffix if it is taken.
func (b *builder) typeName(want string) string {
	name := want
	for i := 2; b.typeUsed[name]; i++ {
		name = want + strconv.Itoa(i)
	}
	b.typeUsed[name] = true
	return name
}
