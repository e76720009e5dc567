// Package unify merges the properties observed across the elements of an
// object array into one record shape.
package unify

import (
	"fmt"

	"easyconfig/flatkey"
	"easyconfig/internal/classify"
	"easyconfig/internal/diag"
)

// Property is one field of the unified element record.
type Property struct {
	Name string            // Key relative to one element, e.g. "Host"
	Type classify.NodeType // Scalar type or StringArray
}

// ArraySchema is the unified record shape of an object array.
type ArraySchema struct {
	Key        string     // Key of the array itself
	Properties []Property // In first-seen order
	index      map[string]int
}

// Type returns the unified type of the property called name.
func (s ArraySchema) Type(name string) (classify.NodeType, bool) {
	i, ok := s.index[name]
	if !ok {
		return classify.Invalid, false
	}
	return s.Properties[i].Type, true
}

// Len returns the number of unified properties.
func (s ArraySchema) Len() int {
	return len(s.Properties)
}

// unifier holds the per-array bookkeeping of one Unify call.
type unifier struct {
	tree     classify.Tree
	sink     diag.Sink
	schema   ArraySchema
	rejected map[string]bool // Properties dropped for nesting or shape
	flagged  map[string]bool // Properties already reported for a type conflict
}

// Unify builds the record shape shared by the elements of the array at
// array.Key. The first element defining a property fixes its type. A later
// element disagreeing on that type is reported once per property and the
// first type is kept. Properties that are records or arrays of records are
// reported and dropped, as are elements that are not records.
func Unify(t classify.Tree, array flatkey.Entry, sink diag.Sink) ArraySchema {
	u := &unifier{
		tree:     t,
		sink:     sink,
		schema:   ArraySchema{Key: array.Key, index: make(map[string]int)},
		rejected: make(map[string]bool),
		flagged:  make(map[string]bool),
	}

	for _, element := range t.Children(array.Key) {
		u.element(element)
	}

	return u.schema
}

func (u *unifier) element(element flatkey.Entry) {
	c := classify.ClassifyRelative(u.tree, element)

	switch c.Type {
	case classify.Object:
		// A record element; unify its properties below.
	case classify.Invalid:
		u.sink.Report(element.Key, "array element "+c.Reason)
		return
	default:
		u.sink.Report(element.Key, fmt.Sprintf("array element is a %s but sibling elements are objects", c.Type))
		return
	}

	for _, prop := range u.tree.Children(element.Key) {
		u.property(prop)
	}
}

func (u *unifier) property(prop flatkey.Entry) {
	name := prop.Name()
	if u.rejected[name] {
		return
	}

	c := classify.ClassifyRelative(u.tree, prop)

	if existing, seen := u.schema.Type(name); seen {
		if existing != c.Type && !u.flagged[name] {
			u.flagged[name] = true
			u.sink.Report(prop.Key, fmt.Sprintf("is a %s here but a %s in an earlier element; keeping %s", c.Type, existing, existing))
		}
		return
	}

	switch c.Type {
	case classify.Object, classify.ObjectArray:
		u.reject(prop, fmt.Sprintf("%s nested inside an array element is not supported", c.Type))
	case classify.Invalid:
		u.reject(prop, c.Reason)
	default:
		u.schema.index[name] = len(u.schema.Properties)
		u.schema.Properties = append(u.schema.Properties, Property{Name: name, Type: c.Type})
	}
}

// reject keeps name out of the schema for the rest of the array and
// reports the first offending occurrence.
func (u *unifier) reject(prop flatkey.Entry, reason string) {
	u.rejected[prop.Name()] = true
	u.sink.Report(prop.Key, reason)
}
