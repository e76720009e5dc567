// Package configsource builds layered, flattened configuration sources
// from JSON, JSONC and YAML files and reads typed values out of them.
//
// A Source is a tree of keys addressed with colon-delimited paths such as
// "Servers:0:Host". Files are layered in the order they are added: a key
// defined by a later file replaces the value of the same key from an
// earlier one, while keys that appear only in earlier files are kept.
//
// Generated loaders import this package; the easyconfig generator uses it
// too, so the shape inferred at generation time and the values read at
// run time come from the same flattening rules.
package configsource

import (
	"iter"

	"easyconfig/flatkey"
)

// node is one key of the configuration tree.
type node struct {
	name     string
	value    string
	hasValue bool
	children []*node
	index    map[string]*node
}

func (n *node) child(name string) *node {
	if n.index == nil {
		return nil
	}
	return n.index[name]
}

// ensure returns the child called name, creating it at the end of the
// child list if it does not exist yet.
func (n *node) ensure(name string) *node {
	if c := n.child(name); c != nil {
		return c
	}
	c := &node{name: name}
	if n.index == nil {
		n.index = make(map[string]*node)
	}
	n.index[name] = c
	n.children = append(n.children, c)
	return c
}

func (n *node) count() int {
	total := 0
	for _, c := range n.children {
		total += 1 + c.count()
	}
	return total
}

// Source is an immutable, flattened configuration built by a Builder.
type Source struct {
	root *node
}

func newSource() *Source {
	return &Source{root: &node{}}
}

// set stores value at the path given by segments.
func (s *Source) set(segments []string, value string) {
	n := s.touch(segments)
	n.value = value
	n.hasValue = true
}

// touch makes sure a key exists without giving it a value.
func (s *Source) touch(segments []string) *node {
	n := s.root
	for _, seg := range segments {
		n = n.ensure(seg)
	}
	return n
}

func (s *Source) find(key string) *node {
	n := s.root
	for _, seg := range flatkey.Split(key) {
		n = n.child(seg)
		if n == nil {
			return nil
		}
	}
	return n
}

// Entries returns every key of the source in depth-first order. Siblings
// appear in the order they were first defined across the layered files.
// The sequence is single-pass; call Entries again to restart it.
func (s *Source) Entries() iter.Seq[flatkey.Entry] {
	return func(yield func(flatkey.Entry) bool) {
		walk(s.root, "", yield)
	}
}

func walk(n *node, key string, yield func(flatkey.Entry) bool) bool {
	for _, c := range n.children {
		ck := flatkey.Child(key, c.name)
		if !yield(entryOf(ck, c)) {
			return false
		}
		if !walk(c, ck, yield) {
			return false
		}
	}
	return true
}

func entryOf(key string, n *node) flatkey.Entry {
	return flatkey.Entry{Key: key, Value: n.value, HasValue: n.hasValue}
}

// Lookup returns the raw value stored at key.
// The second result is false when the key is absent or has no value.
func (s *Source) Lookup(key string) (string, bool) {
	n := s.find(key)
	if n == nil || !n.hasValue {
		return "", false
	}
	return n.value, true
}

// Has reports whether key exists, with or without a value.
func (s *Source) Has(key string) bool {
	return key != "" && s.find(key) != nil
}

// Children returns the immediate children of key in definition order.
// The empty key addresses the root.
func (s *Source) Children(key string) []flatkey.Entry {
	n := s.find(key)
	if n == nil {
		return nil
	}
	entries := make([]flatkey.Entry, 0, len(n.children))
	for _, c := range n.children {
		entries = append(entries, entryOf(flatkey.Child(key, c.name), c))
	}
	return entries
}

// Descendants returns the number of keys below key, not counting key.
func (s *Source) Descendants(key string) int {
	n := s.find(key)
	if n == nil {
		return 0
	}
	return n.count()
}

// Len returns the total number of keys in the source.
func (s *Source) Len() int {
	return s.root.count()
}
