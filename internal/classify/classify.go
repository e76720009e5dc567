// Package classify assigns a semantic NodeType to every node of a
// flattened configuration.
package classify

import (
	"fmt"

	"easyconfig/configsource"
	"easyconfig/flatkey"
)

// NodeType is the semantic kind of a configuration node.
type NodeType int

const (
	Invalid     NodeType = iota // Shape the generator cannot express
	ArrayMember                 // Inside an array; absorbed by the array's own node
	Object                      // Named nested record
	StringArray                 // Array whose elements are all leaves
	ObjectArray                 // Array whose elements are records
	Int
	Float
	Bool
	String
)

func (t NodeType) String() string {
	switch t {
	case Invalid:
		return "invalid"
	case ArrayMember:
		return "array member"
	case Object:
		return "object"
	case StringArray:
		return "string array"
	case ObjectArray:
		return "object array"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("NodeType(%d)", int(t))
	}
}

// IsScalar reports whether t is one of the leaf types.
func (t NodeType) IsScalar() bool {
	return t == Int || t == Float || t == Bool || t == String
}

// Tree gives read access to the subtree below a key.
// *configsource.Source implements it.
type Tree interface {
	// Children returns the immediate children of key in source order.
	Children(key string) []flatkey.Entry
	// Descendants returns the number of keys below key.
	Descendants(key string) int
}

// Classification is the outcome of classifying one node. Reason is set
// only for Invalid nodes.
type Classification struct {
	Type   NodeType
	Reason string
}

// Classify labels entry. A key with any index segment is an ArrayMember;
// otherwise the node is classified by ClassifyRelative.
func Classify(t Tree, e flatkey.Entry) Classification {
	if flatkey.HasIndex(e.Key) {
		return Classification{Type: ArrayMember}
	}
	return ClassifyRelative(t, e)
}

// ClassifyRelative labels entry from its value and children alone, without
// the ArrayMember test. It is used for properties inside array elements,
// whose keys always contain an index.
func ClassifyRelative(t Tree, e flatkey.Entry) Classification {
	children := t.Children(e.Key)

	if len(children) == 0 {
		if e.HasValue {
			return Classification{Type: Scalar(e.Value)}
		}
		// An empty object or array has neither value nor children.
		return Classification{Type: Object}
	}

	indexed := 0
	for _, c := range children {
		if flatkey.IsIndex(c.Name()) {
			indexed++
		}
	}

	switch {
	case indexed == 0:
		return Classification{Type: Object}
	case indexed < len(children):
		return Classification{
			Type:   Invalid,
			Reason: fmt.Sprintf("mixes %d array index(es) with %d named key(s)", indexed, len(children)-indexed),
		}
	case t.Descendants(e.Key) == len(children):
		return Classification{Type: StringArray}
	default:
		return Classification{Type: ObjectArray}
	}
}

// Scalar classifies a leaf value, trying int, then float, then bool, and
// falling back to string.
func Scalar(value string) NodeType {
	if _, err := configsource.ParseInt(value); err == nil {
		return Int
	}
	if _, err := configsource.ParseFloat(value); err == nil {
		return Float
	}
	if _, err := configsource.ParseBool(value); err == nil {
		return Bool
	}
	return String
}
