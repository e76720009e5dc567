package configsource

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"easyconfig/flatkey"
)

const (
	nullTag  = "!!null"
	mergeTag = "!!merge"
)

// maxAliasDepth bounds alias expansion so self-referencing anchors cannot
// recurse forever.
const maxAliasDepth = 64

// mergeYAML flattens a YAML document into s. Mapping keys and sequence
// items are visited in document order; aliases and "<<" merge keys are
// expanded in place.
func mergeYAML(s *Source, name string, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &ParseError{Path: name, Message: err.Error(), Err: err}
	}

	// An empty file decodes to a zero node.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil
	}

	root, _ := resolveAlias(doc.Content[0], 0)
	if root == nil {
		return &ParseError{Path: name, Message: "alias nesting too deep"}
	}
	if root.Kind == yaml.ScalarNode && root.ShortTag() == nullTag {
		return nil
	}
	if root.Kind != yaml.MappingNode {
		return &ParseError{Path: name, Message: "top-level value must be a mapping"}
	}

	return mergeYAMLNode(s, name, nil, root, 0)
}

func mergeYAMLNode(s *Source, name string, path []string, n *yaml.Node, depth int) error {
	n, depth = resolveAlias(n, depth)
	if n == nil {
		return &ParseError{Path: name, Message: "alias nesting too deep"}
	}

	switch n.Kind {
	case yaml.MappingNode:
		s.touch(path)
		return mergeYAMLMapping(s, name, path, n, depth)
	case yaml.SequenceNode:
		s.touch(path)
		for i, item := range n.Content {
			if err := mergeYAMLNode(s, name, appendSegment(path, strconv.Itoa(i)), item, depth); err != nil {
				return err
			}
		}
		return nil
	case yaml.ScalarNode:
		if n.ShortTag() == nullTag {
			s.set(path, "")
			return nil
		}
		s.set(path, n.Value)
		return nil
	default:
		return &ParseError{Path: name, Message: "unsupported YAML node at " + flatkey.Join(path...)}
	}
}

func mergeYAMLMapping(s *Source, name string, path []string, n *yaml.Node, depth int) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]

		if key.Kind == yaml.ScalarNode && key.Value == "<<" && key.ShortTag() == mergeTag {
			if err := mergeYAMLMergeKey(s, name, path, value, depth+1); err != nil {
				return err
			}
			continue
		}

		if err := mergeYAMLNode(s, name, appendKey(path, key.Value), value, depth); err != nil {
			return err
		}
	}
	return nil
}

// mergeYAMLMergeKey folds the mapping (or sequence of mappings) referenced
// by a "<<" key into the current mapping.
func mergeYAMLMergeKey(s *Source, name string, path []string, value *yaml.Node, depth int) error {
	value, depth = resolveAlias(value, depth)
	if value == nil {
		return &ParseError{Path: name, Message: "alias nesting too deep"}
	}

	switch value.Kind {
	case yaml.MappingNode:
		return mergeYAMLMapping(s, name, path, value, depth)
	case yaml.SequenceNode:
		for _, item := range value.Content {
			item, itemDepth := resolveAlias(item, depth)
			if item == nil || item.Kind != yaml.MappingNode {
				return &ParseError{Path: name, Message: "merge key must reference mappings"}
			}
			if err := mergeYAMLMapping(s, name, path, item, itemDepth); err != nil {
				return err
			}
		}
		return nil
	default:
		return &ParseError{Path: name, Message: "merge key must reference mappings"}
	}
}

// resolveAlias follows alias nodes to their anchor and returns the alias
// depth reached so far. It returns a nil node once more than
// maxAliasDepth aliases have been followed on one path.
func resolveAlias(n *yaml.Node, depth int) (*yaml.Node, int) {
	for n != nil && n.Kind == yaml.AliasNode {
		if depth >= maxAliasDepth {
			return nil, depth
		}
		n = n.Alias
		depth++
	}
	return n, depth
}
