// Package dump renders a merged configuration source for inspection.
package dump

import (
	"fmt"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"easyconfig/configsource"
	"easyconfig/flatkey"
	"easyconfig/internal/classify"
)

// Text renders one "key = value" line per entry that holds a value, in
// source order. Empty objects and arrays render as "key = {}".
func Text(src *configsource.Source) string {
	var sb strings.Builder
	for e := range src.Entries() {
		switch {
		case e.HasValue:
			fmt.Fprintf(&sb, "%s = %s\n", e.Key, e.Value)
		case len(src.Children(e.Key)) == 0:
			fmt.Fprintf(&sb, "%s = {}\n", e.Key)
		}
	}
	return sb.String()
}

// JSON renders src as one nested, indented JSON document. Leaves are
// written with the type the generator would infer for them. Nodes whose
// children are all indexes become arrays.
func JSON(src *configsource.Source) ([]byte, error) {
	d := &dumper{src: src, arrays: make(map[string]bool)}

	doc := []byte("{}")
	for e := range src.Entries() {
		if len(src.Children(e.Key)) > 0 {
			continue
		}

		path := d.path(e.Key)
		var err error
		switch {
		case !e.HasValue:
			doc, err = sjson.SetRawBytes(doc, path, []byte("{}"))
		default:
			doc, err = sjson.SetBytes(doc, path, typed(e.Value))
		}
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", e.Key, err)
		}
	}

	return pretty.Pretty(doc), nil
}

type dumper struct {
	src    *configsource.Source
	arrays map[string]bool // Memoised isArray results
}

// path converts a flattened key into an sjson path.
func (d *dumper) path(key string) string {
	segments := flatkey.Split(key)
	parts := make([]string, len(segments))

	parent := ""
	for i, seg := range segments {
		if flatkey.IsIndex(seg) && !d.isArray(parent) {
			parts[i] = ":" + seg
		} else {
			parts[i] = escape(seg)
		}
		parent = flatkey.Child(parent, seg)
	}
	return strings.Join(parts, ".")
}

// isArray reports whether every child of key is an index. The root is
// always an object.
func (d *dumper) isArray(key string) bool {
	if key == "" {
		return false
	}
	if v, ok := d.arrays[key]; ok {
		return v
	}

	children := d.src.Children(key)
	v := len(children) > 0
	for _, c := range children {
		if !flatkey.IsIndex(c.Name()) {
			v = false
			break
		}
	}
	d.arrays[key] = v
	return v
}

func typed(value string) any {
	switch classify.Scalar(value) {
	case classify.Int:
		n, _ := configsource.ParseInt(value)
		return n
	case classify.Float:
		f, _ := configsource.ParseFloat(value)
		return f
	case classify.Bool:
		b, _ := configsource.ParseBool(value)
		return b
	default:
		return value
	}
}

// escape protects the characters sjson treats as path syntax.
func escape(seg string) string {
	var sb strings.Builder
	for _, r := range seg {
		if r < 0x80 && !isWordByte(byte(r)) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isWordByte(c byte) bool {
	return c == '_' || c == '-' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
