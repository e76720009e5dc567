package configsource

import (
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"

	"easyconfig/flatkey"
)

// mergeJSON flattens a JSON (or JSONC) document into s. Comments and
// trailing commas are stripped before parsing. Object members and array
// elements are visited in document order.
func mergeJSON(s *Source, name string, data []byte) error {
	stripped := jsonc.ToJSON(data)
	if !gjson.ValidBytes(stripped) {
		return &ParseError{Path: name, Message: "invalid JSON"}
	}

	doc := gjson.ParseBytes(stripped)
	if !doc.IsObject() {
		return &ParseError{Path: name, Message: "top-level value must be an object"}
	}

	mergeJSONValue(s, nil, doc)
	return nil
}

func mergeJSONValue(s *Source, path []string, v gjson.Result) {
	switch {
	case v.IsObject():
		s.touch(path)
		v.ForEach(func(key, member gjson.Result) bool {
			mergeJSONValue(s, appendKey(path, key.String()), member)
			return true
		})
	case v.IsArray():
		s.touch(path)
		i := 0
		v.ForEach(func(_, element gjson.Result) bool {
			mergeJSONValue(s, appendSegment(path, strconv.Itoa(i)), element)
			i++
			return true
		})
	default:
		s.set(path, jsonScalar(v))
	}
}

// jsonScalar returns the text stored for a scalar JSON value. Numbers keep
// their source spelling and null becomes the empty string.
func jsonScalar(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	case gjson.True:
		return "true"
	case gjson.False:
		return "false"
	default:
		return ""
	}
}

// appendKey returns a new path extended by a member key. A key holding the
// separator nests, so "a:b" adds the segments "a" and "b".
func appendKey(path []string, key string) []string {
	return append(slices.Clip(path), strings.Split(key, flatkey.Separator)...)
}

// appendSegment returns a new path with seg appended; path is not modified.
func appendSegment(path []string, seg string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = seg
	return next
}
