// Package flatkey models flattened configuration keys.
//
// A configuration tree is represented as a list of entries whose keys are
// path segments joined by Separator, e.g. "Servers:0:Host". Segments made
// only of decimal digits are array indices.
package flatkey

import "strings"

// Separator delimits path segments in a flattened key.
const Separator = ":"

// Entry is one node of a flattened configuration.
type Entry struct {
	Key      string // Full path, e.g. "Logging:Level"
	Value    string // Raw scalar text (only meaningful when HasValue)
	HasValue bool   // True for leaves that carried a scalar
}

// Segments returns the path segments of the entry's key.
func (e Entry) Segments() []string {
	return Split(e.Key)
}

// Name returns the last segment of the entry's key.
func (e Entry) Name() string {
	return Name(e.Key)
}

// Depth returns the number of segments in the entry's key.
func (e Entry) Depth() int {
	return Depth(e.Key)
}

// Split breaks a key into its segments. The empty key has no segments.
func Split(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, Separator)
}

// Join builds a key from segments.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Child returns the key of name directly under parent.
// An empty parent denotes the root.
func Child(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + Separator + name
}

// Parent returns the key one level up, or "" for a top-level key.
func Parent(key string) string {
	idx := strings.LastIndex(key, Separator)
	if idx == -1 {
		return ""
	}
	return key[:idx]
}

// Name returns the last segment of key.
func Name(key string) string {
	idx := strings.LastIndex(key, Separator)
	if idx == -1 {
		return key
	}
	return key[idx+len(Separator):]
}

// Depth returns the number of segments in key.
func Depth(key string) int {
	if key == "" {
		return 0
	}
	return strings.Count(key, Separator) + 1
}

// IsAncestor reports whether ancestor is a strict prefix of key on a
// segment boundary. The root ("") is an ancestor of every non-empty key.
func IsAncestor(ancestor, key string) bool {
	if ancestor == "" {
		return key != ""
	}
	return len(key) > len(ancestor) &&
		strings.HasPrefix(key, ancestor) &&
		strings.HasPrefix(key[len(ancestor):], Separator)
}

// IsIndex reports whether segment is an array index: a non-empty run of
// ASCII decimal digits.
func IsIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

// HasIndex reports whether any segment of key is an array index.
func HasIndex(key string) bool {
	for _, seg := range Split(key) {
		if IsIndex(seg) {
			return true
		}
	}
	return false
}
