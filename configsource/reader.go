package configsource

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"easyconfig/flatkey"
)

// Reader converts values of a Source to Go types. A key that is absent
// yields the zero value. A value that does not convert is recorded and
// the zero value is returned; Err reports every such failure.
type Reader struct {
	src  *Source
	errs []error
}

// Reader returns a new Reader over s.
func (s *Source) Reader() *Reader {
	return &Reader{src: s}
}

// Err returns the conversion failures recorded so far, joined, or nil.
func (r *Reader) Err() error {
	return errors.Join(r.errs...)
}

func (r *Reader) fail(key, value, typ string, err error) {
	r.errs = append(r.errs, &ValueError{Key: key, Value: value, Type: typ, Err: err})
}

// Int reads key as a decimal integer.
func (r *Reader) Int(key string) int {
	raw, ok := r.src.Lookup(key)
	if !ok || raw == "" {
		return 0
	}
	v, err := ParseInt(raw)
	if err != nil {
		r.fail(key, raw, "int", err)
		return 0
	}
	return v
}

// Float reads key as a finite floating-point number.
func (r *Reader) Float(key string) float64 {
	raw, ok := r.src.Lookup(key)
	if !ok || raw == "" {
		return 0
	}
	v, err := ParseFloat(raw)
	if err != nil {
		r.fail(key, raw, "float64", err)
		return 0
	}
	return v
}

// Bool reads key as "true" or "false", ignoring case.
func (r *Reader) Bool(key string) bool {
	raw, ok := r.src.Lookup(key)
	if !ok || raw == "" {
		return false
	}
	v, err := ParseBool(raw)
	if err != nil {
		r.fail(key, raw, "bool", err)
		return false
	}
	return v
}

// String reads key verbatim.
func (r *Reader) String(key string) string {
	raw, _ := r.src.Lookup(key)
	return raw
}

// Strings reads the elements of the array at key as strings, in index
// order. It returns an empty, non-nil slice when the array is absent.
func (r *Reader) Strings(key string) []string {
	elements := r.Elements(key)
	values := make([]string, 0, len(elements))
	for _, e := range elements {
		values = append(values, r.String(e))
	}
	return values
}

// Elements returns the keys of the array elements at key in ascending
// index order. Children of key that are not indices are ignored.
func (r *Reader) Elements(key string) []string {
	type element struct {
		key   string
		index uint64
	}

	var elements []element
	for _, c := range r.src.Children(key) {
		name := c.Name()
		if !flatkey.IsIndex(name) {
			continue
		}
		idx, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			continue
		}
		elements = append(elements, element{key: c.Key, index: idx})
	}

	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].index < elements[j].index
	})

	keys := make([]string, len(elements))
	for i, e := range elements {
		keys[i] = e.key
	}
	return keys
}

// errNotFinite rejects NaN and infinities, which strconv accepts.
var errNotFinite = errors.New("value is not a finite number")

// errNotBool is returned by ParseBool for anything but true or false.
var errNotBool = errors.New(`value must be "true" or "false"`)

// ParseInt parses s as a decimal int, ignoring surrounding whitespace.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// ParseFloat parses s as a finite float64.
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

// ParseBool accepts "true" and "false" in any letter case. It is stricter
// than strconv.ParseBool, which also accepts "1", "t" and similar.
func ParseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(strings.TrimSpace(s), "true"):
		return true, nil
	case strings.EqualFold(strings.TrimSpace(s), "false"):
		return false, nil
	default:
		return false, errNotBool
	}
}
