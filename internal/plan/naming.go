package plan

import (
	"strings"
	"unicode"
)

// GoName converts a configuration key segment into an exported Go
// identifier: runs of letters and digits become capitalised words
// ("tab-size" -> "TabSize", "log_level" -> "LogLevel"). A result that
// would not start with an upper-case letter gets an "X" prefix. The
// second result is false when the segment holds no letters or digits.
func GoName(segment string) (string, bool) {
	words := strings.FieldsFunc(segment, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return "", false
	}

	var sb strings.Builder
	for _, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}

	name := sb.String()
	if first := []rune(name)[0]; !unicode.IsUpper(first) {
		name = "X" + name
	}
	return name, true
}
