package diag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Format renders a diagnostic as "key: reason". Diagnostics without a key
// refer to the generated output as a whole.
func Format(d Diagnostic) string {
	if d.Key == "" {
		return d.Reason
	}
	return fmt.Sprintf("%s: %s", d.Key, d.Reason)
}

// FormatCI renders a diagnostic as a GitHub Actions warning annotation.
// No file is attached: diagnostics refer to merged configuration keys,
// not to a position in one input file.
func FormatCI(d Diagnostic) string {
	return fmt.Sprintf("::warning title=easyconfig::%s", escapeCI(Format(d)))
}

// FormatAll renders every diagnostic on its own line followed by a count.
func FormatAll(ds []Diagnostic) string {
	if len(ds) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, d := range ds {
		sb.WriteString("  ! ")
		sb.WriteString(Format(d))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\n%d configuration node(s) skipped\n", len(ds)))
	return sb.String()
}

// FormatJSON renders diagnostics as an indented JSON array.
func FormatJSON(ds []Diagnostic) (string, error) {
	if ds == nil {
		ds = []Diagnostic{}
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// escapeCI encodes the characters GitHub Actions treats specially in
// workflow command messages.
func escapeCI(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
