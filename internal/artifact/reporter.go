package artifact

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatCLI formats a stale report for terminal output.
func FormatCLI(report Report) string {
	if !report.Stale {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Generated configuration code is out of date:\n")

	for _, f := range report.Files {
		switch f.Status {
		case StatusMissing:
			sb.WriteString(fmt.Sprintf("  + %s: (missing)\n", f.Path))
		case StatusStale:
			if f.RecordedFingerprint != "" && f.RecordedFingerprint != f.ExpectedFingerprint {
				sb.WriteString(fmt.Sprintf("  ~ %s: %s → %s\n", f.Path, f.RecordedFingerprint, f.ExpectedFingerprint))
			} else {
				sb.WriteString(fmt.Sprintf("  ~ %s: content differs\n", f.Path))
			}
		}
	}

	sb.WriteString("\nRun 'easyconfig generate' to update.\n")
	return sb.String()
}

// FormatCI formats a stale report as GitHub Actions error annotations.
func FormatCI(report Report) string {
	if !report.Stale {
		return ""
	}

	var sb strings.Builder
	count := 0

	for _, f := range report.Files {
		var msg string
		switch f.Status {
		case StatusMissing:
			msg = "Generated file is missing"
		case StatusStale:
			msg = "Generated file is out of date"
		default:
			continue
		}
		count++
		sb.WriteString(fmt.Sprintf("::error file=%s::%s; run 'easyconfig generate'\n", f.Path, msg))
	}

	sb.WriteString(fmt.Sprintf("\n%d generated file(s) out of date\n", count))
	return sb.String()
}

// FormatJSON formats a stale report as JSON.
func FormatJSON(report Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
