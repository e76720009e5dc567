// Package artifact fingerprints generator inputs, writes generated files
// and detects generated files that no longer match their inputs.
package artifact

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"iter"
	"strings"

	"easyconfig/flatkey"
)

// fingerprintPrefix starts the header line that records the fingerprint.
const fingerprintPrefix = "// Fingerprint: "

// Fingerprint computes the SHA-256 hash of the entries in canonical form.
// Returns the hash prefixed with "sha256:".
func Fingerprint(entries iter.Seq[flatkey.Entry]) string {
	hash := sha256.Sum256(canonicalEntriesJSON(entries))
	return "sha256:" + hex.EncodeToString(hash[:])
}

// canonicalEntriesJSON renders entries in source order as a JSON array of
// [key, value] pairs, with null for entries that hold no value. No
// whitespace.
func canonicalEntriesJSON(entries iter.Seq[flatkey.Entry]) []byte {
	result := []byte("[")
	first := true
	for e := range entries {
		if !first {
			result = append(result, ',')
		}
		first = false

		keyJSON, _ := json.Marshal(e.Key)
		result = append(result, '[')
		result = append(result, keyJSON...)
		result = append(result, ',')
		if e.HasValue {
			valueJSON, _ := json.Marshal(e.Value)
			result = append(result, valueJSON...)
		} else {
			result = append(result, "null"...)
		}
		result = append(result, ']')
	}
	result = append(result, ']')
	return result
}

// RecordedFingerprint returns the fingerprint in the header of a generated
// file, or "" when the header carries none. Only leading comment lines are
// inspected.
func RecordedFingerprint(content []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "//") {
			break
		}
		if fp, ok := strings.CutPrefix(line, fingerprintPrefix); ok {
			return strings.TrimSpace(fp)
		}
	}
	return ""
}
