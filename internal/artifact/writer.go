package artifact

import (
	"bytes"
	"os"
	"path/filepath"
)

// Write writes content to path, creating parent directories if needed.
// A file that already holds content is left untouched; the result reports
// whether the file was written.
func Write(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, content) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, err
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return false, err
	}
	return true, nil
}
