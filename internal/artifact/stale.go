package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileStatus describes a generated file on disk relative to what the
// generator would write now.
type FileStatus string

const (
	StatusCurrent FileStatus = "current" // On disk and identical
	StatusStale   FileStatus = "stale"   // On disk with different content
	StatusMissing FileStatus = "missing" // Not on disk
)

// Expected is a file the generator would write.
type Expected struct {
	Path    string
	Content []byte
}

// FileReport is the status of one generated file.
type FileReport struct {
	Path                string     `json:"path"`
	Status              FileStatus `json:"status"`
	RecordedFingerprint string     `json:"recordedFingerprint,omitempty"`
	ExpectedFingerprint string     `json:"expectedFingerprint,omitempty"`
}

// Report contains the status of every generated file.
type Report struct {
	Stale bool         `json:"stale"`
	Files []FileReport `json:"files"`
}

// Compare checks the file at path against want.
func Compare(path string, want []byte) (FileStatus, error) {
	have, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return StatusMissing, nil
		}
		return "", fmt.Errorf("reading generated file: %w", err)
	}

	if bytes.Equal(have, want) {
		return StatusCurrent, nil
	}
	return StatusStale, nil
}

// DetectStale compares every expected file against the disk.
func DetectStale(files []Expected) (Report, error) {
	report := Report{Files: []FileReport{}}

	for _, f := range files {
		status, err := Compare(f.Path, f.Content)
		if err != nil {
			return Report{}, fmt.Errorf("%s: %w", f.Path, err)
		}

		fr := FileReport{
			Path:                f.Path,
			Status:              status,
			ExpectedFingerprint: RecordedFingerprint(f.Content),
		}
		if status == StatusStale {
			if have, err := os.ReadFile(f.Path); err == nil {
				fr.RecordedFingerprint = RecordedFingerprint(have)
			}
		}
		if status != StatusCurrent {
			report.Stale = true
		}
		report.Files = append(report.Files, fr)
	}

	return report, nil
}
