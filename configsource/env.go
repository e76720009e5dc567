package configsource

import (
	"os"
	"strings"
)

// DefaultFilesEnv is the environment variable consulted for extra
// configuration files when no other name is configured.
const DefaultFilesEnv = "EASYCONFIG_FILES"

// SplitFileList splits a comma-separated list of file paths, trimming
// whitespace and dropping empty items.
func SplitFileList(value string) []string {
	var files []string
	for _, f := range strings.Split(value, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// FilesFromEnv returns the files listed in the environment variable name.
func FilesFromEnv(name string) []string {
	return SplitFileList(os.Getenv(name))
}
