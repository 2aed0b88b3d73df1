package validator

import (
	"os"
	"path/filepath"
)

// findCompanion looks for the native scoring file of pgsID in dir.
func findCompanion(dir, pgsID string) (string, bool) {
	for _, ext := range []string{".txt.gz", ".txt"} {
		path := filepath.Join(dir, pgsID+ext)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
