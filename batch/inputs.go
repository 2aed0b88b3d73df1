package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pithecene-io/hmvalidate/validator"
)

// Input selection errors.
var (
	ErrNoInput       = errors.New("you need to provide a scoring file [-f] or a directory of scoring files [--hm-dir]")
	ErrBothInputs    = errors.New("you can't use both options [-f] - single scoring file and [--hm-dir] - directory of scoring files, please use only 1 of these 2 options")
	ErrNotADirectory = errors.New("not a directory")
)

// ResolveInputs returns the files to validate: the single file, or every
// entry of dir matching "*.*" in lexical order. Exactly one of file and
// dir must be set.
func ResolveInputs(file, dir string) ([]string, error) {
	switch {
	case file != "" && dir != "":
		return nil, ErrBothInputs
	case file == "" && dir == "":
		return nil, ErrNoInput
	case file != "":
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("scoring file '%s' can't be found", file)
		}
		return []string{file}, nil
	}

	if err := RequireDir(dir, "harmonized directory"); err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.*"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// RequireDir returns an error naming what when path is not an existing
// directory.
func RequireDir(path, what string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s '%s' can't be found", what, path)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s '%s': %w", what, path, ErrNotADirectory)
	}
	return nil
}

// LogPath returns the log artifact path for a scoring file:
// <logDir>/<name before the first dot>_log.txt.
func LogPath(logDir, file string) string {
	return filepath.Join(logDir, validator.BaseName(file)+"_log.txt")
}
