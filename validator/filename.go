package validator

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/pithecene-io/hmvalidate/schema"
)

var (
	buildTokenPattern   = regexp.MustCompile(`^h(\d+)$`)
	versionTokenPattern = regexp.MustCompile(`^v\d+$`)
)

// FileName is the decomposition of a harmonized file name
// <pgs_id>_h<build>_v<version><ext>.
type FileName struct {
	// Base is the file name up to its first dot.
	Base    string
	PgsID   string
	Build   string
	Version string
}

// BaseName returns the file name of path up to its first dot.
func BaseName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// HasValidExtension reports whether path ends in one of exts.
func HasValidExtension(path string, exts []string) bool {
	name := filepath.Base(path)
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}

// ParseFileName decomposes the file name of path. It stops at the first
// failing part and returns its message; ok is false in that case. Fields
// parsed before the failure are set.
func ParseFileName(path string) (fn FileName, problem string, ok bool) {
	fn.Base = BaseName(path)

	parts := strings.Split(fn.Base, "_")
	if len(parts) != 3 {
		return fn, fmt.Sprintf("Filename: %s should follow the pattern <pgs_id>_h<build>_v<version>.txt.gz [build=XX, e.g. 37]", fn.Base), false
	}
	id, buildToken, version := parts[0], parts[1], parts[2]
	fn.PgsID = id

	m := buildTokenPattern.FindStringSubmatch(buildToken)
	if m == nil {
		return fn, fmt.Sprintf("Build: %s is not an accepted build value, it should follow the pattern h<numeric_value> (e.g. h38)", buildToken), false
	}
	fn.Build = "GRCh" + m[1]
	if !slices.Contains(schema.ValidBuilds, fn.Build) {
		return fn, fmt.Sprintf("Build: %s is not an accepted build value (accepted: %s)", fn.Build, strings.Join(schema.ValidBuilds, ", ")), false
	}

	if !versionTokenPattern.MatchString(version) {
		return fn, fmt.Sprintf("Version: %s should follow the pattern v<numeric_value> (e.g. v1)", version), false
	}
	fn.Version = version
	return fn, "", true
}
