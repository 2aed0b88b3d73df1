// Package types defines core domain types for harmonized file validation.
//
//nolint:revive // types is a common Go package naming convention
package types

import "fmt"

// Format selects which harmonized schema a file is validated against.
type Format string

// Format constants. The string values are the selector accepted by the CLI.
const (
	// FormatPositional is the positional harmonization format (HmPOS).
	FormatPositional Format = "hm_pos"
	// FormatFinal is the final harmonized format.
	FormatFinal Format = "hm_final"
)

// Formats returns all recognized formats in selector order.
func Formats() []Format {
	return []Format{FormatPositional, FormatFinal}
}

// ParseFormat parses a format selector.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPositional, FormatFinal:
		return Format(s), nil
	default:
		return "", fmt.Errorf("harmonization type %q is not in the list of recognized types: %v", s, Formats())
	}
}

// String returns the selector value.
func (f Format) String() string {
	return string(f)
}
