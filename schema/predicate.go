package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NullReason is the failure reason for an empty value on a column that
// does not allow empties, and for blank values.
const NullReason = "this column cannot be null/empty"

// Predicate is one check applied to a non-empty cell value.
// Implementations are pure and safe for concurrent use.
type Predicate interface {
	// Description names the check for listings.
	Description() string
	// Check reports whether value passes.
	Check(value string) bool
	// Reason describes why value failed.
	Reason(value string) string
}

// CanConvert returns a predicate that passes when the value parses as t.
func CanConvert(t ValueType) Predicate {
	return convertible{typ: t}
}

type convertible struct {
	typ ValueType
}

func (p convertible) Description() string {
	return "convertible to " + string(p.typ)
}

func (p convertible) Check(value string) bool {
	switch p.typ {
	case TypeInt:
		_, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		return err == nil
	case TypeFloat:
		_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil
	default:
		return true
	}
}

func (p convertible) Reason(value string) string {
	return fmt.Sprintf("%q cannot be converted to type %s", value, p.typ)
}

// InInclusiveRange returns a predicate that passes when the value is an
// integer in [lo, hi]. Values that are not integers pass; they are left to
// CanConvert so that one bad value yields one failure.
func InInclusiveRange(lo, hi int64) Predicate {
	return inRange{lo: lo, hi: hi}
}

type inRange struct {
	lo, hi int64
}

func (p inRange) Description() string {
	return fmt.Sprintf("in range [%d, %d]", p.lo, p.hi)
}

func (p inRange) Check(value string) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return true
	}
	return n >= p.lo && n <= p.hi
}

func (p inRange) Reason(value string) string {
	return fmt.Sprintf("%q was not in the range [%d, %d]", value, p.lo, p.hi)
}

// InList returns a predicate that passes when the value is one of values.
// Matching is exact and case-sensitive.
func InList(values ...string) Predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return inList{values: values, set: set}
}

type inList struct {
	values []string
	set    map[string]struct{}
}

func (p inList) Description() string {
	return "one of (" + strings.Join(p.values, ", ") + ")"
}

func (p inList) Check(value string) bool {
	_, ok := p.set[value]
	return ok
}

func (p inList) Reason(value string) string {
	return fmt.Sprintf("%q is not in the list of legal options (%s)", value, strings.Join(p.values, ", "))
}

// MatchesPattern returns a predicate that passes when the whole value
// matches pattern. The pattern must compile.
func MatchesPattern(pattern string) Predicate {
	return matches{
		pattern: pattern,
		re:      regexp.MustCompile(`^(?:` + pattern + `)$`),
	}
}

type matches struct {
	pattern string
	re      *regexp.Regexp
}

func (p matches) Description() string {
	return "matches " + p.pattern
}

func (p matches) Check(value string) bool {
	return p.re.MatchString(value)
}

func (p matches) Reason(value string) string {
	return fmt.Sprintf("%q does not match the pattern %q", value, p.pattern)
}

// NotBlank returns a predicate that fails on whitespace-only values.
func NotBlank() Predicate {
	return notBlank{}
}

type notBlank struct{}

func (notBlank) Description() string { return "not blank" }

func (notBlank) Check(value string) bool { return strings.TrimSpace(value) != "" }

func (notBlank) Reason(string) string { return NullReason }

// NoLeadingWhitespace returns a predicate that fails when the value starts
// with whitespace.
func NoLeadingWhitespace() Predicate {
	return leadingSpace{}
}

type leadingSpace struct{}

func (leadingSpace) Description() string { return "no leading whitespace" }

func (leadingSpace) Check(value string) bool {
	return value == strings.TrimLeft(value, " \t\r\n\v\f")
}

func (leadingSpace) Reason(value string) string {
	return fmt.Sprintf("%q contains leading whitespace", value)
}

// NoTrailingWhitespace returns a predicate that fails when the value ends
// with whitespace.
func NoTrailingWhitespace() Predicate {
	return trailingSpace{}
}

type trailingSpace struct{}

func (trailingSpace) Description() string { return "no trailing whitespace" }

func (trailingSpace) Check(value string) bool {
	return value == strings.TrimRight(value, " \t\r\n\v\f")
}

func (trailingSpace) Reason(value string) string {
	return fmt.Sprintf("%q contains trailing whitespace", value)
}
