package schema

import "sort"

// ColumnRule is the ordered predicate list for one column.
type ColumnRule struct {
	Name       string
	Type       ValueType
	Predicates []Predicate
	AllowEmpty bool
}

// Validate runs the rule against one cell and returns a failure reason per
// failing predicate, in predicate order. Predicates run only on non-empty
// values; an empty value on a column that does not allow empties yields a
// single NullReason.
func (r ColumnRule) Validate(value string) []string {
	if value == "" {
		if r.AllowEmpty {
			return nil
		}
		return []string{NullReason}
	}

	var reasons []string
	for _, p := range r.Predicates {
		if !p.Check(value) {
			reasons = append(reasons, p.Reason(value))
		}
	}
	return reasons
}

// Catalog maps column names to rules.
type Catalog map[string]ColumnRule

// Lookup returns the rule for column. Unknown columns have no rule.
func (c Catalog) Lookup(column string) (ColumnRule, bool) {
	r, ok := c[column]
	return r, ok
}

// Columns returns the catalog's column names, sorted.
func (c Catalog) Columns() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// with returns a copy of c with rules added or replaced.
func (c Catalog) with(rules ...ColumnRule) Catalog {
	out := make(Catalog, len(c)+len(rules))
	for k, v := range c {
		out[k] = v
	}
	for _, r := range rules {
		out[r.Name] = r
	}
	return out
}

func rule(name string, allowEmpty bool, preds ...Predicate) ColumnRule {
	return ColumnRule{
		Name:       name,
		Type:       TypeOf(name),
		Predicates: preds,
		AllowEmpty: allowEmpty,
	}
}
