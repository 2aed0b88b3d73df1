package validator

import (
	"fmt"
	"strings"

	"github.com/pithecene-io/hmvalidate/schema"
)

// columnValidators is the runtime validator map: the rule for each header
// position, nil for columns without a rule.
type columnValidators []*schema.ColumnRule

// resolveHeader splits the header line and resolves each column against
// the catalog. It returns the column names, the validators, and the header
// problems (duplicates, required columns, identity groups).
func resolveHeader(spec schema.FormatSpec, line string) ([]string, columnValidators, []string) {
	header := strings.Split(line, "\t")
	validators := make(columnValidators, len(header))
	present := make(map[string]bool, len(header))

	var dups []string
	for i, name := range header {
		if present[name] {
			dups = append(dups, name)
		}
		present[name] = true
		if r, ok := spec.Columns.Lookup(name); ok {
			validators[i] = &r
		}
	}

	var problems []string
	if len(dups) > 0 {
		problems = append(problems, fmt.Sprintf("Duplicated column(s) in the file header: %s", strings.Join(dups, ", ")))
	}

	var missing []string
	for _, col := range spec.RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("Required headers: %s are not in the file header: %s",
			strings.Join(missing, ", "), strings.Join(header, ", ")))
	}

	if !hasIdentityGroup(spec.IdentityGroups, present) {
		groups := make([]string, len(spec.IdentityGroups))
		for i, g := range spec.IdentityGroups {
			groups[i] = "'" + strings.Join(g, ", ") + "'"
		}
		problems = append(problems, fmt.Sprintf("One of the following required header is missing: %s are not in the file header: %s",
			strings.Join(groups, " and/or "), strings.Join(header, ", ")))
	}

	return header, validators, problems
}

func hasIdentityGroup(groups [][]string, present map[string]bool) bool {
	for _, g := range groups {
		all := true
		for _, col := range g {
			if !present[col] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
