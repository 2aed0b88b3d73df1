package validator

import (
	"fmt"
	"strings"

	"github.com/pithecene-io/hmvalidate/schema"
	"github.com/pithecene-io/hmvalidate/types"
)

// validateRows scans the data section. The error ceiling is checked
// between rows, once another row is waiting; errors found past it inside
// the last validated row are counted but not logged. A read error is
// returned for the caller to abort on.
func (s *Session) validateRows(in *input, header []string, validators columnValidators) error {
	limit := s.opts.ErrorLimit
	row := 0
	for {
		line, ok := in.next()
		if !ok {
			break
		}
		if line == "" {
			continue
		}
		if limit > 0 && s.result.ContentErrors >= limit {
			s.result.Truncated = true
			s.warn(types.StageRows, fmt.Sprintf(
				"Error limit of %d reached at variant line %d: the remaining lines were not validated", limit, row))
			break
		}
		row++
		s.validateRow(row, header, validators, line)
	}
	s.result.RowsScanned = row

	if err := in.err(); err != nil {
		return err
	}
	if !s.result.Truncated {
		s.checkVariantCount(row)
	}
	return nil
}

func (s *Session) validateRow(n int, header []string, validators columnValidators, line string) {
	cells := strings.Split(line, "\t")
	if len(cells) != len(header) {
		s.rowError(n, "", fmt.Sprintf("- Variant line %d | expected %d columns but found %d", n, len(header), len(cells)))
		return
	}

	for i, v := range validators {
		if v == nil {
			continue
		}
		for _, reason := range v.Validate(cells[i]) {
			s.rowError(n, v.Name, fmt.Sprintf("- Variant line %d | %s: %s", n, v.Name, reason))
		}
	}

	if s.spec.CheckRow == nil {
		return
	}
	for _, p := range s.spec.CheckRow(schema.NewRow(header, cells)) {
		s.rowError(n, p.Column, fmt.Sprintf("- Variant line %d | %s", n, p.Message))
	}
}

// rowError counts a content error and logs it while under the ceiling.
func (s *Session) rowError(row int, column, message string) {
	s.result.ContentErrors++
	s.result.ErrorCount++
	if limit := s.opts.ErrorLimit; limit > 0 && s.contentLogged >= limit {
		return
	}
	s.contentLogged++
	s.record(types.Finding{
		Severity: types.SeverityError,
		Stage:    types.StageRows,
		Row:      row,
		Column:   column,
		Message:  message,
	})
}

// checkVariantCount compares the scanned rows to #variants_number.
func (s *Session) checkVariantCount(rows int) {
	md := s.result.Metadata
	if md == nil || md.VariantsNumber == nil {
		return
	}
	if int64(rows) != *md.VariantsNumber {
		s.fail(types.StageMetadata, fmt.Sprintf("The number of variant lines (%d) doesn't match the metadata %s (%d)",
			rows, schema.MetaVariantsNumber, *md.VariantsNumber))
	}
}
