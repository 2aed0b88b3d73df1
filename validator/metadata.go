package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pithecene-io/hmvalidate/schema"
	"github.com/pithecene-io/hmvalidate/types"
)

// metaField extracts one typed value from a metadata line.
type metaField struct {
	re  *regexp.Regexp
	set func(md *types.FileMetadata, value string)
}

func stringField(key string, set func(md *types.FileMetadata, v string)) metaField {
	return metaField{
		re:  regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `=(.+)`),
		set: func(md *types.FileMetadata, v string) { set(md, strings.TrimSpace(v)) },
	}
}

func countField(key string, set func(md *types.FileMetadata, n int64)) metaField {
	return metaField{
		re: regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `=(\d+)`),
		set: func(md *types.FileMetadata, v string) {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				set(md, n)
			}
		},
	}
}

var commonMetaFields = []metaField{
	stringField(schema.MetaPgsID, func(md *types.FileMetadata, v string) { md.PgsID = v }),
	stringField(schema.MetaGenomeBuild, func(md *types.FileMetadata, v string) { md.GenomeBuild = v }),
	stringField(schema.MetaFormatVersion, func(md *types.FileMetadata, v string) { md.FormatVersion = v }),
	stringField(schema.MetaHmFileVersion, func(md *types.FileMetadata, v string) { md.HmFileVersion = v }),
	countField(schema.MetaVariantsNumber, func(md *types.FileMetadata, n int64) { md.VariantsNumber = &n }),
	countField(schema.MetaHmVariantsMatch, func(md *types.FileMetadata, n int64) { md.HmMatched = &n }),
	countField(schema.MetaHmVariantsUnmap, func(md *types.FileMetadata, n int64) { md.HmUnmapped = &n }),
}

// metadataExtractor consumes the leading "#" lines of a file.
type metadataExtractor struct {
	spec   schema.FormatSpec
	md     *types.FileMetadata
	fields []metaField
}

func newMetadataExtractor(spec schema.FormatSpec) *metadataExtractor {
	fields := append([]metaField(nil), commonMetaFields...)
	fields = append(fields,
		stringField(spec.BuildKey, func(md *types.FileMetadata, v string) { md.HmBuild = v }),
		stringField(spec.DateKey, func(md *types.FileMetadata, v string) { md.HmDate = v }),
	)
	return &metadataExtractor{
		spec:   spec,
		md:     types.NewFileMetadata(),
		fields: fields,
	}
}

// consume records one metadata line. Unknown lines are ignored.
func (e *metadataExtractor) consume(line string) {
	for _, key := range e.spec.MetadataKeys {
		if strings.HasPrefix(line, key) {
			e.md.Seen[key] = true
		}
	}
	for _, f := range e.fields {
		if m := f.re.FindStringSubmatch(line); m != nil {
			f.set(e.md, m[1])
		}
	}
}

// problems returns the metadata errors: missing required keys in checklist
// order, then an unparseable harmonization date.
func (e *metadataExtractor) problems() []string {
	var out []string
	for _, key := range e.spec.MetadataKeys {
		if !e.md.Seen[key] {
			out = append(out, fmt.Sprintf("Missing metadata: %s", key))
		}
	}
	if e.md.HmDate != "" && !isMetadataDate(e.md.HmDate) {
		out = append(out, fmt.Sprintf("Metadata: %s value %q is not a valid date (expected YYYY-MM-DD)", e.spec.DateKey, e.md.HmDate))
	}
	return out
}

// isMetadataDate accepts YYYY-MM-DD optionally followed by a time part.
func isMetadataDate(v string) bool {
	if len(v) < len(time.DateOnly) {
		return false
	}
	if _, err := time.Parse(time.DateOnly, v[:len(time.DateOnly)]); err != nil {
		return false
	}
	if len(v) == len(time.DateOnly) {
		return true
	}
	sep := v[len(time.DateOnly)]
	return sep == ' ' || sep == 'T'
}

// compareWithFilename checks the declared identifier and harmonized build
// against the values parsed from the file name. Only keys present in the
// metadata are compared.
func compareWithFilename(spec schema.FormatSpec, md *types.FileMetadata, fn FileName) []string {
	var out []string
	if md.PgsID != "" && fn.PgsID != "" && md.PgsID != fn.PgsID {
		out = append(out, fmt.Sprintf("Discrepancy between the filename PGS ID (%s) and the metadata %s (%s)",
			fn.PgsID, schema.MetaPgsID, md.PgsID))
	}
	if md.HmBuild != "" && fn.Build != "" && md.HmBuild != fn.Build {
		out = append(out, fmt.Sprintf("Discrepancy between the filename build (%s) and the metadata %s (%s)",
			fn.Build, spec.BuildKey, md.HmBuild))
	}
	return out
}
