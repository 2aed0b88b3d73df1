package validator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/pithecene-io/hmvalidate/log"
	"github.com/pithecene-io/hmvalidate/schema"
	"github.com/pithecene-io/hmvalidate/types"
)

var finalHeader = []string{
	"variant_id", "chr_name", "chr_position", "effect_allele", "other_allele", "effect_weight",
	"hm_code", "hm_info", "hm_source", "hm_rsID", "hm_chr", "hm_pos", "hm_inferOtherAllele",
}

var positionalHeader = []string{
	"rsID", "chr_name", "chr_position", "effect_allele", "other_allele", "effect_weight",
	"hm_source", "hm_rsID", "hm_chr", "hm_pos", "hm_inferOtherAllele", "hm_match_chr", "hm_match_pos",
}

// scoringFile builds the text of a harmonized file.
type scoringFile struct {
	format   types.Format
	pgsID    string
	hmBuild  string
	header   []string
	rows     [][]string
	variants int // -1 declares len(rows)
	omit     []string
	extra    []string
}

func newFinalFile(pgsID string, n int) *scoringFile {
	f := &scoringFile{format: types.FormatFinal, pgsID: pgsID, hmBuild: "GRCh38", header: finalHeader, variants: -1}
	for i := 1; i <= n; i++ {
		f.rows = append(f.rows, []string{
			fmt.Sprintf("rs%d", 100+i), "1", fmt.Sprintf("%d", 1000+i), "A", "G", "0.0123",
			"5", `{"ensembl": "match"}`, "ENSEMBL", fmt.Sprintf("rs%d", 100+i), "1", fmt.Sprintf("%d", 2000+i), "",
		})
	}
	return f
}

func newPositionalFile(pgsID string, n int) *scoringFile {
	f := &scoringFile{format: types.FormatPositional, pgsID: pgsID, hmBuild: "GRCh38", header: positionalHeader, variants: -1}
	for i := 1; i <= n; i++ {
		pos := fmt.Sprintf("%d", 1000+i)
		f.rows = append(f.rows, []string{
			fmt.Sprintf("rs%d", 100+i), "1", pos, "A", "G", "0.0123",
			"ENSEMBL", fmt.Sprintf("rs%d", 100+i), "1", pos, "", "True", "True",
		})
	}
	return f
}

// set replaces the cell of column in data row n (1-based).
func (f *scoringFile) set(n int, column, value string) *scoringFile {
	for i, name := range f.header {
		if name == column {
			f.rows[n-1][i] = value
			return f
		}
	}
	panic("unknown column " + column)
}

// drop removes column from the header and every row.
func (f *scoringFile) drop(column string) *scoringFile {
	idx := -1
	var header []string
	for i, name := range f.header {
		if name == column {
			idx = i
			continue
		}
		header = append(header, name)
	}
	f.header = header
	for r, row := range f.rows {
		f.rows[r] = append(append([]string(nil), row[:idx]...), row[idx+1:]...)
	}
	return f
}

func (f *scoringFile) metadata() []string {
	variants := f.variants
	if variants < 0 {
		variants = len(f.rows)
	}
	lines := []string{
		"###PGS CATALOG SCORING FILE - see https://www.pgscatalog.org/downloads/#dl_ftp_scoring for additional information",
		"#format_version=2.0",
		"##POLYGENIC SCORE (PGS) INFORMATION",
		"#pgs_id=" + f.pgsID,
		"#pgs_name=PRS77_BC",
		"#trait_reported=Breast cancer",
		"#trait_mapped=breast carcinoma",
		"#trait_efo=EFO_0000305",
		"#genome_build=GRCh37",
		fmt.Sprintf("#variants_number=%d", variants),
		"#weight_type=NR",
		"##SOURCE INFORMATION",
		"#pgp_id=PGP000001",
		"#citation=Mavaddat N et al. J Natl Cancer Inst (2015). doi:10.1093/jnci/djv036",
		"##HARMONIZATION DETAILS",
	}
	if f.format == types.FormatPositional {
		lines = append(lines,
			"#HmPOS_build="+f.hmBuild,
			"#HmPOS_date=2022-07-29",
			`#HmPOS_match_chr={"True": 10, "False": 0}`,
			`#HmPOS_match_pos={"True": 10, "False": 0}`,
		)
	} else {
		lines = append(lines,
			"#Hm_file_version=1",
			"#Hm_genome_build="+f.hmBuild,
			"#Hm_reference_source=Ensembl",
			"#Hm_creation_date=2022-07-29",
			fmt.Sprintf("#Hm_variants_number_matched=%d", variants),
			"#Hm_variants_number_unmapped=0",
		)
	}

	var out []string
	for _, line := range lines {
		omitted := false
		for _, key := range f.omit {
			if strings.HasPrefix(line, key) {
				omitted = true
			}
		}
		if !omitted {
			out = append(out, line)
		}
	}
	return append(out, f.extra...)
}

func (f *scoringFile) bytes() []byte {
	var b strings.Builder
	for _, line := range f.metadata() {
		b.WriteString(line + "\n")
	}
	b.WriteString(strings.Join(f.header, "\t") + "\n")
	for _, row := range f.rows {
		b.WriteString(strings.Join(row, "\t") + "\n")
	}
	return []byte(b.String())
}

// write stores the file as name in dir. Names ending in .gz are compressed.
func (f *scoringFile) write(t *testing.T, dir, name string) string {
	t.Helper()
	data := f.bytes()
	if strings.HasSuffix(name, ".gz") {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(data)
		require.NoError(t, err)
		require.NoError(t, zw.Close())
		data = buf.Bytes()
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func specFor(t *testing.T, f types.Format) schema.FormatSpec {
	t.Helper()
	spec, err := schema.ForFormat(f)
	require.NoError(t, err)
	return spec
}

// runFile validates path with a timestamp-free file log and returns the
// result and the log text.
func runFile(t *testing.T, format types.Format, path string, limit int) (*Result, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), BaseName(path)+"_log.txt")
	res, err := Validate(Options{
		Spec:       specFor(t, format),
		FilePath:   path,
		LogPath:    logPath,
		LogOptions: []log.Option{log.WithoutTime()},
		ErrorLimit: limit,
	})
	require.NoError(t, err)
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	return res, string(data)
}

// levelLines returns the log lines at level (e.g. "ERROR").
func levelLines(logText, level string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(logText, "\n"), "\n") {
		if strings.HasPrefix(line, level+"\t") {
			out = append(out, line)
		}
	}
	return out
}

func lastLine(logText string) string {
	lines := strings.Split(strings.TrimRight(logText, "\n"), "\n")
	return lines[len(lines)-1]
}
