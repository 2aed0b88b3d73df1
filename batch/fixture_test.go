package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFinal writes a final-format scoring file of n rows to dir/name.
// When badCode is set, the first row carries an unknown hm_code.
func writeFinal(t *testing.T, dir, name, pgsID string, n int, badCode bool) string {
	t.Helper()
	lines := []string{
		"###PGS CATALOG SCORING FILE - see https://www.pgscatalog.org/downloads/#dl_ftp_scoring for additional information",
		"#format_version=2.0",
		"##POLYGENIC SCORE (PGS) INFORMATION",
		"#pgs_id=" + pgsID,
		"#pgs_name=PRS77_BC",
		"#trait_reported=Breast cancer",
		"#trait_mapped=breast carcinoma",
		"#trait_efo=EFO_0000305",
		"#genome_build=GRCh37",
		fmt.Sprintf("#variants_number=%d", n),
		"#weight_type=NR",
		"##SOURCE INFORMATION",
		"#pgp_id=PGP000001",
		"#citation=Mavaddat N et al. J Natl Cancer Inst (2015). doi:10.1093/jnci/djv036",
		"##HARMONIZATION DETAILS",
		"#Hm_file_version=1",
		"#Hm_genome_build=GRCh38",
		"#Hm_reference_source=Ensembl",
		"#Hm_creation_date=2022-07-29",
		fmt.Sprintf("#Hm_variants_number_matched=%d", n),
		"#Hm_variants_number_unmapped=0",
		"variant_id\tchr_name\tchr_position\teffect_allele\tother_allele\teffect_weight\thm_code\thm_info\thm_source\thm_rsID\thm_chr\thm_pos\thm_inferOtherAllele",
	}
	for i := 1; i <= n; i++ {
		code := "5"
		if badCode && i == 1 {
			code = "7"
		}
		lines = append(lines, strings.Join([]string{
			fmt.Sprintf("rs%d", 100+i), "1", fmt.Sprintf("%d", 1000+i), "A", "G", "0.0123",
			code, `{"ensembl": "match"}`, "ENSEMBL", fmt.Sprintf("rs%d", 100+i), "1", fmt.Sprintf("%d", 2000+i), "",
		}, "\t"))
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// mixedBatch writes one valid, one invalid and one unrecognized file.
func mixedBatch(t *testing.T) (dir string, files []string) {
	t.Helper()
	dir = t.TempDir()
	files = []string{
		writeFinal(t, dir, "PGS000001_h38_v1.txt", "PGS000001", 5, false),
		writeFinal(t, dir, "PGS000002_h38_v1.txt", "PGS000002", 5, true),
		writeFinal(t, dir, "PGS000003_h38_v1.csv", "PGS000003", 5, false),
	}
	return dir, files
}
