package types

// FileMetadata holds the values extracted from the leading "#" lines of a
// harmonized file. Zero values mean the key was absent or unparseable;
// Seen records which keys were present regardless of value.
type FileMetadata struct {
	PgsID          string `json:"pgs_id,omitempty"`
	GenomeBuild    string `json:"genome_build,omitempty"`
	HmBuild        string `json:"hm_build,omitempty"`
	FormatVersion  string `json:"format_version,omitempty"`
	HmFileVersion  string `json:"hm_file_version,omitempty"`
	HmDate         string `json:"hm_date,omitempty"`
	VariantsNumber *int64 `json:"variants_number,omitempty"`
	HmMatched      *int64 `json:"hm_variants_matched,omitempty"`
	HmUnmapped     *int64 `json:"hm_variants_unmapped,omitempty"`

	Seen map[string]bool `json:"-"`
}

// NewFileMetadata returns empty metadata ready for extraction.
func NewFileMetadata() *FileMetadata {
	return &FileMetadata{Seen: make(map[string]bool)}
}

// Has reports whether a metadata line starting with key was seen.
func (m *FileMetadata) Has(key string) bool {
	if m == nil {
		return false
	}
	return m.Seen[key]
}
