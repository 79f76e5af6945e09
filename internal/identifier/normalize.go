package identifier

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upperCaser handles symbols that carry non-ASCII letters, such as Greek
// characters in legacy gene names.
var upperCaser = cases.Upper(language.Und)

// ensemblProteinPattern matches a versioned or unversioned Ensembl protein ID.
var ensemblProteinPattern = regexp.MustCompile(`^ENSP\d{11}(\.\d+)?$`)

// isoformSuffixPattern matches one or more trailing UniProt isoform suffixes
// such as "-2". Stacked suffixes strip in a single pass so normalization
// reaches a fixed point.
var isoformSuffixPattern = regexp.MustCompile(`(-\d+)+$`)

// ensemblVersionPattern matches one or more trailing ".N" version suffixes.
var ensemblVersionPattern = regexp.MustCompile(`(\.\d+)+$`)

// uniprotPrefixes are database decorations stripped from UniProt accessions.
var uniprotPrefixes = []string{"UniProtKB:", "uniprotkb:", "sp|", "tr|", "SP|", "TR|"}

// NormalizeUniProt canonicalizes a UniProt accession: database prefixes and
// FASTA-style pipe segments are removed, isoform suffixes are dropped, and the
// result is uppercased. Unparsable input comes back trimmed and uppercased.
func NormalizeUniProt(id string) string {
	id = strings.TrimSpace(id)
	if isNullLike(id) {
		return ""
	}
	for _, prefix := range uniprotPrefixes {
		if strings.HasPrefix(id, prefix) {
			id = id[len(prefix):]
			break
		}
	}
	// FASTA headers carry the accession in the middle segment: sp|ACC|NAME.
	if strings.Contains(id, "|") {
		parts := strings.Split(id, "|")
		for _, part := range parts {
			if part != "" {
				id = part
				break
			}
		}
	}
	id = isoformSuffixPattern.ReplaceAllString(id, "")
	return strings.ToUpper(strings.TrimSpace(id))
}

// NormalizeEnsembl canonicalizes an Ensembl identifier. When stripVersions is
// true a trailing ".N" version suffix is removed.
func NormalizeEnsembl(id string, stripVersions bool) string {
	id = strings.TrimSpace(id)
	if isNullLike(id) {
		return ""
	}
	if stripVersions {
		id = ensemblVersionPattern.ReplaceAllString(id, "")
	}
	return strings.ToUpper(id)
}

// NormalizeGeneSymbol trims and uppercases a gene symbol. Null-like values
// (empty, "nan", "null", "none") normalize to the empty string.
func NormalizeGeneSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if isNullLike(symbol) {
		return ""
	}
	return upperCaser.String(symbol)
}

// IsValidEnsemblProteinID reports whether id is a well-formed Ensembl protein
// identifier, with or without a version suffix.
func IsValidEnsemblProteinID(id string) bool {
	return ensemblProteinPattern.MatchString(strings.TrimSpace(id))
}

// isNullLike reports whether the value is one of the null placeholders that
// survive tabular exports.
func isNullLike(value string) bool {
	switch strings.ToLower(value) {
	case "", "nan", "null", "none", "na", "n/a":
		return true
	}
	return false
}
