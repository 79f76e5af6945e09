package similarity_test

import (
	"testing"

	"biobridge/internal/similarity"
)

func TestRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"MYC", "MYC"},
		{"MYC", "MYC-1"},
		{"TP53", "BRCA2"},
		{"", ""},
		{"A", ""},
	}
	for _, pair := range pairs {
		score := similarity.Ratio(pair[0], pair[1])
		if score < 0 || score > 1 {
			t.Fatalf("Ratio(%q, %q) = %v out of [0,1]", pair[0], pair[1], score)
		}
	}
	if similarity.Ratio("MYC", "myc") != 1.0 {
		t.Fatal("expected case-insensitive exact match")
	}
	if similarity.Ratio("", "") != 1.0 {
		t.Fatal("two empty strings should be identical")
	}
}

func TestRatioOrdersByCloseness(t *testing.T) {
	near := similarity.Ratio("MYC", "MYC1")
	far := similarity.Ratio("MYC", "BRCA2")
	if near <= far {
		t.Fatalf("expected MYC~MYC1 (%v) > MYC~BRCA2 (%v)", near, far)
	}
}

func TestPartialRatioSubstring(t *testing.T) {
	if got := similarity.PartialRatio("TP53", "TP53BP1"); got != 1.0 {
		t.Fatalf("expected embedded identifier to score 1.0, got %v", got)
	}
	if got := similarity.PartialRatio("", "TP53"); got != 0.0 {
		t.Fatalf("expected empty vs non-empty to score 0, got %v", got)
	}
}

func TestTokenSortRatioIgnoresOrder(t *testing.T) {
	a := "tumor protein p53"
	b := "p53 tumor protein"
	if got := similarity.TokenSortRatio(a, b); got != 1.0 {
		t.Fatalf("expected reordered tokens to score 1.0, got %v", got)
	}
}

func TestTokenSetRatioIgnoresDuplicates(t *testing.T) {
	a := "p53 p53 tumor protein"
	b := "tumor protein p53"
	if got := similarity.TokenSetRatio(a, b); got != 1.0 {
		t.Fatalf("expected duplicated tokens to score 1.0, got %v", got)
	}
	if got := similarity.TokenSetRatio("alpha beta", "alpha beta gamma"); got < similarity.TokenSetRatio("alpha", "gamma") {
		t.Fatal("expected overlapping token sets to outscore disjoint ones")
	}
}

func TestProteinRatioStripsDecorations(t *testing.T) {
	rules := similarity.DefaultProteinRules()
	if got := similarity.ProteinRatio("TP53_HUMAN", "TP53", rules); got != 1.0 {
		t.Fatalf("expected species suffix stripped, got %v", got)
	}
	if got := similarity.ProteinRatio("P12345-2", "P12345", rules); got != 1.0 {
		t.Fatalf("expected isoform suffix stripped, got %v", got)
	}
	if got := similarity.ProteinRatio("ALBU_HUMAN (Fragment)", "ALBU_HUMAN", rules); got != 1.0 {
		t.Fatalf("expected fragment note stripped, got %v", got)
	}
}

func TestProteinRulesCustomTable(t *testing.T) {
	rules, err := similarity.NewProteinRules([]string{`(?i)_custom$`})
	if err != nil {
		t.Fatalf("NewProteinRules returned error: %v", err)
	}
	if got := rules.Strip("ABC_CUSTOM"); got != "ABC" {
		t.Fatalf("expected custom rule applied, got %q", got)
	}
	if _, err := similarity.NewProteinRules([]string{"("}); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}
