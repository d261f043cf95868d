package titlescan

import "regexp"

// termRule rewrites one OCR-mangled spelling to its canonical form.
type termRule struct {
	re   *regexp.Regexp
	repl string
}

// termRules run strictly in order; earlier rewrites feed later ones, so the
// broad V/D collapse comes first and the ampersand expansion last.
var termRules = []termRule{
	{regexp.MustCompile(`(?i)\bV\s*[-./]?\s*D\s*(?:OF)?\b`), "V/D of"},
	{regexp.MustCompile(`(?i)\bV\s*/\s*D\b\s*OF\b`), "V/D of"},
	{regexp.MustCompile(`(?i)\bPROV\.?\b`), "Provision"},
	{regexp.MustCompile(`(?i)\bREF(?:ER)?\.?\b`), "Refrigerating"},
	{regexp.MustCompile(`(?i)\bAIR[-\s]?CON\b`), "Air-Con"},
	{regexp.MustCompile(`(?i)\bARR['’]?\s*T\b`), "ARRANGEMENT"},
	{regexp.MustCompile(`(?i)\bARR\s*T\b`), "ARRANGEMENT"},
	{regexp.MustCompile(`(?i)\bARRANGMENT\b`), "ARRANGEMENT"},
	{regexp.MustCompile(`(?i)\bE\s*-\s*R\b`), "E/R"},
	{regexp.MustCompile(`(?i)\bE\s+R\b`), "E/R"},
	{regexp.MustCompile(`(?i)\bE\s*/\s*R\b`), "E/R"},
	{regexp.MustCompile(`(?i)\bWORK\s+SHOP\b`), "WORKSHOP"},
	{regexp.MustCompile(`\s*&\s*`), " AND "},
}

// NormalizeTitleTerms folds marine shorthand to canonical vocabulary: vendor
// drawing variants (V-D, V.D, VD) become "V/D of", ARR'T and the ARRANGMENT
// misspelling become ARRANGEMENT, engine-room variants become E/R, PROV and
// REF expand to their full words, and ampersands become AND. Input is ASCII
// normalized first, so the rewrite is idempotent.
func NormalizeTitleTerms(s string) string {
	s = NormalizeText(s)
	for _, rule := range termRules {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	return collapseSpaces(s)
}
