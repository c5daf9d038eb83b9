package rules

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer cleans transcript text without a generative backend: filler
// removal, whitespace and punctuation normalization, sentence capitalization.
// Pure; it always returns a string and never fails.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Only clear hesitations are removed. Be conservative: when in doubt, keep
// the word. Matching is whole-word, so "uhm" survives although "um" is removed.
var (
	fillerPhrases = regexp.MustCompile(`(?i)\b(you know|i mean|kind of|sort of|like actually)\b,?`)
	fillerWords   = regexp.MustCompile(`(?i)\b(uh|um|ah|eh|er|hmm|oh)\b,?`)

	// Vietnamese hesitations. \b is ASCII-only in Go regexp, so boundaries
	// are expressed as explicit non-letter classes.
	fillerWordsVI = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])(ừ|ờ|à|ạ|nhé|nhá)($|[^\p{L}\p{N}])`)

	multiSpace    = regexp.MustCompile(`\s+`)
	spaceBeforeP  = regexp.MustCompile(`\s+([.!?])`)
	sentenceSplit = regexp.MustCompile(`([.!?])\s+`)
)

// punctSpacing maps punctuation to "no leading space, one trailing space".
var punctSpacing = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\s*\.\s*`), ". "},
	{regexp.MustCompile(`\s*,\s*`), ", "},
	{regexp.MustCompile(`\s*;\s*`), "; "},
	{regexp.MustCompile(`\s*:\s*`), ": "},
	{regexp.MustCompile(`\s*\?\s*`), "? "},
	{regexp.MustCompile(`\s*!\s*`), "! "},
}

// Normalize cleans and normalizes transcript text with minimal information
// loss. Empty input is returned unchanged. Normalize is idempotent on its
// own output.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = multiSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	text = fillerPhrases.ReplaceAllString(text, "")
	text = fillerWords.ReplaceAllString(text, "")
	// Run twice so adjacent fillers sharing a boundary are both caught.
	text = fillerWordsVI.ReplaceAllString(text, "$1$3")
	text = fillerWordsVI.ReplaceAllString(text, "$1$3")

	for _, p := range punctSpacing {
		text = p.re.ReplaceAllString(text, p.repl)
	}

	text = multiSpace.ReplaceAllString(text, " ")
	text = spaceBeforeP.ReplaceAllString(text, "$1")
	text = capitalizeSentences(text)
	text = multiSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if text != "" && !strings.ContainsAny(string(text[len(text)-1]), ".!?") {
		text += "."
	}

	return text
}

// capitalizeSentences upper-cases the first letter of each sentence fragment.
// Only the first rune is touched: acronyms like "HR" must survive cleaning.
func capitalizeSentences(text string) string {
	parts := sentenceSplit.Split(text, -1)
	seps := sentenceSplit.FindAllString(text, -1)

	var sb strings.Builder
	for i, part := range parts {
		sb.WriteString(capitalizeFirst(strings.TrimSpace(part)))
		if i < len(seps) {
			sb.WriteString(strings.TrimSpace(seps[i]))
			sb.WriteString(" ")
		}
	}
	return sb.String()
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
