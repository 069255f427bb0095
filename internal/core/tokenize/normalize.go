package tokenize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// chains are stateful, so each caller borrows its own
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			// Fold sends lowercase Cherokee to uppercase; Lower keeps the chain idempotent
			cases.Lower(language.Und),
			runes.Remove(runes.In(unicode.Mn)), // marks NFKC could not compose into a letter
			runes.Remove(runes.In(unicode.Cf)), // zero-width and bidi controls
			width.Fold,
		)
	},
}

// Normalize folds s for matching: control bytes and invalid UTF-8 dropped, NFKC,
// Unicode case fold then lower, combining and format runes removed, width folded, whitespace
// runs collapsed to one space and trimmed
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// transform only fails on malformed input, which Sanitize already removed
		out = strings.ToLower(s)
	}
	return collapseSpaces(out)
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the ends
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
