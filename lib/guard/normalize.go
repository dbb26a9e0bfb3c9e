package guard

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizer folds unicode look-alikes to their closest ascii form and lowercases the result.
// Spammers use homoglyphs (full-width latin, accented characters, mathematical alphanumerics)
// to slip past naive substring filters; all rule matching runs on the folded text.
// transform.Transformer is not safe for concurrent use, callers hold the detector lock.
type normalizer struct {
	tr transform.Transformer
}

func newNormalizer() *normalizer {
	return &normalizer{
		tr: transform.Chain(
			norm.NFKD,                          // compatibility decomposition, splits homoglyphs to base+marks
			runes.Remove(runes.In(unicode.Mn)), // drop non-spacing marks left by decomposition
			runes.Map(unicode.ToLower),
			norm.NFKC,
		),
	}
}

// normalize returns the folded, lowercased form of s with control, format and
// invisible characters removed. Empty input returns empty output.
func (n *normalizer) normalize(s string) string {
	if s == "" {
		return ""
	}
	folded, _, err := transform.String(n.tr, s)
	if err != nil {
		// transformation failures fall back to plain lowercasing, still usable for matching
		folded = strings.ToLower(s)
	}

	var result strings.Builder
	result.Grow(len(folded))
	for _, r := range folded {
		if unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) {
			continue
		}
		// zero-width and directional marks, a common obfuscation trick
		if (r >= 0x200B && r <= 0x200F) || (r >= 0x2060 && r <= 0x206F) {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
