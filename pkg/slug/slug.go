package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Letters that do not decompose into a base letter plus marks.
var folds = strings.NewReplacer(
	"ı", "i",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"ø", "o",
	"ł", "l",
	"đ", "d",
	"&", " and ",
)

// Generate creates a URL-friendly slug from the given name. Accented letters
// are folded to ASCII and every other run of non-alphanumerics becomes a
// single hyphen.
//
// Examples:
//   - "Wireless Headphones" → "wireless-headphones"
//   - "Crème Brûlée Set" → "creme-brulee-set"
//   - "Pens & Pencils" → "pens-and-pencils"
func Generate(name string) string {
	s := folds.Replace(strings.ToLower(strings.TrimSpace(name)))

	// Strip combining marks after canonical decomposition.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}
