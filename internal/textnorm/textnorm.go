// Package textnorm folds free-text spreadsheet values into comparable keys.
// Vietnamese input arrives both with and without diacritics ("Đã khám xong",
// "da kham xong"), so every comparison goes through Fold first.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ/Đ carry a stroke, not a combining mark, so NFD leaves them intact.
var strokeReplacer = strings.NewReplacer("đ", "d", "Đ", "D")

// StripDiacritics removes combining marks and maps đ to d.
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strokeReplacer.Replace(out)
}

// Fold lowercases, strips diacritics and collapses inner whitespace.
func Fold(s string) string {
	s = strings.ToLower(StripDiacritics(s))
	return strings.Join(strings.Fields(s), " ")
}

// Key folds s and replaces every run of non-alphanumeric runes with a single
// underscore. It is used to match spreadsheet headers against aliases.
func Key(s string) string {
	s = Fold(s)
	var b strings.Builder
	pending := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
