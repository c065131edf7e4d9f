package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// foldCompat maps compatibility characters (non-breaking spaces, ligatures,
// full-width digits, vulgar fractions) to their plain forms.
func foldCompat(s string) string {
	return norm.NFKC.String(s)
}

// cleanText unescapes entities left in embedded JSON, folds compatibility
// characters and collapses whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(foldCompat(html.UnescapeString(s))), " ")
}

func cleanAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = cleanText(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
