package scoretable

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var monthNames = map[string][12]string{
	"fr": {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	"en": {"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"},
}

// NormalizeMonth lowercases s and strips its diacritics ("Février" -> "fevrier").
func NormalizeMonth(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// MonthName returns the normalized month name of d in locale.
func MonthName(d time.Time, locale string) string {
	names, ok := monthNames[locale]
	if !ok {
		names = monthNames[defaultLocale]
	}
	return NormalizeMonth(names[d.Month()-1])
}
