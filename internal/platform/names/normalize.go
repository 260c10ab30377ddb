package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Every cross-table join on a team or referee name goes through Normalize.
// Providers disagree on accents, club-type suffixes and abbreviations; a
// single canonical form here is what keeps the joins honest.

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// clubSuffixes are dropped wherever they appear as standalone tokens.
var clubSuffixes = map[string]bool{
	"fc": true, "cf": true, "afc": true, "cfc": true, "ac": true,
	"sc": true, "bk": true, "fk": true, "sk": true, "if": true,
	"ss": true, "ssc": true, "as": true, "us": true, "cd": true,
	"sd": true, "ud": true, "rcd": true, "bsc": true, "vfb": true,
	"vfl": true, "tsg": true, "sv": true, "spvgg": true, "calcio": true,
}

// abbreviations expand common short forms before suffix stripping.
var abbreviations = map[string]string{
	"utd":    "united",
	"ath":    "athletic",
	"atl":    "atletico",
	"intl":   "international",
	"dep":    "deportivo",
	"real":   "real",
	"wolves": "wolverhampton",
	"spurs":  "tottenham",
}

// Normalize lowercases, strips accents, removes club-type suffixes and
// expands abbreviations. It returns "" for blank input.
func Normalize(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return ""
	}

	stripped, _, err := transform.String(accentStripper, lower)
	if err != nil {
		stripped = lower
	}

	var b strings.Builder
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '\'':
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if clubSuffixes[tok] {
			continue
		}
		if full, ok := abbreviations[tok]; ok {
			tok = full
		}
		out = append(out, tok)
	}
	if len(out) == 0 {
		// The name was nothing but suffixes; keep the raw tokens.
		out = tokens
	}
	return strings.Join(out, " ")
}

// FirstToken returns the leading token of a normalized name, used as the
// loose-match fallback when an exact lookup misses.
func FirstToken(normalized string) string {
	if i := strings.IndexByte(normalized, ' '); i > 0 {
		return normalized[:i]
	}
	return normalized
}
