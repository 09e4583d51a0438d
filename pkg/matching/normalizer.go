package matching

import (
	"regexp"
	"strings"
)

// MTA stop names arrive heavily abbreviated ("WLMSBRG BRDG PLZ/NSTRND AV")
// and the same physical stop is named with its cross streets in either
// order depending on which API produced it. NormalizeStopName reduces a
// raw name to canonical street tokens so two spellings can be compared.

var routeCodePrefixRegex = regexp.MustCompile(`^[A-Z]\d+\s`)

// Ordered so the output is deterministic for a given input.
var abbreviationExpansions = []struct {
	abbreviation string
	expansion    string
	regex        *regexp.Regexp
}{
	{abbreviation: "WLMSBRG", expansion: "WILLIAMSBURG"},
	{abbreviation: "BRDG", expansion: "BRIDGE"},
	{abbreviation: "PLZ", expansion: "PLAZA"},
	{abbreviation: "NSTRND", expansion: "NOSTRAND"},
	{abbreviation: "RGRS", expansion: "ROGERS"},
	{abbreviation: "MKR", expansion: "MEEKER"},
	{abbreviation: "AV", expansion: "AVENUE"},
	{abbreviation: "ST", expansion: "STREET"},
}

var genericStreetSuffixes = map[string]bool{
	"avenue":    true,
	"ave":       true,
	"av":        true,
	"street":    true,
	"str":       true,
	"st":        true,
	"road":      true,
	"rd":        true,
	"place":     true,
	"pl":        true,
	"boulevard": true,
	"blvd":      true,
}

func init() {
	for i := range abbreviationExpansions {
		abbreviationExpansions[i].regex = regexp.MustCompile(`(?i)\b` + abbreviationExpansions[i].abbreviation + `\b`)
	}
}

// NormalizeStopName canonicalizes a free-text stop name into an ordered
// list of 0-2 comparable street tokens. Segment order follows the "/"
// split of the input - callers must compare both orders when matching.
func NormalizeStopName(name string) []string {
	name = strings.TrimPrefix(name, "SBS ")
	name = routeCodePrefixRegex.ReplaceAllString(name, "")

	for _, expansion := range abbreviationExpansions {
		name = expansion.regex.ReplaceAllString(name, expansion.expansion)
	}

	name = strings.ToLower(name)

	var tokens []string
	for _, segment := range strings.Split(name, "/") {
		segment = stripTrailingSuffix(segment)
		segment = strings.Join(strings.Fields(segment), "")

		if segment != "" {
			tokens = append(tokens, segment)
		}
	}

	return tokens
}

func stripTrailingSuffix(segment string) string {
	words := strings.Fields(segment)

	if len(words) > 0 && genericStreetSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}

	return strings.Join(words, " ")
}

// TokensMatch reports whether two normalized token lists name the same
// stop, allowing the cross streets to appear in either order.
func TokensMatch(a []string, b []string) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}

	if len(a) == 1 {
		return a[0] == b[0]
	}

	if a[0] == b[0] && a[1] == b[1] {
		return true
	}

	return a[0] == b[1] && a[1] == b[0]
}
