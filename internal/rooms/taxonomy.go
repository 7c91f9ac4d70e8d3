package rooms

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// labelRule maps any of its keywords, matched as case-insensitive substrings,
// to a base room type.
type labelRule struct {
	keywords []string
	key      string
}

// Rules are tried in order; the first match wins. "bed" precedes "bath" so
// "bedroom bath" maps to Bedroom.
var labelRules = []labelRule{
	{keywords: []string{"living"}, key: LivingRoom},
	{keywords: []string{"kitchen"}, key: Kitchen},
	{keywords: []string{"bed"}, key: Bedroom},
	{keywords: []string{"bath", "rest"}, key: Bathroom},
	{keywords: []string{"storage", "closet"}, key: Storage},
	{keywords: []string{"mechanical", "utility"}, key: Mechanical},
	{keywords: []string{"office", "workspace"}, key: Workspace},
	{keywords: []string{"corridor", "hall"}, key: Circulation},
}

// MatchBaseType returns the base type whose keyword occurs in label, if any.
func MatchBaseType(label string) (string, bool) {
	lower := strings.ToLower(label)
	for _, rule := range labelRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.key, true
			}
		}
	}
	return "", false
}

// TypeForLabel maps a free-text model label to a room type key.
//
// Known keywords resolve to a base type. Anything else is title-cased and
// used as the key verbatim, so unseen labels become ad-hoc types:
//
//	TypeForLabel("Kitchen Area") // "Kitchen"
//	TypeForLabel("server room")  // "Server Room"
func TypeForLabel(label string) string {
	if key, ok := MatchBaseType(label); ok {
		return key
	}
	return TitleCase(label)
}

// TitleCase upper-cases the first letter of every whitespace-separated word
// and leaves the remaining letters untouched. Runs of whitespace collapse to
// a single space.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
