package ebay

import (
	"regexp"
	"strings"
)

// Ordered URL shapes a listing ID can hide in. First digit group wins.
var identifierPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/itm/([0-9]+)`),
	regexp.MustCompile(`item=([0-9]+)`),
	regexp.MustCompile(`ItemID=([0-9]+)`),
	regexp.MustCompile(`ebay\.com/([0-9]+)`),
	regexp.MustCompile(`/([0-9]+)(?:\?|$)`),
}

var allDigits = regexp.MustCompile(`^[0-9]+$`)

// ExtractItemID derives the canonical numeric listing identifier from a raw
// URL or bare ID. A token that is already entirely digits is returned
// verbatim.
func ExtractItemID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrIdentifierNotFound
	}

	if allDigits.MatchString(input) {
		return input, nil
	}

	for _, pattern := range identifierPatterns {
		if m := pattern.FindStringSubmatch(input); len(m) > 1 {
			return m[1], nil
		}
	}

	return "", ErrIdentifierNotFound
}
