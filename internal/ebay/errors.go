package ebay

import (
	"errors"
	"fmt"
)

var (
	// ErrIdentifierNotFound means no listing ID could be derived from the
	// input; the caller should ask for different input.
	ErrIdentifierNotFound = errors.New("no listing identifier found in input")

	// ErrNoCredentials means the authenticated strategy was skipped because
	// only placeholder credentials were configured. Always recoverable by
	// falling through to scraping.
	ErrNoCredentials = errors.New("no valid API credentials configured")

	// ErrBlocked means every scraping candidate was rejected by anti-bot
	// defenses.
	ErrBlocked = errors.New("all scraping attempts blocked")

	// ErrMalformedResponse means a structurally valid HTTP response could not
	// be parsed into the expected fields.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrItemUnresolvable means both strategies were exhausted. Terminal for
	// this resolution attempt.
	ErrItemUnresolvable = errors.New("could not retrieve item data, check the identifier")
)

// UpstreamError carries the HTTP status of a failed authenticated API call.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream API returned status %d", e.Status)
}
