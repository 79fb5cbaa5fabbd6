package cache

import (
	"time"
)

// Entry is one cached API response.
type Entry struct {
	// Body is the raw response body.
	Body []byte `json:"body"`

	// FetchedAt is when the response was fetched from the API.
	FetchedAt time.Time `json:"fetched_at"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`
}

// NewEntry builds an entry for a freshly fetched body with the given TTL.
func NewEntry(body []byte, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Body:      body,
		FetchedAt: now,
		Expires:   now.Add(ttl),
	}
}

// IsExpired returns true if the entry is stale.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
