// Package domain defines the core domain model for the encrypted secret vault.
// A secret's value is held at rest only as an AEAD token; listings and search
// results carry the redaction marker instead of the value.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RedactedValue is the placeholder returned in place of a secret value
// by every operation that does not explicitly decrypt.
const RedactedValue = "***REDACTED***"

// Secret represents a stored secret and its metadata. The Value field holds
// the encrypted "nonceHex:cipherHex" token at rest; only a get operation
// replaces it with plaintext, and listing operations replace it with
// RedactedValue.
type Secret struct {
	// ID is the opaque unique identifier, assigned at creation and immutable.
	ID string `json:"id"`
	// Name is the human-readable label, unique case-insensitively.
	Name string `json:"name"`
	// Value is the secret payload (encrypted at rest).
	Value string `json:"value"`
	// Description is optional free text.
	Description string `json:"description,omitempty"`
	// Tags is an unordered set of free-text labels.
	Tags []string `json:"tags"`
	// CreatedAt is the UTC timestamp of creation.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is bumped on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
	// ExpiresAt marks the instant after which the secret is logically absent (nil for never).
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	// AccessCount is incremented on every successful value read.
	AccessCount int64 `json:"accessCount"`
	// LastAccessed is the timestamp of the most recent value read (nil if never read).
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
}

// NewID generates a fresh secret identifier: a UUIDv7 rendered as 32 hex characters.
func NewID() string {
	id := uuid.Must(uuid.NewV7())
	return strings.ReplaceAll(id.String(), "-", "")
}

// Expired reports whether the secret is logically absent at the given instant.
func (s *Secret) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Redacted returns a copy of the secret with the value replaced by RedactedValue.
func (s *Secret) Redacted() *Secret {
	out := *s
	out.Value = RedactedValue
	return &out
}

// Matches reports whether the secret matches a free-text query and a set of
// required tags. The query is a case-insensitive substring match against
// name, description, and tags; every requested tag must be present.
// An empty query and empty tag set match everything.
func (s *Secret) Matches(query string, tags []string) bool {
	if query != "" {
		q := strings.ToLower(query)
		if !strings.Contains(strings.ToLower(s.Name), q) &&
			!strings.Contains(strings.ToLower(s.Description), q) &&
			!s.anyTagContains(q) {
			return false
		}
	}

	for _, tag := range tags {
		if !s.HasTag(tag) {
			return false
		}
	}

	return true
}

// HasTag reports whether the secret carries the given tag (case-insensitive).
func (s *Secret) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func (s *Secret) anyTagContains(loweredQuery string) bool {
	for _, t := range s.Tags {
		if strings.Contains(strings.ToLower(t), loweredQuery) {
			return true
		}
	}
	return false
}
