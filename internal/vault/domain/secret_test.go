package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	id := NewID()

	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, NewID())
}

func TestSecret_Expired(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success_NoExpiryNeverExpires", func(t *testing.T) {
		s := &Secret{}
		assert.False(t, s.Expired(now))
	})

	t.Run("Success_FutureExpiryNotExpired", func(t *testing.T) {
		future := now.Add(time.Hour)
		s := &Secret{ExpiresAt: &future}
		assert.False(t, s.Expired(now))
	})

	t.Run("Success_PastExpiryExpired", func(t *testing.T) {
		past := now.Add(-time.Hour)
		s := &Secret{ExpiresAt: &past}
		assert.True(t, s.Expired(now))
	})
}

func TestSecret_Redacted(t *testing.T) {
	s := &Secret{
		ID:    "abc",
		Name:  "API Key",
		Value: "deadbeef:cafebabe",
		Tags:  []string{"prod"},
	}

	redacted := s.Redacted()

	assert.Equal(t, RedactedValue, redacted.Value)
	assert.Equal(t, s.ID, redacted.ID)
	assert.Equal(t, s.Name, redacted.Name)
	// Original is untouched
	assert.Equal(t, "deadbeef:cafebabe", s.Value)
}

func TestSecret_Matches(t *testing.T) {
	s := &Secret{
		Name:        "Database Password",
		Description: "primary postgres credentials",
		Tags:        []string{"prod", "Database"},
	}

	tests := []struct {
		name  string
		query string
		tags  []string
		want  bool
	}{
		{"Success_EmptyQueryMatchesAll", "", nil, true},
		{"Success_NameSubstring", "database", nil, true},
		{"Success_NameCaseInsensitive", "DATABASE", nil, true},
		{"Success_DescriptionSubstring", "postgres", nil, true},
		{"Success_TagSubstring", "prod", nil, true},
		{"Success_TagFilterCaseInsensitive", "", []string{"database"}, true},
		{"Success_QueryAndTags", "password", []string{"prod"}, true},
		{"Error_NoSubstringMatch", "redis", nil, false},
		{"Error_MissingTag", "", []string{"staging"}, false},
		{"Error_PartialTagSetMissing", "", []string{"prod", "staging"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Matches(tt.query, tt.tags))
		})
	}
}

func TestSecret_HasTag(t *testing.T) {
	s := &Secret{Tags: []string{"Prod", "db"}}

	assert.True(t, s.HasTag("prod"))
	assert.True(t, s.HasTag("DB"))
	assert.False(t, s.HasTag("staging"))
}
