package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/redkeep/redkeep/internal/errors"
)

func TestHexKey256(t *testing.T) {
	validKey := strings.Repeat("ab", 32)

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"Success_LowercaseHex", validKey, false},
		{"Success_UppercaseHex", strings.Repeat("AB", 32), false},
		{"Success_MixedCaseHex", strings.Repeat("aB", 32), false},
		{"Error_TooShort", strings.Repeat("ab", 31), true},
		{"Error_TooLong", strings.Repeat("ab", 33), true},
		{"Error_NonHexCharacters", strings.Repeat("gz", 32), true},
		{"Error_Empty", "", true},
		{"Error_WithWhitespace", " " + validKey[1:], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HexKey256.Validate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("value"))
	assert.Error(t, NotBlank.Validate(""))
	assert.Error(t, NotBlank.Validate("   "))
	assert.Error(t, NotBlank.Validate("\t\n"))
}

func TestWrapValidationError(t *testing.T) {
	t.Run("Success_WrapsAsInvalidInput", func(t *testing.T) {
		err := WrapValidationError(NotBlank.Validate(""))
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Success_NilStaysNil", func(t *testing.T) {
		assert.Nil(t, WrapValidationError(nil))
	})
}
