package commands

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunGenerateKey(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var out bytes.Buffer

		err := RunGenerateKey(IOTuple{Writer: &out})
		require.NoError(t, err)

		pattern := regexp.MustCompile(`VAULT_ENCRYPTION_KEY="([a-f0-9]{64})"`)
		assert.Regexp(t, pattern, out.String())
	})

	t.Run("Success_KeysAreUnique", func(t *testing.T) {
		var first, second bytes.Buffer

		require.NoError(t, RunGenerateKey(IOTuple{Writer: &first}))
		require.NoError(t, RunGenerateKey(IOTuple{Writer: &second}))

		assert.NotEqual(t, first.String(), second.String())
	})
}
