package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("Success_PreservesErrorChain", func(t *testing.T) {
		wrapped := Wrap(ErrNotFound, "secret lookup failed")

		assert.True(t, Is(wrapped, ErrNotFound))
		assert.Equal(t, "secret lookup failed: not found", wrapped.Error())
	})

	t.Run("Success_NilReturnsNil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, "context"))
	})

	t.Run("Success_NestedWrapping", func(t *testing.T) {
		inner := Wrap(ErrConflict, "name taken")
		outer := Wrap(inner, "create failed")

		assert.True(t, Is(outer, ErrConflict))
		assert.Equal(t, "create failed: name taken: conflict", outer.Error())
	})
}

func TestIs(t *testing.T) {
	t.Run("Success_MatchesSentinel", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", ErrGone)
		assert.True(t, Is(err, ErrGone))
	})

	t.Run("Success_DistinctSentinelsDoNotMatch", func(t *testing.T) {
		assert.False(t, Is(ErrNotFound, ErrConflict))
		assert.False(t, Is(ErrGone, ErrNotFound))
		assert.False(t, Is(ErrInvalidInput, ErrGone))
	})
}

func TestNew(t *testing.T) {
	err := New("something broke")
	assert.EqualError(t, err, "something broke")
}
