package result

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	t.Run("ok carries value", func(t *testing.T) {
		r := Ok(42)
		assert.True(t, r.IsSuccess())
		assert.False(t, r.IsFailure())
		assert.Equal(t, 42, r.Value())
		assert.NoError(t, r.Err())
		assert.Empty(t, r.Error())
	})

	t.Run("fail carries error", func(t *testing.T) {
		r := FailMsg[int]("boom")
		assert.True(t, r.IsFailure())
		assert.EqualError(t, r.Err(), "boom")
		assert.Equal(t, "boom", r.Error())
	})

	t.Run("value on failure panics", func(t *testing.T) {
		r := FailMsg[string]("nope")
		assert.Panics(t, func() { _ = r.Value() })
	})

	t.Run("fail with nil panics", func(t *testing.T) {
		assert.Panics(t, func() { _ = Fail[int](nil) })
	})
}

func TestCombine(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	t.Run("first failure wins", func(t *testing.T) {
		r := Combine(Ok("a"), Fail[int](first), Fail[bool](second))
		require.True(t, r.IsFailure())
		assert.ErrorIs(t, r.Err(), first)
	})

	t.Run("all succeed", func(t *testing.T) {
		r := Combine(Ok("a"), Ok(1))
		assert.True(t, r.IsSuccess())
	})

	t.Run("empty list succeeds", func(t *testing.T) {
		assert.True(t, Combine().IsSuccess())
	})
}

func TestEither(t *testing.T) {
	l := Left[string, int]("bad")
	assert.True(t, l.IsLeft())
	assert.False(t, l.IsRight())
	assert.Equal(t, "bad", l.LeftValue())
	assert.Panics(t, func() { _ = l.RightValue() })

	r := Right[string, int](7)
	assert.True(t, r.IsRight())
	assert.Equal(t, 7, r.RightValue())
	assert.Panics(t, func() { _ = r.LeftValue() })
}
