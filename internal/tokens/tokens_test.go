package tokens

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate("   "))
	assert.Equal(t, 3, Estimate("def f(): pass"))
	assert.Equal(t, 2, Estimate("abcdefgh"))
	assert.Equal(t, 1, Estimate("ab"))
}

type stubCounter struct {
	n   int
	err error
}

func (s stubCounter) Name() string { return "stub" }
func (s stubCounter) Count(context.Context, string) (int, error) {
	return s.n, s.err
}

func TestFallback(t *testing.T) {
	ctx := context.Background()

	n, err := Fallback{Primary: stubCounter{n: 99}}.Count(ctx, "a b")
	require.NoError(t, err)
	assert.Equal(t, 99, n)

	n, err = Fallback{Primary: stubCounter{err: errors.New("quota")}}.Count(ctx, "a b")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "heuristic", Fallback{}.Name())
}

func TestNewGeminiCounterRequiresKey(t *testing.T) {
	_, err := NewGeminiCounter(context.Background(), " ", "")
	assert.Error(t, err)
}
