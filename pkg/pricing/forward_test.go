package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForwardPrice_Continuous(t *testing.T) {
	got, err := ForwardPrice(100, 0.05, 1)
	require.NoError(t, err)
	if !almostEqual(got, 100*math.Exp(0.05), 1e-12) {
		t.Fatalf("forward mismatch: got=%v", got)
	}
	assert.InDelta(t, 105.127, got, 1e-3)
}

func TestForwardPrice_Discrete(t *testing.T) {
	pricer := NewPricer(Discrete)
	got, err := pricer.ForwardPrice(100, 0.05, 2)
	require.NoError(t, err)
	assert.InDelta(t, 110.25, got, 1e-9)

	_, err = pricer.ForwardPrice(100, -1, 2)
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestForwardPrice_ZeroMaturityIsSpot(t *testing.T) {
	for _, c := range []Compounding{Continuous, Discrete} {
		got, err := NewPricer(c).ForwardPrice(87.5, 0.03, 0)
		require.NoError(t, err)
		assert.Equal(t, 87.5, got, c.String())
	}
}

func TestForwardPrice_Errors(t *testing.T) {
	_, err := ForwardPrice(-1, 0.05, 1)
	require.ErrorIs(t, err, ErrInvalidValue)

	_, err = ForwardPrice(100, math.Inf(1), 1)
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = ForwardPrice(100, 0.05, -1)
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "T", ErrorField(err))
}

func TestParseCompounding(t *testing.T) {
	c, err := ParseCompounding("")
	require.NoError(t, err)
	assert.Equal(t, Continuous, c)

	c, err = ParseCompounding(" Discrete ")
	require.NoError(t, err)
	assert.Equal(t, Discrete, c)

	_, err = ParseCompounding("monthly")
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestForwardPrice_Overflow(t *testing.T) {
	for _, c := range []Compounding{Continuous, Discrete} {
		got, err := NewPricer(c).ForwardPrice(1e300, 5, 100)
		require.ErrorIs(t, err, ErrInvalidValue, c.String())
		assert.Equal(t, "T", ErrorField(err))
		assert.Zero(t, got)
	}
}
