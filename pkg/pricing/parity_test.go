package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParity_RoundTrip(t *testing.T) {
	cases := []struct {
		call, s, k, t, r float64
	}{
		{10.45, 100, 100, 1, 0.05},
		{3.2, 95, 110, 0.5, 0.02},
		{25, 120, 100, 2, -0.01},
		{0, 50, 60, 0.25, 0.1},
	}
	for _, tc := range cases {
		put, err := PutFromCall(tc.call, tc.s, tc.k, tc.t, tc.r)
		require.NoError(t, err)
		call, err := CallFromPut(put, tc.s, tc.k, tc.t, tc.r)
		require.NoError(t, err)
		if !almostEqual(call, tc.call, 1e-9) {
			t.Fatalf("round trip mismatch: start=%v end=%v", tc.call, call)
		}
	}
}

func TestParity_Identity(t *testing.T) {
	put, err := PutFromCall(10, 100, 100, 1, 0.05)
	require.NoError(t, err)
	// C - P = S - K e^(-rT)
	assert.InDelta(t, 100-100*math.Exp(-0.05), 10-put, 1e-12)
}

func TestResolveParity(t *testing.T) {
	call := 10.0
	leg, put, err := ResolveParity(ParityInputs{S: 100, K: 100, T: 1, R: 0.05, CallPrice: &call})
	require.NoError(t, err)
	assert.Equal(t, LegPut, leg)

	leg, back, err := ResolveParity(ParityInputs{S: 100, K: 100, T: 1, R: 0.05, PutPrice: &put})
	require.NoError(t, err)
	assert.Equal(t, LegCall, leg)
	assert.InDelta(t, call, back, 1e-9)
}

func TestResolveParity_ExactlyOnePrice(t *testing.T) {
	price := 5.0
	_, _, err := ResolveParity(ParityInputs{S: 100, K: 100, T: 1, R: 0.05})
	require.ErrorIs(t, err, ErrInvalidValue)

	_, _, err = ResolveParity(ParityInputs{S: 100, K: 100, T: 1, R: 0.05, CallPrice: &price, PutPrice: &price})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestParity_Errors(t *testing.T) {
	_, err := PutFromCall(-1, 100, 100, 1, 0.05)
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "call_price", ErrorField(err))

	_, err = CallFromPut(1, 100, -100, 1, 0.05)
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "K", ErrorField(err))

	_, err = CallFromPut(1, 100, 100, 1, math.NaN())
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestParity_Overflow(t *testing.T) {
	_, err := CallFromPut(1.7e308, 1.7e308, 1, 1, 0.05)
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "put_price", ErrorField(err))
}
