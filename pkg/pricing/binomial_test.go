package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func atmCall(n int) PricingParameters {
	return PricingParameters{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2, N: n, Type: Call}
}

func TestBinomial_OneStepBoundary(t *testing.T) {
	// N=1, r=0: 只有两个终端节点，可以手算
	params := PricingParameters{S: 100, K: 100, T: 1, R: 0, Sigma: 0.2, N: 1, Type: Call}

	u := math.Exp(0.2)
	d := 1 / u
	p := (1 - d) / (u - d)
	want := p * (100*u - 100)

	got, err := BinomialPrice(params)
	require.NoError(t, err)
	if !almostEqual(got, want, 1e-12) {
		t.Fatalf("one-step price mismatch: got=%v want=%v", got, want)
	}
	assert.InDelta(t, 9.9668, got, 1e-4)
}

func TestBinomial_ConvergesToBlackScholes(t *testing.T) {
	for _, typ := range []OptionType{Call, Put} {
		t.Run(typ.String(), func(t *testing.T) {
			params := atmCall(1000)
			params.Type = typ

			lattice, err := BinomialPrice(params)
			require.NoError(t, err)
			closed, err := BlackScholesPrice(params)
			require.NoError(t, err)

			rel := math.Abs(lattice-closed) / closed
			if rel > 0.01 {
				t.Fatalf("N=1000 too far from closed form: lattice=%v bs=%v rel=%v", lattice, closed, rel)
			}
		})
	}
}

func TestBinomial_CallMonotoneInSpot(t *testing.T) {
	prev := -1.0
	for s := 60.0; s <= 140; s += 5 {
		params := atmCall(100)
		params.S = s
		price, err := BinomialPrice(params)
		require.NoError(t, err)
		if price < prev-1e-12 {
			t.Fatalf("call price decreased at S=%v: %v < %v", s, price, prev)
		}
		prev = price
	}
}

func TestBinomial_CallMonotoneInSigma(t *testing.T) {
	prev := -1.0
	for _, sigma := range []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6} {
		params := atmCall(100)
		params.Sigma = sigma
		price, err := BinomialPrice(params)
		require.NoError(t, err)
		if price <= prev {
			t.Fatalf("call price not increasing at sigma=%v: %v <= %v", sigma, price, prev)
		}
		prev = price
	}
}

func TestBinomial_PutNonNegativeAndBounded(t *testing.T) {
	params := atmCall(200)
	params.Type = Put
	params.S = 150

	price, err := BinomialPrice(params)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, price, 0.0)
	assert.LessOrEqual(t, price, params.K)
}

func TestBinomial_Idempotent(t *testing.T) {
	params := atmCall(500)
	first, err := BinomialPrice(params)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := BinomialPrice(params)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestBinomial_Degenerate(t *testing.T) {
	t.Run("zero sigma", func(t *testing.T) {
		params := atmCall(10)
		params.Sigma = 0
		_, err := BinomialPrice(params)
		require.ErrorIs(t, err, ErrModelDegenerate)
		assert.Equal(t, "sigma", ErrorField(err))
	})

	t.Run("probability above one", func(t *testing.T) {
		params := PricingParameters{S: 100, K: 100, T: 1, R: 0.5, Sigma: 0.01, N: 1, Type: Call}
		_, err := BinomialPrice(params)
		require.ErrorIs(t, err, ErrModelDegenerate)
		assert.Equal(t, "model_degenerate", ErrorKind(err))
	})
}

func TestBinomial_InvalidParameters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *PricingParameters)
		kind   error
		field  string
	}{
		{"negative spot", func(p *PricingParameters) { p.S = -1 }, ErrInvalidValue, "S"},
		{"zero strike", func(p *PricingParameters) { p.K = 0 }, ErrInvalidValue, "K"},
		{"zero maturity", func(p *PricingParameters) { p.T = 0 }, ErrInvalidValue, "T"},
		{"nan rate", func(p *PricingParameters) { p.R = math.NaN() }, ErrInvalidType, "r"},
		{"negative sigma", func(p *PricingParameters) { p.Sigma = -0.1 }, ErrInvalidValue, "sigma"},
		{"zero steps", func(p *PricingParameters) { p.N = 0 }, ErrInvalidValue, "N"},
		{"missing option type", func(p *PricingParameters) { p.Type = 0 }, ErrInvalidValue, "option_type"},
		{"infinite spot", func(p *PricingParameters) { p.S = math.Inf(1) }, ErrInvalidType, "S"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := atmCall(10)
			tc.mutate(&params)
			_, err := BinomialPrice(params)
			require.Error(t, err)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("want %v, got %v", tc.kind, err)
			}
			assert.Equal(t, tc.field, ErrorField(err))
		})
	}
}

func TestBinomial_NegativeRateAllowed(t *testing.T) {
	params := atmCall(100)
	params.R = -0.01
	price, err := BinomialPrice(params)
	require.NoError(t, err)
	assert.Greater(t, price, 0.0)
}

func TestBinomial_StepsCapped(t *testing.T) {
	_, err := BinomialPrice(atmCall(MaxSteps + 1))
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "N", ErrorField(err))

	_, err = BinomialPrice(atmCall(2_000_000_000))
	require.ErrorIs(t, err, ErrInvalidValue)
}
