package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniform_DensityAndSupport(t *testing.T) {
	u, err := NewUniform(0, 4, 1)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, u.Density(1.3), 1e-12)
	assert.Equal(t, 0.0, u.Density(-0.1))
	assert.Equal(t, 0.0, u.Density(4.1))

	lo, hi := u.Support()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestUniform_SamplesInRange(t *testing.T) {
	u, err := NewUniform(-2, 3, 7)
	require.NoError(t, err)

	sum := 0.0
	const n = 50000
	for i := 0; i < n; i++ {
		x := u.Sample()
		require.True(t, InSupport(u, x), "sample %v outside support", x)
		sum += x
	}
	assert.InDelta(t, 0.5, sum/n, 0.05)
}

func TestUniform_Invalid(t *testing.T) {
	_, err := NewUniform(1, 1, 0)
	assert.Error(t, err)
	_, err = NewUniform(2, 1, 0)
	assert.Error(t, err)
	_, err = NewUniform(math.Inf(-1), 1, 0)
	assert.Error(t, err)
}

func TestSeed_Reproducible(t *testing.T) {
	a, err := NewUniform(0, 1, 5)
	require.NoError(t, err)
	b, err := NewUniform(0, 1, 999)
	require.NoError(t, err)

	b.Seed(5)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Sample(), b.Sample())
	}
}

func TestNormal_Density(t *testing.T) {
	n, err := NewNormal(0, 1, 3)
	require.NoError(t, err)

	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), n.Density(0), 1e-12)
	assert.InDelta(t, 0.5, n.CDF(0), 1e-12)
	assert.True(t, InSupport(n, -1e9))

	_, err = NewNormal(0, 0, 0)
	assert.Error(t, err)
}

func TestExponential_Density(t *testing.T) {
	e, err := NewExponential(2, 3)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, e.Density(0), 1e-12)
	assert.Equal(t, 0.0, e.Density(-1))
	assert.False(t, InSupport(e, -0.5))
	for i := 0; i < 1000; i++ {
		require.GreaterOrEqual(t, e.Sample(), 0.0)
	}

	_, err = NewExponential(-1, 0)
	assert.Error(t, err)
}

func TestNew_ByKind(t *testing.T) {
	tests := []struct {
		kind    Kind
		params  Params
		wantErr bool
	}{
		{KindUniform, Params{Min: 0, Max: 4}, false},
		{"UNIFORM", Params{Min: 0, Max: 4}, false},
		{KindNormal, Params{Mu: 1, Sigma: 2}, false},
		{KindExponential, Params{Rate: 0.5}, false},
		{KindExponential, Params{}, true},
		{"cauchy", Params{}, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d, err := New(tt.kind, tt.params, 1)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, d)
			_, ok := d.(Seeder)
			assert.True(t, ok, "built-in proposals are reseedable")
		})
	}
}

func TestInSupport_NonFinite(t *testing.T) {
	u, err := NewUniform(0, 1, 1)
	require.NoError(t, err)

	assert.False(t, InSupport(u, math.NaN()))
	assert.False(t, InSupport(u, math.Inf(1)))
}
