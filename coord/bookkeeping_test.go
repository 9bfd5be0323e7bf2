package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGapLengthIdentity(t *testing.T) {
	lMax := Position{Mean: 100, Variance: 10}
	rMin := Position{Mean: 180, Variance: 25}

	gap, err := GapLength(lMax, rMin)
	require.NoError(t, err)
	assert.Equal(t, 80.0, gap.Mean)
	assert.Equal(t, 15.0, gap.Variance)
	assert.GreaterOrEqual(t, gap.Variance, 0.0)
}

func TestGapLengthNegativeVarianceHalts(t *testing.T) {
	lMax := Position{Mean: 100, Variance: 50}
	rMin := Position{Mean: 180, Variance: 25}

	_, err := GapLength(lMax, rMin)
	require.Error(t, err)
}

type fakeEnd struct {
	a, b Position
}

func (f *fakeEnd) Ends() (Position, Position) { return f.a, f.b }
func (f *fakeEnd) SetEnds(a, b Position)       { f.a, f.b = a, b }

func TestForceIncreasingVariancesMonotonic(t *testing.T) {
	c1 := &fakeEnd{a: Position{0, 5}, b: Position{100, 20}}
	c2 := &fakeEnd{a: Position{110, 10}, b: Position{200, 30}} // min (10) < prev max (20): violated
	c3 := &fakeEnd{a: Position{210, 40}, b: Position{300, 50}}

	contigs := []EndPositions{c1, c2, c3}
	require.NoError(t, ForceIncreasingVariances(contigs))

	for i := 1; i < len(contigs); i++ {
		pa, pb := contigs[i-1].Ends()
		prevMax := pa.Variance
		if pb.Variance > prevMax {
			prevMax = pb.Variance
		}
		a, b := contigs[i].Ends()
		curMin := a.Variance
		if b.Variance < curMin {
			curMin = b.Variance
		}
		assert.GreaterOrEqual(t, curMin, prevMax-Epsilon)
	}
}

func TestWithinSigma(t *testing.T) {
	a := Position{Mean: 100, Variance: 4}
	b := Position{Mean: 103, Variance: 4}
	assert.True(t, WithinSigma(a, b, 5))

	c := Position{Mean: 200, Variance: 4}
	assert.False(t, WithinSigma(a, c, 5))
}

func TestClampVariance(t *testing.T) {
	assert.Equal(t, 1.0, ClampVariance(0.2, 1.0))
	assert.Equal(t, 2.0, ClampVariance(2.0, 1.0))
}

func TestPropagateDelta(t *testing.T) {
	c1 := &fakeEnd{a: Position{0, 5}, b: Position{100, 20}}
	c2 := &fakeEnd{a: Position{110, 10}, b: Position{200, 30}}
	rv := 10.0
	PropagateDelta([]EndPositions{c1, c2}, []*float64{&rv}, Delta{Mean: 50, Variance: 5})

	a, b := c1.Ends()
	assert.Equal(t, Position{50, 10}, a)
	assert.Equal(t, Position{150, 25}, b)
	assert.Equal(t, 15.0, rv)
}
