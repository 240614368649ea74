package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticPredictors(t *testing.T) {
	never := NewNeverJump()
	assert.True(t, never.Analyze(100, 50, false))
	assert.False(t, never.Analyze(100, 50, true))

	always := NewAlwaysJump()
	assert.True(t, always.Analyze(100, 50, true))
	assert.False(t, always.Analyze(100, 50, false))

	jitl := NewJumpIfTargetIsLower()
	assert.True(t, jitl.Analyze(100, 50, true))  // target < ip, taken -> hit
	assert.False(t, jitl.Analyze(100, 50, false)) // target < ip, not taken -> miss
	assert.True(t, jitl.Analyze(100, 200, false)) // target >= ip, not taken -> hit
	assert.False(t, jitl.Analyze(100, 200, true)) // target >= ip, taken -> miss
}

func TestOneBitHistory(t *testing.T) {
	p := NewOneBitHistory()

	// default state is T: taken hits, stays T
	assert.True(t, p.Analyze(1, 0, true))
	assert.True(t, p.Analyze(1, 0, true))

	// a miss flips to N
	assert.False(t, p.Analyze(1, 0, false))
	// now predicting not-taken: a not-taken hits
	assert.True(t, p.Analyze(1, 0, false))
}

// S4 — two-bit saturation convergence.
func TestTwoBitSaturation_S4_Convergence(t *testing.T) {
	p := NewTwoBitSaturation()

	for i := 0; i < 10; i++ {
		assert.True(t, p.Analyze(1, 0, true))
	}
	assert.Equal(t, stateT, p.history[1])

	// Four consecutive not-taken: T->t(miss)->n(miss)->N(hit)->N(hit)
	assert.False(t, p.Analyze(1, 0, false)) // T -> t, miss
	assert.Equal(t, statet, p.history[1])
	assert.False(t, p.Analyze(1, 0, false)) // t -> n, miss
	assert.Equal(t, staten, p.history[1])
	assert.True(t, p.Analyze(1, 0, false)) // n -> N, hit
	assert.Equal(t, stateN, p.history[1])
	assert.True(t, p.Analyze(1, 0, false)) // N -> N, hit
	assert.Equal(t, stateN, p.history[1])
}

func TestTwoBitHysteresis_WeakMispredictJumpsToStrongPole(t *testing.T) {
	p := NewTwoBitHysteresis()

	// Drive to state t: T, taken (hit, stays T); then not-taken (miss, -> t)
	assert.True(t, p.Analyze(1, 0, true))
	assert.False(t, p.Analyze(1, 0, false))
	assert.Equal(t, statet, p.history[1])

	// From t, not-taken again: hysteresis jumps straight to N (not n)
	assert.False(t, p.Analyze(1, 0, false))
	assert.Equal(t, stateN, p.history[1])
}

func TestFactory_CanonicalOrder(t *testing.T) {
	set, err := BuildSet(CanonicalOrder)
	assert.NoError(t, err)
	assert.Len(t, set, 6)
}

func TestFactory_UnknownName(t *testing.T) {
	_, err := New("not-a-predictor")
	assert.Error(t, err)
}
