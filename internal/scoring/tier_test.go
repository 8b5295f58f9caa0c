package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  Tier
	}{
		{100, TierHot},
		{80, TierHot},
		{79, TierWarm},
		{50, TierWarm},
		{49, TierLukewarm},
		{20, TierLukewarm},
		{19, TierCold},
		{0, TierCold},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %d", tt.score)
	}
}

func TestTierHorizons(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TierHot.Horizon())
	assert.Equal(t, 72*time.Hour, TierWarm.Horizon())
	assert.Equal(t, 120*time.Hour, TierLukewarm.Horizon())
	assert.Equal(t, 168*time.Hour, TierCold.Horizon())
}

func TestParseTier(t *testing.T) {
	got, ok := ParseTier("hot")
	assert.True(t, ok)
	assert.Equal(t, TierHot, got)

	got, ok = ParseTier(" Warm ")
	assert.True(t, ok)
	assert.Equal(t, TierWarm, got)

	_, ok = ParseTier("auto")
	assert.False(t, ok)

	_, ok = ParseTier("")
	assert.False(t, ok)
}

func TestTierLabel(t *testing.T) {
	assert.Equal(t, "Hot", TierHot.Label())
	assert.Equal(t, "Lukewarm", TierLukewarm.Label())
}
