package extraction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConfidence(t *testing.T) {
	tests := []struct {
		score       float64
		wantPercent int
		wantTier    Tier
	}{
		{score: 0.71, wantPercent: 71, wantTier: TierHigh},
		{score: 0.70, wantPercent: 70, wantTier: TierMedium},
		{score: 0.41, wantPercent: 41, wantTier: TierMedium},
		{score: 0.40, wantPercent: 40, wantTier: TierLow},
		{score: 0, wantPercent: 0, wantTier: TierLow},
		{score: 1, wantPercent: 100, wantTier: TierHigh},
		{score: 0.556, wantPercent: 56, wantTier: TierMedium},
		{score: 0.9, wantPercent: 90, wantTier: TierHigh},
		{score: 0.2, wantPercent: 20, wantTier: TierLow},
	}

	for _, tt := range tests {
		got, err := RenderConfidence(tt.score)
		require.NoError(t, err, "score %v", tt.score)
		assert.Equal(t, tt.wantPercent, got.Percent, "percent for %v", tt.score)
		assert.Equal(t, tt.wantTier, got.Tier, "tier for %v", tt.score)
		assert.Equal(t, tt.score, got.Score)
	}
}

func TestRenderConfidence_RejectsOutOfRange(t *testing.T) {
	for _, score := range []float64{-0.01, 1.01, math.NaN(), math.Inf(1)} {
		_, err := RenderConfidence(score)
		assert.ErrorIs(t, err, ErrScoreOutOfRange, "score %v", score)
	}
}

func TestTierColor(t *testing.T) {
	assert.Equal(t, "#4CAF50", TierHigh.Color())
	assert.Equal(t, "#FFA726", TierMedium.Color())
	assert.Equal(t, "#EF5350", TierLow.Color())
}
