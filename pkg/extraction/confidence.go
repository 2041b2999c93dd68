package extraction

import (
	"errors"
	"fmt"
	"math"
)

// Tier classifies a confidence score for display.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Color is the bar color used for the tier.
func (t Tier) Color() string {
	switch t {
	case TierHigh:
		return "#4CAF50"
	case TierMedium:
		return "#FFA726"
	default:
		return "#EF5350"
	}
}

// ConfidenceView is a score ready to render as a bar.
type ConfidenceView struct {
	Score   float64
	Percent int
	Tier    Tier
}

// ErrScoreOutOfRange is returned for scores outside [0,1] or NaN.
var ErrScoreOutOfRange = errors.New("confidence score out of range [0,1]")

// RenderConfidence converts a score to a rounded percentage and a tier:
// above 0.7 is high, above 0.4 is medium, anything else is low.
// Scores outside [0,1] are rejected, not clamped.
func RenderConfidence(score float64) (ConfidenceView, error) {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return ConfidenceView{}, fmt.Errorf("%w: %v", ErrScoreOutOfRange, score)
	}

	tier := TierLow
	switch {
	case score > 0.7:
		tier = TierHigh
	case score > 0.4:
		tier = TierMedium
	}

	return ConfidenceView{
		Score:   score,
		Percent: int(math.Round(score * 100)),
		Tier:    tier,
	}, nil
}
