// Package scoring holds the pure formulas behind rates, tiers and ranking scores.
package scoring

import (
	"drinkspeed/domain"
	"drinkspeed/errors"
	"fmt"
	"math"
	"time"
)

// MinHours floors the rate denominator so that a participant who just joined
// cannot spike to an absurd rate after a single glass.
const MinHours = 0.1

const (
	drinkWeight         = 0.7
	reactionWeight      = 0.3
	maxReactionScore    = 10.0
	reactionBaselineMs  = 500.0
	reactionMsPerPoint  = 150.0
	boundaryCount       = domain.TierCount - 1
	defaultBoundaryStep = 1.0
)

// RatePerHour returns soju-equivalent glasses per hour over the elapsed duration.
func RatePerHour(units float64, elapsed time.Duration) float64 {
	hours := elapsed.Hours()
	if hours < MinHours {
		hours = MinHours
	}
	return units / hours
}

// CompositeScore weights consumption against reaction speed.
// avgReactionMs is nil when the participant never took a reaction test.
func CompositeScore(units float64, avgReactionMs *float64) float64 {
	drinkScore := units * drinkWeight
	reactionScore := 0.0
	if avgReactionMs != nil && *avgReactionMs > 0 {
		reactionScore = maxReactionScore - (*avgReactionMs-reactionBaselineMs)/reactionMsPerPoint
		reactionScore = math.Max(0, math.Min(maxReactionScore, reactionScore))
	}
	return drinkScore + reactionScore*reactionWeight
}

// Tiers maps a rate per hour onto the 5-level ladder.
// The first boundary is exclusive (a rate equal to it stays at level 0),
// the three others are inclusive.
type Tiers struct {
	boundaries [boundaryCount]float64
}

// DefaultTiers is the historical ladder: >0, >=1, >=2, >=3 glasses per hour.
func DefaultTiers() Tiers {
	var t Tiers
	for i := range t.boundaries {
		t.boundaries[i] = float64(i) * defaultBoundaryStep
	}
	return t
}

// NewTiers builds a ladder from strictly increasing boundaries.
func NewTiers(boundaries ...float64) (Tiers, error) {
	if len(boundaries) != boundaryCount {
		return Tiers{}, fmt.Errorf("%w: want %d boundaries, got %d",
			errors.ErrInvalidTiers, boundaryCount, len(boundaries))
	}
	var t Tiers
	for i, b := range boundaries {
		if math.IsNaN(b) || (i > 0 && b <= boundaries[i-1]) {
			return Tiers{}, fmt.Errorf("%w: %v", errors.ErrInvalidTiers, boundaries)
		}
		t.boundaries[i] = b
	}
	return t, nil
}

func (t Tiers) Boundaries() []float64 {
	return t.boundaries[:]
}

func (t Tiers) Level(rate float64) domain.Tier {
	if rate <= t.boundaries[0] {
		return domain.TierPondDiver
	}
	level := 1
	for _, b := range t.boundaries[1:] {
		if rate >= b {
			level++
		}
	}
	return domain.Tier(level)
}
