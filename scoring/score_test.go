package scoring

import (
	"drinkspeed/domain"
	"drinkspeed/errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRatePerHour_Thirty_Minutes(t *testing.T) {
	req := require.New(t)

	// Given 2 soju after 30 minutes
	rate := RatePerHour(2, 30*time.Minute)

	// Then the rate is 4 glasses per hour
	req.InDelta(4.0, rate, 1e-9)
}

func TestRatePerHour_Floors_Denominator(t *testing.T) {
	req := require.New(t)

	for _, elapsed := range []time.Duration{0, time.Second, time.Minute, 5*time.Minute + 59*time.Second, -time.Hour} {
		// Whatever how recent the join is, never divide by less than 6 minutes
		req.InDelta(10.0, RatePerHour(1, elapsed), 1e-9, elapsed.String())
	}
	req.InDelta(10.0, RatePerHour(1, 6*time.Minute), 1e-9)
	req.InDelta(5.0, RatePerHour(1, 12*time.Minute), 1e-9)
}

func TestCompositeScore(t *testing.T) {
	req := require.New(t)

	tests := []struct {
		name     string
		units    float64
		avg      *float64
		expected float64
	}{
		{"no reaction", 10, nil, 7.0},
		{"zero reaction is ignored", 10, lo.ToPtr(0.0), 7.0},
		{"saturated bonus", 0, lo.ToPtr(500.0), 3.0},
		{"faster than baseline is capped", 0, lo.ToPtr(200.0), 3.0},
		{"mid reaction", 1, lo.ToPtr(1250.0), 0.7 + 5*0.3},
		{"slow reaction", 2, lo.ToPtr(2000.0), 1.4},
		{"very slow reaction", 2, lo.ToPtr(4000.0), 1.4},
	}
	for _, tt := range tests {
		req.InDelta(tt.expected, CompositeScore(tt.units, tt.avg), 1e-9, tt.name)
	}
}

func TestCompositeScore_Is_Monotonic_In_Units(t *testing.T) {
	req := require.New(t)

	for _, avg := range []*float64{nil, lo.ToPtr(300.0), lo.ToPtr(900.0), lo.ToPtr(3000.0)} {
		previous := CompositeScore(0, avg)
		for units := 0.1; units < 20; units += 0.35 {
			score := CompositeScore(units, avg)
			req.GreaterOrEqual(score, previous)
			previous = score
		}
	}
}

func TestTiers_Default_Ladder(t *testing.T) {
	req := require.New(t)
	tiers := DefaultTiers()

	tests := []struct {
		rate     float64
		expected domain.Tier
	}{
		{-1, domain.TierPondDiver},
		{0, domain.TierPondDiver},
		{0.01, domain.TierTipsySquirrel},
		{0.99, domain.TierTipsySquirrel},
		{1, domain.TierWalletKeeper},
		{2, domain.TierWhaleCadet},
		{2.99, domain.TierWhaleCadet},
		{3, domain.TierHumanAlcohol},
		{42, domain.TierHumanAlcohol},
	}
	for _, tt := range tests {
		req.Equal(tt.expected, tiers.Level(tt.rate), "rate %v", tt.rate)
	}
}

func TestNewTiers(t *testing.T) {
	req := require.New(t)

	tiers, err := NewTiers(0.5, 2, 4, 8)
	req.NoError(err)
	req.Equal([]float64{0.5, 2, 4, 8}, tiers.Boundaries())
	req.Equal(domain.TierPondDiver, tiers.Level(0.5))
	req.Equal(domain.TierTipsySquirrel, tiers.Level(1))
	req.Equal(domain.TierHumanAlcohol, tiers.Level(8))

	_, err = NewTiers(0, 1, 1, 3)
	req.ErrorIs(err, errors.ErrInvalidTiers)

	_, err = NewTiers(0, 1, 2)
	req.ErrorIs(err, errors.ErrInvalidArgument)
}
