package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, 5, 17, 21, 0, 0, 0, time.UTC)

const time1h = time.Hour

func TestUser_Elapsed(t *testing.T) {
	req := require.New(t)
	user := User{JoinedAt: fixedTime}

	// Given an active user, elapsed runs until now
	req.Equal(30*time.Minute, user.Elapsed(fixedTime.Add(30*time.Minute)))

	// Given a finished user, elapsed stops at the finish stamp
	finished := fixedTime.Add(45 * time.Minute)
	user.FinishedAt = &finished
	req.True(user.IsFinished())
	req.Equal(45*time.Minute, user.Elapsed(fixedTime.Add(3*time.Hour)))
}

func TestTier_String(t *testing.T) {
	req := require.New(t)
	req.Equal("Pond Diver", TierPondDiver.String())
	req.Equal("Human Alcohol", TierHumanAlcohol.String())
	req.Equal("Unknown", Tier(7).String())
}
