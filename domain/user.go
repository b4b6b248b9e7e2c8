package domain

import "time"

type UserID string

// Tier is the drinking level derived from a participant's rate per hour.
type Tier int

const (
	TierPondDiver Tier = iota
	TierTipsySquirrel
	TierWalletKeeper
	TierWhaleCadet
	TierHumanAlcohol
)

// TierCount is the size of the closed tier ladder.
const TierCount = 5

var tierNames = [TierCount]string{
	"Pond Diver",
	"Tipsy Squirrel",
	"Wallet Keeper",
	"Whale Cadet",
	"Human Alcohol",
}

func (t Tier) String() string {
	if t < 0 || int(t) >= TierCount {
		return "Unknown"
	}
	return tierNames[t]
}

// User is a participant of exactly one room.
// TotalUnits never decreases and FinishedAt is stamped at most once.
type User struct {
	ID         UserID
	Name       string
	RoomCode   RoomCode
	JoinedAt   time.Time
	FinishedAt *time.Time
	TotalUnits float64
	Tier       *Tier
	Rank       *int
	Commentary *string
}

func (u User) IsFinished() bool {
	return u.FinishedAt != nil
}

// Elapsed is the session duration, from join until finish or now.
func (u User) Elapsed(now time.Time) time.Duration {
	end := now
	if u.FinishedAt != nil {
		end = *u.FinishedAt
	}
	if end.Before(u.JoinedAt) {
		return 0
	}
	return end.Sub(u.JoinedAt)
}
