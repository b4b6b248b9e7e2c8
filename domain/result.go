package domain

// RankEntry is one line of a room ranking.
type RankEntry struct {
	UserID      UserID  `json:"userId"`
	UserName    string  `json:"userName"`
	Rank        int     `json:"rank"`
	Score       float64 `json:"score"`
	RatePerHour float64 `json:"glassPerHour"`
	TotalUnits  float64 `json:"totalSojuEquivalent"`
	Tier        Tier    `json:"characterLevel"`
	Finished    bool    `json:"isFinished"`
}

type CreateRoomResult struct {
	Room Room
	Host User
}

type JoinRoomResult struct {
	Room Room
	User User
}

type DrinkResult struct {
	Record DrinkRecord
	User   User
}

type FinishResult struct {
	User        User
	RoomEnded   bool
	RatePerHour float64
}

type RoomInfo struct {
	Room             Room
	ParticipantCount int
	ActiveCount      int
}

// UserResult is the personal result screen of a participant.
type UserResult struct {
	User              User
	Rank              int
	Score             float64
	RatePerHour       float64
	Tier              Tier
	GlassesByCategory map[Category]int
	AverageReactionMs *float64
}

type ReactionResult struct {
	Record ReactionRecord
	User   User
}

type EndRoomResult struct {
	Room    Room
	Changed bool
}
