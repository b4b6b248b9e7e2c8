package domain

import (
	"time"

	"github.com/google/uuid"
)

// DrinkRecord is an append-only consumption event.
type DrinkRecord struct {
	ID         uuid.UUID
	UserID     UserID
	Category   Category
	Quantity   int
	Units      float64
	RecordedAt time.Time
}

// ReactionRecord is an append-only reaction-test result.
type ReactionRecord struct {
	ID         uuid.UUID
	UserID     UserID
	LatencyMs  int
	RecordedAt time.Time
}
