package domain

import "time"

// RoomCode is the short code participants type to join a room.
type RoomCode string

type RoomStatus int

const (
	RoomOpen RoomStatus = iota
	RoomEnded
)

func (s RoomStatus) String() string {
	switch s {
	case RoomOpen:
		return "OPEN"
	case RoomEnded:
		return "ENDED"
	default:
		return "UNKNOWN"
	}
}

// Room is a bounded drinking session. Once ended it only accepts reads.
type Room struct {
	Code      RoomCode
	Name      string
	CreatedAt time.Time
	EndedAt   *time.Time
	Status    RoomStatus
}

func NewRoom(code RoomCode, name string, at time.Time) Room {
	return Room{Code: code, Name: name, CreatedAt: at, Status: RoomOpen}
}

func (r Room) IsEnded() bool {
	return r.Status == RoomEnded
}

// End stamps the room as ended. It returns false and changes nothing when already ended.
func (r *Room) End(at time.Time) bool {
	if r.IsEnded() {
		return false
	}
	r.Status = RoomEnded
	r.EndedAt = &at
	return true
}
