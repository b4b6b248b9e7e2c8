package domain

// Command is a mutation request handled by the coordinator's worker pool.
type Command interface {
	Name() string
}

type CreateRoomCommand struct {
	RoomName string
	HostName string
}

type JoinRoomCommand struct {
	RoomCode RoomCode
	UserName string
}

type AddDrinkCommand struct {
	UserID   UserID
	Category Category
	Quantity int
}

type RecordReactionCommand struct {
	UserID    UserID
	LatencyMs int
}

type FinishCommand struct {
	UserID UserID
}

type EndRoomCommand struct {
	RoomCode RoomCode
}

func (CreateRoomCommand) Name() string     { return "create_room" }
func (JoinRoomCommand) Name() string       { return "join_room" }
func (AddDrinkCommand) Name() string       { return "add_drink" }
func (RecordReactionCommand) Name() string { return "record_reaction" }
func (FinishCommand) Name() string         { return "finish" }
func (EndRoomCommand) Name() string        { return "end_room" }
