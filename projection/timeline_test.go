package projection

import (
	"context"
	"drinkspeed/domain"
	"drinkspeed/domain/event"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeline_Consume_Keeps_Room_History(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()

	// Given events of two rooms
	req.NoError(timeline.Consume(ctx, event.UserJoined{Room: "1111", UserName: "Alice"}))
	req.NoError(timeline.Consume(ctx, event.DrinkAdded{Room: "1111", UserName: "Alice", Quantity: 2}))
	req.NoError(timeline.Consume(ctx, event.UserJoined{Room: "2222", UserName: "Bob"}))

	// Then each room keeps its own events in order
	recent := timeline.Recent("1111")
	req.Len(recent, 2)
	req.Equal(event.KindJoin, recent[0].Kind())
	req.Equal(event.KindDrink, recent[1].Kind())
	req.Len(timeline.Recent("2222"), 1)
	req.Nil(timeline.Recent("3333"))
}

func TestTimeline_Keeps_Latest_Ranking(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()

	_, ok := timeline.LatestRanking("1111")
	req.False(ok)

	first := []domain.RankEntry{{UserID: "a", Rank: 1}}
	second := []domain.RankEntry{{UserID: "b", Rank: 1}, {UserID: "a", Rank: 2}}
	req.NoError(timeline.Consume(ctx, event.RankingUpdated{Room: "1111", Entries: first}))
	req.NoError(timeline.Consume(ctx, event.RankingUpdated{Room: "1111", Entries: second}))

	latest, ok := timeline.LatestRanking("1111")
	req.True(ok)
	req.Equal(second, latest)
	req.Empty(timeline.Recent("1111"))
}

func TestTimeline_Is_Bounded(t *testing.T) {
	req := require.New(t)
	timeline := NewTimelineWithCapacity(3)

	for i := 1; i <= 5; i++ {
		req.NoError(timeline.Consume(context.Background(), event.ReactionRecorded{Room: "1111", LatencyMs: i * 100}))
	}

	recent := timeline.Recent("1111")
	req.Len(recent, 3)
	req.Equal(300, recent[0].(event.ReactionRecorded).LatencyMs)
	req.Equal(500, recent[2].(event.ReactionRecorded).LatencyMs)
}

func TestTimeline_Drops_Ended_Rooms(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()

	// Given two rooms with history
	req.NoError(timeline.Consume(ctx, event.UserJoined{Room: "1111", UserName: "Alice"}))
	req.NoError(timeline.Consume(ctx, event.RankingUpdated{Room: "1111", Entries: []domain.RankEntry{{UserID: "a", Rank: 1}}}))
	req.NoError(timeline.Consume(ctx, event.UserJoined{Room: "2222", UserName: "Bob"}))
	req.Equal(2, timeline.Rooms())

	// When the first room ends and a late ranking follows
	req.NoError(timeline.Consume(ctx, event.RoomEnded{Room: "1111"}))
	req.NoError(timeline.Consume(ctx, event.RankingUpdated{Room: "1111", Entries: []domain.RankEntry{{UserID: "a", Rank: 1}}}))

	// Then only the open room is held
	req.Equal(1, timeline.Rooms())
	req.Nil(timeline.Recent("1111"))
	_, ok := timeline.LatestRanking("1111")
	req.False(ok)
	req.Len(timeline.Recent("2222"), 1)
}
