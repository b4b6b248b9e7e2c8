package ai

import (
	"context"
	"drinkspeed/domain"
	"drinkspeed/mocks"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type wordCensor struct{}

func (wordCensor) Clean(text string) string { return strings.ReplaceAll(text, "jerk", "****") }

var mina = CommentaryInput{
	Name:        "Mina",
	Elapsed:     90 * time.Minute,
	TotalUnits:  4.5,
	RatePerHour: 3,
	Tier:        domain.TierHumanAlcohol,
	Rank:        1,
}

func TestWriter_Commentary_Uses_Generated_Text(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)
	writer := NewWriter(logs.GetLoggerFromLevel(slog.LevelDebug), generator, wordCensor{}, time.Second)

	// Given a generator answering with padding and a forbidden word
	generator.EXPECT().Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, prompt string) (string, error) {
			_, hasDeadline := ctx.Deadline()
			req.True(hasDeadline)
			req.Contains(prompt, "Mina")
			return "  \"What a jerk of a champion!\"  ", nil
		})

	// Then the text is trimmed and censored
	req.Equal("What a **** of a champion!", writer.Commentary(context.Background(), mina))
}

func TestWriter_Commentary_Falls_Back(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
	}{
		{name: "generator error", err: fmt.Errorf("connection refused")},
		{name: "empty output", answer: "   "},
		{name: "oversized output", answer: strings.Repeat("a", maxCommentaryRunes+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			ctrl := gomock.NewController(t)
			generator := mocks.NewMockTextGenerator(ctrl)
			writer := NewWriter(logs.GetLoggerFromLevel(slog.LevelDebug), generator, nil, time.Second)
			generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(tt.answer, tt.err)

			text := writer.Commentary(context.Background(), mina)

			req.Equal("Mina! You enjoyed 1h 30m and drank 4.5 soju-equivalent glasses.", text)
		})
	}
}

func TestWriter_Commentary_Times_Out(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)
	writer := NewWriter(logs.GetLoggerFromLevel(slog.LevelDebug), generator, nil, 20*time.Millisecond)

	// Given a generator that never answers in time
	generator.EXPECT().Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})

	// Then the fallback is used
	req.Equal(FallbackCommentary(English, mina), writer.Commentary(context.Background(), mina))
}

func TestWriter_Without_Generator(t *testing.T) {
	req := require.New(t)
	writer := NewWriter(logs.GetLoggerFromLevel(slog.LevelDebug), nil, nil, time.Second)

	korean := mina
	korean.Name = "김민수"
	korean.Elapsed = 5*time.Minute + 3*time.Second

	req.Equal("김민수님! 총 5분 3초 동안 4.5잔 즐기셨네요.", writer.Commentary(context.Background(), korean))
	req.Equal(FallbackRoomName("0420"), writer.RoomName(context.Background(), "0420", Korean))
}

func TestWriter_RoomName_Keeps_First_Line(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	generator := mocks.NewMockTextGenerator(ctrl)
	writer := NewWriter(logs.GetLoggerFromLevel(slog.LevelDebug), generator, nil, time.Second)
	generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("**Soju Saturday**\nHope you like it!", nil)

	req.Equal("Soju Saturday", writer.RoomName(context.Background(), "0420", English))
}

func TestFallbackRoomName_Is_Stable(t *testing.T) {
	req := require.New(t)
	req.Equal(FallbackRoomName("1234"), FallbackRoomName("1234"))
	req.Contains(fallbackRoomNames, FallbackRoomName("9876"))
}

func TestLanguageOf(t *testing.T) {
	req := require.New(t)
	req.Equal(Korean, LanguageOf("김민수"))
	req.Equal(English, LanguageOf("Mina"))
	req.Equal(English, LanguageOf(""))
}

func TestFormatDuration(t *testing.T) {
	req := require.New(t)
	req.Equal("42s", formatDuration(English, 42*time.Second))
	req.Equal("2m 05s", formatDuration(English, 125*time.Second))
	req.Equal("1h 00m", formatDuration(English, time.Hour))
	req.Equal("1시간 30분", formatDuration(Korean, 90*time.Minute))
}
