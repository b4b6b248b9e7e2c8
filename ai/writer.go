package ai

import (
	"context"
	"drinkspeed/contract"
	"drinkspeed/domain"
	"drinkspeed/errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxCommentaryRunes = 500
	maxRoomNameRunes   = 40
)

// Censor masks forbidden words. Implemented by moderation.Moderator.
type Censor interface {
	Clean(text string) string
}

// Writer turns generator output into publishable text, or into the fallback.
type Writer struct {
	log       *slog.Logger
	generator contract.TextGenerator
	censor    Censor
	timeout   time.Duration
}

func NewWriter(log *slog.Logger, generator contract.TextGenerator, censor Censor, timeout time.Duration) *Writer {
	return &Writer{log: log, generator: generator, censor: censor, timeout: timeout}
}

// Commentary always returns a text: generated when possible, the fallback otherwise.
func (w *Writer) Commentary(ctx context.Context, in CommentaryInput) string {
	lang := LanguageOf(in.Name)
	text, err := w.generate(ctx, CommentaryPrompt(lang, in), maxCommentaryRunes, false)
	if err != nil {
		w.log.Warn("Commentary generation failed, using fallback", "user", in.Name, "lang", lang, "error", err)
		return FallbackCommentary(lang, in)
	}
	return text
}

// RoomName always returns a name: generated when possible, the fallback otherwise.
func (w *Writer) RoomName(ctx context.Context, code domain.RoomCode, lang Language) string {
	text, err := w.generate(ctx, RoomNamePrompt(lang), maxRoomNameRunes, true)
	if err != nil {
		w.log.Warn("Room name generation failed, using fallback", "code", code, "error", err)
		return FallbackRoomName(code)
	}
	return text
}

func (w *Writer) generate(ctx context.Context, prompt string, maxRunes int, firstLine bool) (string, error) {
	if w.generator == nil {
		return "", errors.ErrGeneratorNotConfigured
	}
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	raw, err := w.generator.Generate(ctx, prompt)
	if err != nil {
		if errors.Kind(err) == nil {
			return "", fmt.Errorf("%w: %w", errors.ErrDependencyFailure, err)
		}
		return "", err
	}
	return w.sanitize(raw, maxRunes, firstLine)
}

// sanitize trims quotes and whitespace and rejects empty or oversized output.
func (w *Writer) sanitize(raw string, maxRunes int, firstLine bool) (string, error) {
	text := strings.TrimSpace(raw)
	if firstLine {
		text, _, _ = strings.Cut(text, "\n")
	}
	text = strings.TrimSpace(strings.Trim(text, "\"'`*"))
	n := utf8.RuneCountInString(text)
	if n == 0 || n > maxRunes || !utf8.ValidString(text) {
		return "", fmt.Errorf("%w: %d runes", errors.ErrMalformedOutput, n)
	}
	if w.censor != nil {
		text = w.censor.Clean(text)
	}
	return text, nil
}
