package ai

import (
	"context"
	"drinkspeed/errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestGeminiClient_Generate(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	var gotKey, gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotKey = r.URL.Query().Get("key")
		gotPrompt = gjson.GetBytes(body, "contents.0.parts.0.text").String()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Soju Squad"}]}}]}`))
	}))
	defer server.Close()

	// Given a configured client
	client := NewGeminiClient(log, server.URL, "secret", server.Client())

	// When generating
	text, err := client.Generate(context.Background(), `name "this" room`)

	// Then the prompt is sent and the first candidate returned
	req.NoError(err)
	req.Equal("Soju Squad", text)
	req.Equal("secret", gotKey)
	req.Equal(`name "this" room`, gotPrompt)
}

func TestGeminiClient_Failures(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	tests := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":{"message":"boom"}}`, expected: errors.ErrDependencyFailure},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, expected: errors.ErrMalformedOutput},
		{name: "not json", status: http.StatusOK, body: `<html>`, expected: errors.ErrMalformedOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewGeminiClient(log, server.URL, "secret", server.Client()).Generate(context.Background(), "hi")

			req.ErrorIs(err, tt.expected)
			req.ErrorIs(err, errors.ErrDependencyFailure)
		})
	}
}

func TestGeminiClient_Not_Configured(t *testing.T) {
	req := require.New(t)
	client := NewGeminiClient(logs.GetLoggerFromLevel(slog.LevelDebug), "http://unused", "", nil)

	_, err := client.Generate(context.Background(), "hi")

	req.ErrorIs(err, errors.ErrGeneratorNotConfigured)
}
