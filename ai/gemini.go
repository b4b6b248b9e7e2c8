// Package ai writes the free text of the app: participant commentary and room names.
// Every failure of the text generator is absorbed into a deterministic fallback.
package ai

import (
	"bytes"
	"context"
	"drinkspeed/contract"
	"drinkspeed/errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var _ contract.TextGenerator = (*GeminiClient)(nil)

const (
	requestTemplate = `{"contents":[{"parts":[{"text":""}]}]}`
	promptPath      = "contents.0.parts.0.text"
	answerPath      = "candidates.0.content.parts.0.text"
	errorPath       = "error.message"
	maxResponseSize = 1 << 20
)

// GeminiClient calls the generateContent endpoint of the Gemini API.
type GeminiClient struct {
	url    string
	apiKey string
	http   *http.Client
	log    *slog.Logger
}

func NewGeminiClient(log *slog.Logger, url, apiKey string, httpClient *http.Client) *GeminiClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GeminiClient{url: url, apiKey: apiKey, http: httpClient, log: log}
}

// Generate sends one prompt and returns the first candidate's text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.url == "" {
		return "", errors.ErrGeneratorNotConfigured
	}

	body, err := sjson.SetBytes([]byte(requestTemplate), promptPath, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", errors.ErrDependencyFailure, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrDependencyFailure, err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrDependencyFailure, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", errors.ErrDependencyFailure, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: gemini answered %d: %s",
			errors.ErrDependencyFailure, resp.StatusCode, gjson.GetBytes(payload, errorPath).String())
	}

	answer := gjson.GetBytes(payload, answerPath)
	if !answer.Exists() || answer.Type != gjson.String {
		return "", fmt.Errorf("%w: no candidate text", errors.ErrMalformedOutput)
	}
	c.log.Debug("Gemini answered", "bytes", len(payload))
	return answer.String(), nil
}
