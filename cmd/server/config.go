package main

import (
	"drinkspeed/scoring"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BufferSize           int           `env:"BUFFER_SIZE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=1024"`
	NumberOfWorkers      int           `env:"NUMBER_OF_WORKERS,required=true"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,required=true"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=0s"`
	LowCapacityThreshold float64       `env:"LOW_CAPACITY_THRESHOLD,default=0.8"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	HealthPort           int           `env:"HEALTH_PORT,default=8081"`
	EnrichmentWorkers    int           `env:"ENRICHMENT_WORKERS,default=2"`
	EnrichmentBufferSize int           `env:"ENRICHMENT_BUFFER_SIZE,default=64"`
	EnrichmentTimeout    time.Duration `env:"ENRICHMENT_TIMEOUT,default=10s"`
	GeminiAPIURL         string        `env:"GEMINI_API_URL,default=https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"`
	GeminiAPIKey         string        `env:"GEMINI_API_KEY"`
	TierBoundaries       string        `env:"TIER_BOUNDARIES"`
	RejectAfterFinish    bool          `env:"REJECT_AFTER_FINISH,default=false"`
	ReactionGameEnabled  bool          `env:"REACTION_GAME_ENABLED,default=false"`
	ReactionGameInterval time.Duration `env:"REACTION_GAME_INTERVAL,default=30m"`
}

func (c Config) CharacterRune() (rune, error) {
	r := []rune(c.CharReplacement)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			c.CharReplacement,
		)
	}
	return r[0], nil
}

// Tiers parses TIER_BOUNDARIES, e.g. "0,5,10,20". Empty keeps the default ladder.
func (c Config) Tiers() (scoring.Tiers, error) {
	if strings.TrimSpace(c.TierBoundaries) == "" {
		return scoring.DefaultTiers(), nil
	}
	parts := strings.Split(c.TierBoundaries, ",")
	boundaries := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return scoring.Tiers{}, fmt.Errorf("TIER_BOUNDARIES: %w", err)
		}
		boundaries = append(boundaries, v)
	}
	return scoring.NewTiers(boundaries...)
}
