package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_BASE_URL points at a running server, e.g. http://localhost:8080. Empty skips the suites.
	BaseURL string `envconfig:"E2E_BASE_URL"`
	// E2E_HEALTH_ADDR is the gRPC health endpoint, e.g. localhost:8081
	HealthAddr string `envconfig:"E2E_HEALTH_ADDR"`
	// E2E_DEBUG_JSON dumps full response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized step headers
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
