package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration and skips when no server is configured.
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BaseURL == "" {
		s.T().Skip("E2E_BASE_URL is not set")
	}
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a header before running one step of a scenario.
func (s *BaseHTTPSuite) Step(name string, fn func()) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
	fn()
}

// Call sends a JSON request and decodes the response into out when out is not nil.
func (s *BaseHTTPSuite) Call(method, path string, body any, out any) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	request, err := http.NewRequest(method, s.Config.BaseURL+path, reader)
	s.Require().NoError(err)
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	response, err := s.client.Do(request)
	s.Require().NoError(err)
	defer response.Body.Close()
	raw, err := io.ReadAll(response.Body)
	s.Require().NoError(err)

	s.T().Logf("HTTP %s %s [%d] in %v", method, path, response.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		s.T().Logf("RESPONSE:\n%s", raw)
	}
	if out != nil && response.StatusCode < 300 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return response.StatusCode
}

// Health queries the gRPC health service, skipped when no address is configured.
func (s *BaseHTTPSuite) Health() healthpb.HealthCheckResponse_ServingStatus {
	if s.Config.HealthAddr == "" {
		s.T().Skip("E2E_HEALTH_ADDR is not set")
	}
	conn, err := grpc.NewClient(s.Config.HealthAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	response, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	s.Require().NoError(err)
	return response.GetStatus()
}
