package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
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
	if s.Config.ChatAddr == "" {
		s.T().Skip("CHAT_ADDR not set, skipping end-to-end scenario")
	}
	s.Config.ChatAddr = strings.TrimRight(s.Config.ChatAddr, "/")
	s.client = &http.Client{Timeout: 10 * time.Second}
}

// Step prints a colorized header before running fn.
func (s *BaseHTTPSuite) Step(name string, fn func()) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
	fn()
}

// Call sends one request as user and decodes the JSON answer into out when out is not nil.
func (s *BaseHTTPSuite) Call(method, path, user string, body, out any) int {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		s.Require().NoError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, method, s.Config.ChatAddr+path, bytes.NewReader(payload))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("User", user)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	s.Require().NoError(err, "Failed to reach chat server at "+s.Config.ChatAddr)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, resp.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		fmt.Fprintf(&logBuilder, "\nREQUEST:\n%s\nRESPONSE:\n%s", payload, raw)
	}
	s.T().Log(logBuilder.String())

	if out != nil && len(raw) > 0 && resp.StatusCode < 300 {
		s.Require().NoError(json.Unmarshal(raw, out))
	}
	return resp.StatusCode
}
