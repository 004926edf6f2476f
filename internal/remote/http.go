package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"water_heater/internal/models"
)

const defaultTimeout = 10 * time.Second

// ErrNoData means the remote answered but had no plant data to report.
var ErrNoData = errors.New("remote returned no plant data")

// HTTPClient talks to the heater vendor's cloud API:
//
//	GET  {base}/plants/{gateway}/data
//	POST {base}/plants/{gateway}/mode   {"mode":"BOOST"}
type HTTPClient struct {
	base    string
	gateway string
	token   string
	h       *http.Client
}

// NewHTTPClient returns a client for one gateway. An empty token sends no
// Authorization header; a non-positive timeout uses defaultTimeout.
func NewHTTPClient(baseURL, gateway, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		base:    strings.TrimRight(baseURL, "/"),
		gateway: gateway,
		token:   token,
		h:       &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) plantURL(suffix string) string {
	return c.base + "/plants/" + url.PathEscape(c.gateway) + suffix
}

// FetchTelemetry reads the current plant data snapshot.
func (c *HTTPClient) FetchTelemetry(ctx context.Context) (*models.Telemetry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.plantURL("/data"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plant data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, ErrNoData
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("plant data returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read plant data: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 || string(bytes.TrimSpace(body)) == "null" {
		return nil, ErrNoData
	}

	var tel models.Telemetry
	if err := json.Unmarshal(body, &tel); err != nil {
		return nil, fmt.Errorf("decode plant data: %w", err)
	}
	return &tel, nil
}

type modeRequest struct {
	Mode models.Mode `json:"mode"`
}

// ApplyMode asks the remote to switch the heater to mode.
func (c *HTTPClient) ApplyMode(ctx context.Context, mode models.Mode) error {
	b, err := json.Marshal(modeRequest{Mode: mode})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.plantURL("/mode"), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.h.Do(req)
	if err != nil {
		return fmt.Errorf("set mode %s: %w", mode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("set mode %s returned %d: %s", mode, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
