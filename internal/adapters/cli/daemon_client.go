package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/andrescamacho/rotable-go/internal/application/mediator"
	"github.com/andrescamacho/rotable-go/internal/application/session"
)

// DaemonClient talks to a running daemon over its HTTP monitoring surface.
type DaemonClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewDaemonClient creates a client for the daemon at the given address.
func NewDaemonClient(address string) *DaemonClient {
	return &DaemonClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    "http://" + address,
	}
}

// Status reads the live session summary.
func (c *DaemonClient) Status(ctx context.Context) (*session.Summary, error) {
	var summary session.Summary
	if err := c.get(ctx, "/status", &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Inventory reads the per-airport inventory projection.
func (c *DaemonClient) Inventory(ctx context.Context) (*mediator.InventoryResponse, error) {
	var inv mediator.InventoryResponse
	if err := c.get(ctx, "/inventory", &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// History reads the most recent rounds, newest last.
func (c *DaemonClient) History(ctx context.Context, limit int) ([]session.RoundRecord, error) {
	var records []session.RoundRecord
	path := "/history?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, path, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// StartSimulation asks the daemon to launch a session.
func (c *DaemonClient) StartSimulation(ctx context.Context) error {
	return c.post(ctx, "/simulation/start")
}

// StopSimulation asks the daemon to stop the live session gracefully.
func (c *DaemonClient) StopSimulation(ctx context.Context) error {
	return c.post(ctx, "/simulation/stop")
}

func (c *DaemonClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.errorFrom(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *DaemonClient) post(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return c.errorFrom(resp)
	}
	return nil
}

// errorFrom extracts the error message the monitor surface returns as
// {"error": "..."}, falling back to the status line.
func (c *DaemonClient) errorFrom(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("daemon returned %s: %s", resp.Status, payload.Error)
	}
	return fmt.Errorf("daemon returned %s", resp.Status)
}
