// Package remote talks to the spreadsheet bridge: best-effort id-keyed
// upserts out, full-state snapshots in. It also owns the outbox worker that
// gives local writes at-least-once delivery and the periodic refresher that
// overwrites local state from the latest pull.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"fleet-ops-backend/config"
	"fleet-ops-backend/internal/model"
)

// Snapshot is the bridge's full-state payload. A nil collection means the
// bridge omitted that key; the corresponding local collection must be left
// unchanged.
type Snapshot struct {
	Boats     []model.Boat          `json:"boats"`
	Personnel []model.Personnel     `json:"personnel"`
	Tours     []model.Tour          `json:"tours"`
	Tasks     []model.Task          `json:"tasks"`
	Inventory []model.InventoryItem `json:"inventory"`
	Logs      []model.AuditEntry    `json:"logs"`
}

// Client is the narrow collaborator contract to the remote store.
//
// Push is best-effort: false on any failure, never a panic or error value.
// Pull returns nil on any failure; callers degrade to stale-but-available
// local state.
type Client interface {
	Push(ctx context.Context, collection string, record json.RawMessage) bool
	Pull(ctx context.Context) *Snapshot
}

// httpClient implements Client over the bridge's JSON-over-HTTP surface.
type httpClient struct {
	baseURL string
	headers map[string]string
	client  *http.Client
}

// NewClient creates the HTTP bridge client.
func NewClient(cfg *config.SyncConfig) Client {
	return &httpClient{
		baseURL: cfg.BaseURL,
		headers: cfg.Headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type pushPayload struct {
	Collection string          `json:"collection"`
	Record     json.RawMessage `json:"record"`
}

func (c *httpClient) Push(ctx context.Context, collection string, record json.RawMessage) bool {
	body, err := json.Marshal(pushPayload{Collection: collection, Record: record})
	if err != nil {
		log.Printf("Error marshalling push payload for %s: %v", collection, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/push", bytes.NewReader(body))
	if err != nil {
		log.Printf("Error building push request for %s: %v", collection, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Push to %s failed: %v", collection, err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("Push to %s returned status %d", collection, resp.StatusCode)
		return false
	}
	return true
}

func (c *httpClient) Pull(ctx context.Context) *Snapshot {
	snap, err := c.pull(ctx)
	if err != nil {
		log.Printf("Pull failed: %v", err)
		return nil
	}
	return snap
}

func (c *httpClient) pull(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pull", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build pull request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
