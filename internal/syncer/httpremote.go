package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/lingopro/internal/progress"
)

// SyncPath is the sync endpoint relative to the server base URL.
const SyncPath = "/api/sync"

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// HTTPRemote talks to a sync server over HTTP.
type HTTPRemote struct {
	base   string
	client *http.Client
}

// NewHTTPRemote creates a remote for the server at baseURL. A nil client
// uses one with a 10 second timeout.
func NewHTTPRemote(baseURL string, client *http.Client) *HTTPRemote {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPRemote{
		base:   strings.TrimRight(baseURL, "/"),
		client: client,
	}
}

// Pull fetches the learner's snapshot. A 404 or an empty body means the
// server holds nothing.
func (r *HTTPRemote) Pull(ctx context.Context, learner string) (*progress.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+SyncPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build pull request: %w", err)
	}
	req.Header.Set(LearnerHeader, learner)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("pull: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pull response: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var snap progress.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decode pull response: %w", err)
	}
	return &snap, nil
}

// Push sends the full snapshot to the server.
func (r *HTTPRemote) Push(ctx context.Context, snap *progress.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.base+SyncPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set(LearnerHeader, snap.Learner)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
