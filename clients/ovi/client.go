// Package ovi talks to the remote VM management API used by the /start,
// /stop, /info, /redeploy and /snapshots commands. Calls are slow (the
// remote side boots machines), so they only ever run inside worker tasks.
package ovi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// StartMany boots the given vms and returns the remote command output.
func (c *Client) StartMany(ctx context.Context, user, token string, vmIDs []string) (string, error) {
	return c.do(ctx, user, token, "POST", "/vms/start", map[string]any{"vm_ids": vmIDs})
}

// StopMany shuts down the given vms and returns the remote command output.
func (c *Client) StopMany(ctx context.Context, user, token string, vmIDs []string) (string, error) {
	return c.do(ctx, user, token, "POST", "/vms/stop", map[string]any{"vm_ids": vmIDs})
}

// ListVMs returns the state of every vm the api user can see, preformatted
// as a monospace table.
func (c *Client) ListVMs(ctx context.Context, user, token string) (string, error) {
	out, err := c.do(ctx, user, token, "GET", "/vms", nil)
	if err != nil {
		return "", err
	}
	return "```\n" + out + "\n```", nil
}

// Redeploy restores a vm from the given snapshot.
func (c *Client) Redeploy(ctx context.Context, user, token, vmID, snapshotID string) (string, error) {
	return c.do(ctx, user, token, "POST", "/vms/redeploy", map[string]any{
		"vm_id":       vmID,
		"snapshot_id": snapshotID,
	})
}

// Snapshots lists the snapshot ids available for redeploys.
func (c *Client) Snapshots(ctx context.Context, user, token string) (string, error) {
	out, err := c.do(ctx, user, token, "GET", "/snapshots", nil)
	if err != nil {
		return "", err
	}
	return "```\n" + out + "\n```", nil
}

type apiResponse struct {
	Output string `json:"output"`
	Error  string `json:"error"`
}

func (c *Client) do(ctx context.Context, user, token, method, path string, payload map[string]any) (string, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return "", fmt.Errorf("failed to encode vm api payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to build vm api request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-User", user)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vm api request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode vm api response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Error != "" {
		return "", fmt.Errorf("vm api %s %s returned status %d: %s", method, path, resp.StatusCode, decoded.Error)
	}

	return decoded.Output, nil
}
