package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const dropboxUploadURL = "https://content.dropboxapi.com/2/files/upload"

// DropboxClient uploads backup snapshots to a fixed path in a Dropbox app
// folder, overwriting the previous copy on every run.
type DropboxClient struct {
	token      string
	path       string
	httpClient *http.Client
}

// NewDropboxClient returns nil when no token is configured; callers treat a
// nil client as "cloud backup disabled".
func NewDropboxClient(token, path string) *DropboxClient {
	if token == "" {
		return nil
	}
	if path == "" {
		path = "/CenterFive/CenterFive_Backup.json"
	}
	return &DropboxClient{
		token:      token,
		path:       path,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type dropboxUploadArg struct {
	Path       string `json:"path"`
	Mode       string `json:"mode"`
	Autorename bool   `json:"autorename"`
	Mute       bool   `json:"mute"`
}

// Upload sends the payload to the configured Dropbox path.
func (c *DropboxClient) Upload(ctx context.Context, payload []byte) error {
	arg, err := json.Marshal(dropboxUploadArg{
		Path:       c.path,
		Mode:       "overwrite",
		Autorename: false,
		Mute:       true,
	})
	if err != nil {
		return fmt.Errorf("dropbox: marshal arg: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dropboxUploadURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("dropbox: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Dropbox-API-Arg", string(arg))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dropbox: upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("dropbox: upload returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
