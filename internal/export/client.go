// internal/export/client.go
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to POST /api/export-card.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the server at baseURL. Requests carry no
// timeout of their own; cancel through the context.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type saveRequest struct {
	Filename  string `json:"filename"`
	ImageData string `json:"imageData"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Error   string `json:"error"`
}

// SaveCard uploads a data URL and returns the path the server saved it to.
func (c *Client) SaveCard(ctx context.Context, filename, dataURL string) (string, error) {
	body, err := json.Marshal(saveRequest{Filename: filename, ImageData: dataURL})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/export-card", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post export-card: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read export-card response: %w", err)
	}

	var out saveResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := out.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", fmt.Errorf("export endpoint returned %d: %s", resp.StatusCode, msg)
	}
	if !out.Success {
		return "", fmt.Errorf("export endpoint did not confirm %s", filename)
	}
	return out.Path, nil
}
