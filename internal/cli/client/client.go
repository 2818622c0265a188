// Package client is the HTTP client for the equipviz API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Client talks to the equipviz API server.
type Client struct {
	http   *http.Client
	server string
	token  string
}

// New creates a client for the given server, attaching token to every
// request when non-empty.
func New(server, token string) (*Client, error) {
	normalized, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	return &Client{
		http:   &http.Client{Timeout: 30 * time.Second},
		server: normalized,
		token:  token,
	}, nil
}

func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL")
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

// Dataset is the wire shape of a stored dataset.
type Dataset struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploaded_at"`
	Summary    Summary   `json:"summary"`
}

// Summary is the wire shape of the per-dataset statistics.
type Summary struct {
	TotalCount       int                 `json:"total_count"`
	Averages         map[string]*float64 `json:"averages"`
	TypeDistribution map[string]int      `json:"type_distribution"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/token/", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		Access string `json:"access"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}

	return out.Access, nil
}

// List returns the stored datasets, newest first.
func (c *Client) List(ctx context.Context) ([]Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.server+"/datasets/", nil)
	if err != nil {
		return nil, err
	}

	var out []Dataset
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Get returns a single dataset by id.
func (c *Client) Get(ctx context.Context, id int64) (Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/datasets/%d", c.server, id), nil)
	if err != nil {
		return Dataset{}, err
	}

	var out Dataset
	if err := c.do(req, &out); err != nil {
		return Dataset{}, err
	}

	return out, nil
}

// Rows returns the parsed rows of a dataset's file.
func (c *Client) Rows(ctx context.Context, id int64) ([]map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/datasets/data?id=%d", c.server, id), nil)
	if err != nil {
		return nil, err
	}

	var out []map[string]any
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Upload sends a CSV file and returns the created dataset.
func (c *Client) Upload(ctx context.Context, path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return Dataset{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return Dataset{}, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Dataset{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.server+"/datasets/", &body)
	if err != nil {
		return Dataset{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var out Dataset
	if err := c.do(req, &out); err != nil {
		return Dataset{}, err
	}

	return out, nil
}

// DownloadReport fetches the PDF report for a dataset. It returns the PDF
// bytes and the server-suggested filename.
func (c *Client) DownloadReport(ctx context.Context, id int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/datasets/generate_report?id=%d", c.server, id), nil)
	if err != nil {
		return nil, "", err
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", apiError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	return data, dispositionFilename(resp.Header.Get("Content-Disposition")), nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// apiError turns a non-2xx response into an error, preferring the server's
// own error message when the body carries one.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("%s (HTTP %d)", errResp.Error, resp.StatusCode)
	}

	return fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
}

func dispositionFilename(header string) string {
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "filename=") {
			return strings.Trim(strings.TrimPrefix(part, "filename="), `"`)
		}
	}
	return ""
}
