package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// BlobClient is what the upload service needs from the storage backend.
type BlobClient interface {
	Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error)
}

// HTTPClient is a BlobClient backed by a Supabase-compatible storage HTTP API.
// Upload is called from one goroutine per file, so the struct is never
// mutated after construction.
type HTTPClient struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Upload puts the object and returns its public URL.
func (c *HTTPClient) Upload(ctx context.Context, bucket, path, contentType string, data []byte) (string, error) {
	client := c.Client
	if client == nil {
		client = defaultClient
	}
	if c.BaseURL == "" {
		return "", fmt.Errorf("storage: STORAGE_URL is not set")
	}
	if c.SecretKey == "" {
		return "", fmt.Errorf("storage: STORAGE_SECRET_KEY is not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", base, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("apikey", c.SecretKey)
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage error: status %d body: %s", resp.StatusCode, string(body))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", base, bucket, path), nil
}
