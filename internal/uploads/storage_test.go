package uploads

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Upload(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL, SecretKey: "service-key"}
	url, err := c.Upload(context.Background(), "operation-documents", "operations/abc/rg.pdf", "application/pdf", []byte("pdf-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/operation-documents/operations/abc/rg.pdf", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, []byte("pdf-bytes"), gotBody)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/operation-documents/operations/abc/rg.pdf", url)
}

func TestHTTPClient_UploadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket quota exceeded", http.StatusInsufficientStorage)
	}))
	defer srv.Close()

	c := &HTTPClient{BaseURL: srv.URL, SecretKey: "service-key"}
	_, err := c.Upload(context.Background(), "operation-documents", "operations/abc/rg.pdf", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "507")
}

// Multi-file submissions hit the client from one goroutine per file; a nil
// Client must stay safe under that fan-out (run with -race).
func TestHTTPClient_ConcurrentUploads(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	svc := &Service{
		Client: &HTTPClient{BaseURL: srv.URL, SecretKey: "service-key"},
		Bucket: "operation-documents",
	}
	files := []File{
		{Name: "rg.pdf", Data: []byte("a")},
		{Name: "holerite.pdf", Data: []byte("b")},
		{Name: "extrato.pdf", Data: []byte("c")},
		{Name: "contrato.pdf", Data: []byte("d")},
	}

	urls, err := svc.UploadDocuments(context.Background(), "abc-123", files)
	require.NoError(t, err)
	require.Len(t, urls, 4)
	assert.Equal(t, srv.URL+"/storage/v1/object/public/operation-documents/operations/abc-123/rg.pdf", urls[0])
	assert.Len(t, paths, 4)
}
