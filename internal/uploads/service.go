package uploads

import (
	"context"
	"fmt"
	"sync"
)

// File is one document picked for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service uploads operation documents to the blob store, namespaced per
// operation ID.
type Service struct {
	Client BlobClient
	Bucket string
}

// UploadDocuments uploads all files concurrently and returns their public
// URLs in input order. All uploads must succeed; any failure returns an error
// and the caller must not link anything to the operation record.
func (s *Service) UploadDocuments(ctx context.Context, operationID string, files []File) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			path := fmt.Sprintf("operations/%s/%s", operationID, f.Name)
			url, err := s.Client.Upload(ctx, s.Bucket, path, f.ContentType, f.Data)
			urls[i], errs[i] = url, err
		}(i, f)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return urls, nil
}
