package gcs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// signedURLExpiry pins image URLs far in the future so attachments never
// go dark on stored projects.
var signedURLExpiry = time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)

// ImageStore uploads project images to the configured bucket and hands
// back long-lived read URLs.
type ImageStore struct {
	bucket *storage.BucketHandle
}

// NewImageStore creates a new ImageStore over the given bucket.
func NewImageStore(bucket *storage.BucketHandle) *ImageStore {
	return &ImageStore{bucket: bucket}
}

// UploadImage stores the bytes under a path namespaced by project id, with
// a random unique prefix so repeated uploads of the same filename never
// collide, and returns a signed read URL.
func (s *ImageStore) UploadImage(ctx context.Context, projectID, filename, contentType string, data []byte) (string, error) {
	object := fmt.Sprintf("projects/%s/%s_%s", projectID, uuid.NewString(), filename)

	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write image %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload image %s: %w", object, err)
	}

	url, err := s.bucket.SignedURL(object, &storage.SignedURLOptions{
		Method:  http.MethodGet,
		Expires: signedURLExpiry,
	})
	if err != nil {
		return "", fmt.Errorf("sign image url %s: %w", object, err)
	}
	return url, nil
}
