package storage

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/rotisserie/eris"
)

// GCSStore implements ObjectStore on a Google Cloud Storage bucket.
// Credentials come from ADC (service account or GOOGLE_APPLICATION_CREDENTIALS).
type GCSStore struct {
	client        *gcs.Client
	bucket        string
	publicBaseURL string
}

// NewGCS creates a GCSStore for the given bucket. publicBaseURL overrides the
// default storage.googleapis.com URL prefix (e.g. a CDN domain); empty uses
// the default.
func NewGCS(ctx context.Context, bucket, publicBaseURL string) (*GCSStore, error) {
	if bucket == "" {
		return nil, eris.New("storage: bucket is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "storage: create gcs client")
	}
	return &GCSStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload writes data under objectKey and returns the object's public URL.
func (s *GCSStore) Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	if objectKey == "" {
		return "", eris.New("storage: object key is required")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	wc := s.client.Bucket(s.bucket).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(bytes.Clone(data)); err != nil {
		_ = wc.Close()
		return "", eris.Wrapf(err, "storage: write object %s", objectKey)
	}
	if err := wc.Close(); err != nil {
		return "", eris.Wrapf(err, "storage: close writer for %s", objectKey)
	}

	return s.PublicURL(objectKey), nil
}

// PublicURL builds the stable public URL for an object key.
func (s *GCSStore) PublicURL(objectKey string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + objectKey
	}
	return "https://storage.googleapis.com/" + s.bucket + "/" + objectKey
}

// Close releases the underlying GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
