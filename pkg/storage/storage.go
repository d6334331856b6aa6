// Package storage provides the durable object store used for photo migration.
// The enrichment layer only ever writes; it needs a stable public URL back.
package storage

import "context"

// ObjectStore uploads binary payloads and returns stable public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
}
