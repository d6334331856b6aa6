package enrich

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localpages/directory-cli/pkg/storage"
)

// DefaultPhotoLimit bounds how many photos one write-back migrates.
const DefaultPhotoLimit = 5

// MediaFetcher is the slice of the places client the migrator needs.
type MediaFetcher interface {
	PhotoMedia(ctx context.Context, photoRef string, maxWidthPx int) ([]byte, string, error)
}

// Migrator moves ephemeral provider photo references to durable storage.
type Migrator interface {
	Migrate(ctx context.Context, refs []string, ownerID string, limit int) []string
}

// PhotoMigrator implements Migrator by downloading each reference from the
// provider and uploading it to the object store under an owner-namespaced key.
type PhotoMigrator struct {
	media      MediaFetcher
	store      storage.ObjectStore
	maxWidthPx int
}

// NewPhotoMigrator creates a PhotoMigrator. maxWidthPx <= 0 uses the client
// default.
func NewPhotoMigrator(media MediaFetcher, store storage.ObjectStore, maxWidthPx int) *PhotoMigrator {
	return &PhotoMigrator{media: media, store: store, maxWidthPx: maxWidthPx}
}

// Migrate processes up to limit references in order. Per-item failures are
// logged and skipped; the output holds only the successful uploads, so a
// shorter-than-input result is normal, not an error.
func (m *PhotoMigrator) Migrate(ctx context.Context, refs []string, ownerID string, limit int) []string {
	if limit <= 0 {
		limit = DefaultPhotoLimit
	}
	if len(refs) > limit {
		refs = refs[:limit]
	}

	log := zap.L().With(zap.String("business_id", ownerID))

	var urls []string
	for _, ref := range refs {
		data, contentType, err := m.media.PhotoMedia(ctx, ref, m.maxWidthPx)
		if err != nil {
			log.Warn("photo download failed", zap.String("ref", ref), zap.Error(err))
			continue
		}

		key := objectKey(ownerID, contentType)
		url, err := m.store.Upload(ctx, key, data, contentType)
		if err != nil {
			log.Warn("photo upload failed", zap.String("ref", ref), zap.Error(err))
			continue
		}
		urls = append(urls, url)
	}

	if len(urls) < len(refs) {
		log.Info("photo migration partial",
			zap.Int("requested", len(refs)),
			zap.Int("migrated", len(urls)),
		)
	}
	return urls
}

// objectKey builds a collision-resistant, owner-namespaced storage path.
func objectKey(ownerID, contentType string) string {
	ext := ".jpg"
	switch contentType {
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("businesses/%s/%s%s", ownerID, uuid.New().String(), ext)
}
