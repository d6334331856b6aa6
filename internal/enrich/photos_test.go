package enrich

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_AllSucceed(t *testing.T) {
	pc := &stubPlaces{
		mediaFn: func(context.Context, string, int) ([]byte, string, error) {
			return []byte{0xFF, 0xD8}, "image/jpeg", nil
		},
	}
	obj := &fakeObjectStore{}
	m := NewPhotoMigrator(pc, obj, 800)

	urls := m.Migrate(context.Background(), []string{"r1", "r2", "r3"}, "b1", 5)

	require.Len(t, urls, 3)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "https://cdn.test/businesses/b1/"), u)
		assert.True(t, strings.HasSuffix(u, ".jpg"), u)
	}
}

func TestMigrate_PartialFailures(t *testing.T) {
	// Downloads 2 and 4 fail; exactly the other three survive, in order.
	pc := &stubPlaces{
		mediaFn: func(_ context.Context, ref string, _ int) ([]byte, string, error) {
			if ref == "r2" || ref == "r4" {
				return nil, "", eris.Errorf("download failed: %s", ref)
			}
			return []byte(ref), "image/png", nil
		},
	}
	obj := &fakeObjectStore{}
	m := NewPhotoMigrator(pc, obj, 0)

	urls := m.Migrate(context.Background(), []string{"r1", "r2", "r3", "r4", "r5"}, "b1", 5)

	assert.Len(t, urls, 3)
	assert.Len(t, obj.uploads, 3)
}

func TestMigrate_UploadFailureSkipped(t *testing.T) {
	pc := &stubPlaces{
		mediaFn: func(_ context.Context, ref string, _ int) ([]byte, string, error) {
			return []byte(ref), "image/jpeg", nil
		},
	}
	calls := 0
	obj := &fakeObjectStore{failFn: func(string) bool {
		calls++
		return calls == 1 // first upload fails
	}}
	m := NewPhotoMigrator(pc, obj, 0)

	urls := m.Migrate(context.Background(), []string{"r1", "r2"}, "b1", 5)
	assert.Len(t, urls, 1)
}

func TestMigrate_RespectsLimit(t *testing.T) {
	var fetched []string
	pc := &stubPlaces{
		mediaFn: func(_ context.Context, ref string, _ int) ([]byte, string, error) {
			fetched = append(fetched, ref)
			return []byte(ref), "image/jpeg", nil
		},
	}
	m := NewPhotoMigrator(pc, &fakeObjectStore{}, 0)

	urls := m.Migrate(context.Background(), []string{"r1", "r2", "r3", "r4", "r5", "r6", "r7"}, "b1", 3)

	assert.Len(t, urls, 3)
	assert.Equal(t, []string{"r1", "r2", "r3"}, fetched)
}

func TestMigrate_AllFailYieldsEmpty(t *testing.T) {
	pc := &stubPlaces{
		mediaFn: func(context.Context, string, int) ([]byte, string, error) {
			return nil, "", eris.New("provider down")
		},
	}
	m := NewPhotoMigrator(pc, &fakeObjectStore{}, 0)

	urls := m.Migrate(context.Background(), []string{"r1", "r2"}, "b1", 5)
	assert.Empty(t, urls)
}

func TestObjectKey_ExtensionByContentType(t *testing.T) {
	assert.True(t, strings.HasSuffix(objectKey("b1", "image/png"), ".png"))
	assert.True(t, strings.HasSuffix(objectKey("b1", "image/webp"), ".webp"))
	assert.True(t, strings.HasSuffix(objectKey("b1", "image/jpeg"), ".jpg"))
	assert.True(t, strings.HasSuffix(objectKey("b1", ""), ".jpg"))
	assert.True(t, strings.HasPrefix(objectKey("b1", "image/jpeg"), "businesses/b1/"))
}

func TestObjectKey_CollisionResistant(t *testing.T) {
	a := objectKey("b1", "image/jpeg")
	b := objectKey("b1", "image/jpeg")
	assert.NotEqual(t, a, b)
}
