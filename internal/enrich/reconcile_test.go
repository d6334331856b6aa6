package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpages/directory-cli/internal/model"
)

// fullRecord has all three tiers populated so precedence is observable.
func fullRecord() model.Business {
	b := record("b1", strp("ChIJabc123"), nil)
	b.Photos = []string{"places/ChIJabc123/photos/raw1"}
	b.CachedPhone = strp("(972) 555-1111")
	b.CachedWebsite = strp("https://cached.example.com")
	b.CachedHours = map[string]string{"Monday": "9:00 AM – 5:00 PM"}
	b.CachedReviews = []model.Review{{Author: "Old Reviewer", Rating: 4}}
	b.CachedImageURLs = []string{"https://cdn.test/businesses/b1/a.jpg"}
	b.MapsURL = strp("https://maps.google.com/?cid=1")
	return b
}

func TestReconcile_CacheValid_CachedWins(t *testing.T) {
	b := fullRecord()
	// A live fetch being hypothetically available must not matter: the valid
	// cache path never consults it.
	view := Reconcile(b, details("ChIJabc123"), true)

	assert.Equal(t, model.DataSourceCached, view.DataSource)
	require.NotNil(t, view.Phone)
	assert.Equal(t, "(972) 555-1111", *view.Phone)
	require.NotNil(t, view.Website)
	assert.Equal(t, "https://cached.example.com", *view.Website)
	assert.Equal(t, "9:00 AM – 5:00 PM", view.Hours["Monday"])
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "Old Reviewer", view.Reviews[0].Author)
}

func TestReconcile_CacheValid_FallsThroughToRaw(t *testing.T) {
	b := record("b1", nil, nil)
	view := Reconcile(b, nil, true)

	require.NotNil(t, view.Phone)
	assert.Equal(t, "(972) 555-0000", *view.Phone)
	require.NotNil(t, view.Website)
	assert.Equal(t, "https://db.example.com", *view.Website)
}

func TestReconcile_Hybrid_LiveWins(t *testing.T) {
	b := fullRecord()
	view := Reconcile(b, details("ChIJabc123"), false)

	assert.Equal(t, model.DataSourceHybrid, view.DataSource)
	require.NotNil(t, view.Phone)
	assert.Equal(t, "(972) 555-0142", *view.Phone)
	require.NotNil(t, view.Website)
	assert.Equal(t, "https://live.example.com", *view.Website)
	assert.Equal(t, "8:00 AM – 6:00 PM", view.Hours["Monday"])
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "Dana R.", view.Reviews[0].Author)
	assert.InDelta(t, 4.8, view.Rating, 0.001)
	assert.Equal(t, 210, view.ReviewCount)
}

func TestReconcile_Hybrid_StaleCacheBeatsNothing(t *testing.T) {
	b := fullRecord()
	live := details("ChIJabc123")
	live.Phone = ""
	live.Hours = nil
	live.Reviews = nil

	view := Reconcile(b, live, false)

	assert.Equal(t, model.DataSourceHybrid, view.DataSource)
	require.NotNil(t, view.Phone)
	assert.Equal(t, "(972) 555-1111", *view.Phone) // stale cached beats absent live
	assert.Equal(t, "9:00 AM – 5:00 PM", view.Hours["Monday"])
	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "Old Reviewer", view.Reviews[0].Author)
}

func TestReconcile_DatabaseOnly(t *testing.T) {
	b := fullRecord()
	view := Reconcile(b, nil, false)

	assert.Equal(t, model.DataSourceDatabase, view.DataSource)
	require.NotNil(t, view.Phone)
	assert.Equal(t, "(972) 555-0000", *view.Phone)
	assert.Nil(t, view.Hours)
	assert.Nil(t, view.Reviews)
}

func TestReconcile_PhotoAsymmetry_StaleCacheStillServesPermanentURLs(t *testing.T) {
	// Stale cache tier (hours/phone would be distrusted) but the migrated
	// image URLs must still win over raw provider references.
	b := fullRecord()
	view := Reconcile(b, nil, false)

	assert.Equal(t, model.DataSourceDatabase, view.DataSource)
	assert.Equal(t, []string{"https://cdn.test/businesses/b1/a.jpg"}, view.PhotoURLs)
}

func TestReconcile_PhotoFallbackToRawReferences(t *testing.T) {
	b := fullRecord()
	b.CachedImageURLs = nil
	view := Reconcile(b, nil, true)

	assert.Equal(t, []string{"places/ChIJabc123/photos/raw1"}, view.PhotoURLs)
}

func TestReconcile_PhotoLiveReferencesLastResort(t *testing.T) {
	b := fullRecord()
	b.CachedImageURLs = nil
	b.Photos = nil
	view := Reconcile(b, details("ChIJabc123"), false)

	assert.Equal(t, []string{"places/ChIJabc123/photos/p1"}, view.PhotoURLs)
}

func TestReconcile_NoPhotosAnywhere(t *testing.T) {
	b := record("b1", nil, nil)
	view := Reconcile(b, nil, false)
	assert.Empty(t, view.PhotoURLs)
}
