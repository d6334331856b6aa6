package enrich

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"

	"github.com/localpages/directory-cli/internal/model"
	"github.com/localpages/directory-cli/pkg/places"
)

// fakeStore is an in-memory Store that applies cache patches like the real
// store implementations do.
type fakeStore struct {
	mu         sync.Mutex
	businesses map[string]*model.Business
	patchErr   error
	patches    int
}

func newFakeStore(records ...model.Business) *fakeStore {
	s := &fakeStore{businesses: make(map[string]*model.Business)}
	for i := range records {
		rec := records[i]
		s.businesses[rec.ID] = &rec
	}
	return s
}

func (s *fakeStore) GetBusinessByID(_ context.Context, id string) (*model.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.businesses[id]
	if !ok {
		return nil, eris.Errorf("business not found: %s", id)
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) GetBusinessBySlug(_ context.Context, slug string) (*model.Business, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.businesses {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, eris.Errorf("business not found: %s", slug)
}

func (s *fakeStore) UpdateBusinessCache(_ context.Context, id string, patch model.CachePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patchErr != nil {
		return s.patchErr
	}
	b, ok := s.businesses[id]
	if !ok {
		return eris.Errorf("business not found: %s", id)
	}
	enrichedAt := patch.EnrichedAt
	b.CachedImageURLs = patch.ImageURLs
	b.CachedPhone = patch.Phone
	b.CachedWebsite = patch.Website
	b.CachedHours = patch.Hours
	b.CachedReviews = patch.Reviews
	b.MapsURL = patch.MapsURL
	b.LastEnrichedAt = &enrichedAt
	s.patches++
	return nil
}

func (s *fakeStore) patchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patches
}

// stubPlaces implements places.Client with injectable behaviors and counts
// Details calls so tests can assert the provider was (not) contacted.
type stubPlaces struct {
	detailsFn    func(ctx context.Context, placeID string) (*places.PlaceDetails, error)
	mediaFn      func(ctx context.Context, ref string, maxWidthPx int) ([]byte, string, error)
	detailsCalls atomic.Int64
}

func (s *stubPlaces) SearchText(context.Context, places.SearchRequest) ([]places.PlaceSummary, error) {
	return nil, eris.New("not implemented")
}

func (s *stubPlaces) Details(ctx context.Context, placeID string) (*places.PlaceDetails, error) {
	s.detailsCalls.Add(1)
	if s.detailsFn == nil {
		return nil, eris.New("no details stub")
	}
	return s.detailsFn(ctx, placeID)
}

func (s *stubPlaces) PhotoMedia(ctx context.Context, ref string, maxWidthPx int) ([]byte, string, error) {
	if s.mediaFn == nil {
		return nil, "", eris.New("no media stub")
	}
	return s.mediaFn(ctx, ref, maxWidthPx)
}

// fakeObjectStore records uploads and can fail on selected keys.
type fakeObjectStore struct {
	mu      sync.Mutex
	uploads []string
	failFn  func(objectKey string) bool
}

func (s *fakeObjectStore) Upload(_ context.Context, objectKey string, _ []byte, _ string) (string, error) {
	if s.failFn != nil && s.failFn(objectKey) {
		return "", eris.Errorf("upload rejected: %s", objectKey)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, objectKey)
	return "https://cdn.test/" + objectKey, nil
}

func strp(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func details(placeID string) *places.PlaceDetails {
	return &places.PlaceDetails{
		ID:          placeID,
		Name:        "Plano Restoration Pros",
		Phone:       "(972) 555-0142",
		Website:     "https://live.example.com",
		MapsURL:     "https://maps.google.com/?cid=42",
		Rating:      4.8,
		ReviewCount: 210,
		Hours:       map[string]string{"Monday": "8:00 AM – 6:00 PM"},
		PhotoRefs:   []string{"places/" + placeID + "/photos/p1"},
		Reviews: []places.ReviewSnippet{
			{Author: "Dana R.", Rating: 5, Text: "Fast and professional.", RelativeTime: "2 months ago", Time: 1749999845},
		},
	}
}

func record(id string, placeID *string, lastEnrichedAt *time.Time) model.Business {
	return model.Business{
		ID:             id,
		Slug:           id + "-slug",
		PlaceID:        placeID,
		Name:           "Record " + id,
		Category:       "water-damage-repair",
		Address:        "500 Main St",
		City:           "Plano",
		State:          "TX",
		Phone:          strp("(972) 555-0000"),
		Website:        strp("https://db.example.com"),
		Rating:         4.2,
		ReviewCount:    50,
		LastEnrichedAt: lastEnrichedAt,
	}
}
