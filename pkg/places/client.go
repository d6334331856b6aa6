// Package places wraps the Google Places API (v1) operations used by the
// directory: text search for ingestion, details-by-id for enrichment, and
// photo media download for migration. Provider-specific response shapes are
// normalized here and do not leak past this package.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://places.googleapis.com/v1"

// Field masks request only what each operation consumes, to bound SKU cost.
const (
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
		"places.rating,places.userRatingCount,places.priceLevel,places.photos.name"
	detailsFieldMask = "id,displayName,nationalPhoneNumber,websiteUri,googleMapsUri," +
		"regularOpeningHours.weekdayDescriptions,rating,userRatingCount,photos.name,reviews"
)

// Client performs place-data provider operations.
type Client interface {
	SearchText(ctx context.Context, req SearchRequest) ([]PlaceSummary, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
	PhotoMedia(ctx context.Context, photoRef string, maxWidthPx int) ([]byte, string, error)
}

// SearchRequest describes a text search with optional geographic bias.
type SearchRequest struct {
	Query      string
	Latitude   float64
	Longitude  float64
	RadiusM    float64 // 0 = no bias
	MaxResults int     // 0 = provider default
}

// PlaceSummary is the normalized shape of one search result.
type PlaceSummary struct {
	ID          string
	Name        string
	Address     string
	Latitude    float64
	Longitude   float64
	Rating      float64
	ReviewCount int
	PriceLevel  *int // 1–4, nil when the provider omits it
	PhotoRefs   []string
}

// PlaceDetails is the normalized shape of a details-by-id response.
type PlaceDetails struct {
	ID          string
	Name        string
	Phone       string
	Website     string
	MapsURL     string
	Rating      float64
	ReviewCount int
	Hours       map[string]string // weekday → hours text
	PhotoRefs   []string
	Reviews     []ReviewSnippet
}

// ReviewSnippet is one normalized provider review.
type ReviewSnippet struct {
	Author         string
	Rating         float64
	Text           string
	RelativeTime   string
	Time           int64
	AuthorPhotoURL string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outbound requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Places API client. A single attempt per call, with a
// request timeout; retry policy belongs to callers.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Provider wire shapes, internal to this package.

type searchTextRequest struct {
	TextQuery    string        `json:"textQuery"`
	MaxResults   int           `json:"maxResultCount,omitempty"`
	LocationBias *locationBias `json:"locationBias,omitempty"`
}

type locationBias struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type wirePlace struct {
	ID               string      `json:"id"`
	DisplayName      displayName `json:"displayName"`
	FormattedAddress string      `json:"formattedAddress"`
	Location         latLng      `json:"location"`
	Rating           float64     `json:"rating"`
	UserRatingCount  int         `json:"userRatingCount"`
	PriceLevel       string      `json:"priceLevel"`
	NationalPhone    string      `json:"nationalPhoneNumber"`
	WebsiteURI       string      `json:"websiteUri"`
	GoogleMapsURI    string      `json:"googleMapsUri"`
	OpeningHours     *struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
	Reviews []wireReview `json:"reviews"`
}

type displayName struct {
	Text string `json:"text"`
}

type wireReview struct {
	Rating float64 `json:"rating"`
	Text   struct {
		Text string `json:"text"`
	} `json:"text"`
	RelativePublishTimeDescription string `json:"relativePublishTimeDescription"`
	PublishTime                    string `json:"publishTime"`
	AuthorAttribution              struct {
		DisplayName string `json:"displayName"`
		PhotoURI    string `json:"photoUri"`
	} `json:"authorAttribution"`
}

type searchTextResponse struct {
	Places []wirePlace `json:"places"`
}

func (c *httpClient) SearchText(ctx context.Context, req SearchRequest) ([]PlaceSummary, error) {
	if req.Query == "" {
		return nil, eris.New("places: empty search query")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit")
	}

	wireReq := searchTextRequest{
		TextQuery:  req.Query,
		MaxResults: req.MaxResults,
	}
	if req.RadiusM > 0 {
		wireReq.LocationBias = &locationBias{
			Circle: circle{
				Center: latLng{Latitude: req.Latitude, Longitude: req.Longitude},
				Radius: req.RadiusM,
			},
		}
	}

	body, err := json.Marshal(wireReq)
	if err != nil {
		return nil, eris.Wrap(err, "places: marshal search request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "places: create search request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", searchFieldMask)

	respBody, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}

	var result searchTextResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal search response")
	}

	summaries := make([]PlaceSummary, 0, len(result.Places))
	for _, p := range result.Places {
		summaries = append(summaries, PlaceSummary{
			ID:          p.ID,
			Name:        p.DisplayName.Text,
			Address:     p.FormattedAddress,
			Latitude:    p.Location.Latitude,
			Longitude:   p.Location.Longitude,
			Rating:      p.Rating,
			ReviewCount: p.UserRatingCount,
			PriceLevel:  priceLevelTier(p.PriceLevel),
			PhotoRefs:   photoNames(p),
		})
	}
	return summaries, nil
}

// Details fetches the expanded record for a place id. A provider-side
// NOT_FOUND returns (nil, nil): absence, not an error.
func (c *httpClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if placeID == "" {
		return nil, eris.New("places: empty place id")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "places: rate limit")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/places/"+placeID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create details request")
	}
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", detailsFieldMask)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "places: details request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read details response")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var p wirePlace
	if err := json.Unmarshal(respBody, &p); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal details response")
	}

	details := &PlaceDetails{
		ID:          p.ID,
		Name:        p.DisplayName.Text,
		Phone:       p.NationalPhone,
		Website:     p.WebsiteURI,
		MapsURL:     p.GoogleMapsURI,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
		PhotoRefs:   photoNames(p),
	}
	if p.OpeningHours != nil {
		details.Hours = parseWeekdayDescriptions(p.OpeningHours.WeekdayDescriptions)
	}
	for _, r := range p.Reviews {
		details.Reviews = append(details.Reviews, ReviewSnippet{
			Author:         r.AuthorAttribution.DisplayName,
			Rating:         r.Rating,
			Text:           r.Text.Text,
			RelativeTime:   r.RelativePublishTimeDescription,
			Time:           parsePublishTime(r.PublishTime),
			AuthorPhotoURL: r.AuthorAttribution.PhotoURI,
		})
	}
	return details, nil
}

// PhotoMedia downloads the image bytes behind a photo reference. The media
// endpoint redirects to the binary; the default client follows it.
func (c *httpClient) PhotoMedia(ctx context.Context, photoRef string, maxWidthPx int) ([]byte, string, error) {
	if photoRef == "" {
		return nil, "", eris.New("places: empty photo reference")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", eris.Wrap(err, "places: rate limit")
	}
	if maxWidthPx <= 0 {
		maxWidthPx = 800
	}

	url := fmt.Sprintf("%s/%s/media?maxWidthPx=%d&key=%s", c.baseURL, photoRef, maxWidthPx, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", eris.Wrap(err, "places: create photo request")
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, "", eris.Wrap(err, "places: photo request")
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", eris.Wrap(err, "places: read photo response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", eris.Errorf("places: photo media status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func (c *httpClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "places: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "places: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("places: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func photoNames(p wirePlace) []string {
	if len(p.Photos) == 0 {
		return nil
	}
	refs := make([]string, 0, len(p.Photos))
	for _, ph := range p.Photos {
		if ph.Name != "" {
			refs = append(refs, ph.Name)
		}
	}
	return refs
}
