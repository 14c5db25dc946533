package mandi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"krishi-route/internal/geo"
)

// feedTimeout bounds the live price feed call; on expiry the caller falls
// back to mock data.
const feedTimeout = 5 * time.Second

// FeedClient talks to the external mandi price feed (Agmarknet-style API).
type FeedClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	group   singleflight.Group
}

// NewFeedClient creates a feed client for the given endpoint and key.
func NewFeedClient(baseURL, apiKey string) *FeedClient {
	return &FeedClient{
		http:    &http.Client{Timeout: feedTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Configured reports whether the client has enough settings to attempt a
// live fetch.
func (c *FeedClient) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// feedResponse is the explicit schema boundary for the external feed.
// Numeric fields arrive as strings; unparseable values become zero.
type feedResponse struct {
	Records []feedRecord `json:"records"`
}

type feedRecord struct {
	Market      string `json:"market"`
	State       string `json:"state"`
	District    string `json:"district"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	ModalPrice  string `json:"modal_price"`
	ArrivalDate string `json:"arrival_date"`
}

// FetchQuotes queries the live feed for the given crop and transforms the
// records into quotes. Records with no usable geocoding (exactly 0,0) are
// dropped. Concurrent calls for the same crop are coalesced.
func (c *FeedClient) FetchQuotes(ctx context.Context, crop string) ([]*Quote, error) {
	v, err, _ := c.group.Do(crop, func() (interface{}, error) {
		return c.fetchQuotes(ctx, crop)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Quote), nil
}

func (c *FeedClient) fetchQuotes(ctx context.Context, crop string) ([]*Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, feedTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")
	q.Set("filters[commodity]", crop)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("feed %d: %s", resp.StatusCode, string(body))
	}

	var payload feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode feed response: %w", err)
	}
	return transformFeedRecords(payload.Records), nil
}

// transformFeedRecords converts raw feed records into quotes, defaulting
// unparsable numbers to 0 and discarding entries with missing geocoding.
func transformFeedRecords(records []feedRecord) []*Quote {
	quotes := make([]*Quote, 0, len(records))
	for _, r := range records {
		loc := geo.Location{
			Lat: parseFloatOrZero(r.Latitude),
			Lng: parseFloatOrZero(r.Longitude),
		}
		if loc.IsZero() {
			continue
		}
		price := parseFloatOrZero(r.ModalPrice)
		updated, _ := time.Parse("2006-01-02", r.ArrivalDate)
		quotes = append(quotes, &Quote{
			Name:            r.Market,
			State:           r.State,
			District:        r.District,
			Location:        loc,
			PricePerQuintal: price,
			Unit:            "Quintal",
			UpdatedAt:       updated,
			Source:          SourceLive,
		})
	}
	return quotes
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
