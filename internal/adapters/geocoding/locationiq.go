package geocoding

import (
	"context"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const DefaultLocationIQBaseURL = "https://us1.locationiq.com"

// LocationIQGeocoder implements ports.Geocoder using the LocationIQ search API.
// It is safe for concurrent use.
type LocationIQGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	limit   int
	// First retry delay; doubles on each further attempt.
	backoff time.Duration
}

func NewLocationIQGeocoder(apiKey, baseURL string) (*LocationIQGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("LocationIQ api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultLocationIQBaseURL
	}

	return &LocationIQGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   10,
		backoff: 200 * time.Millisecond,
	}, nil
}

// LocationIQ returns coordinates as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text address into candidate locations, best match
// first. LocationIQ answers 404 when nothing matches; that is an empty result.
func (g *LocationIQGeocoder) Geocode(ctx context.Context, address string) (_ []ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "locationiq.Geocode")(&err)

	q := normalize(address)
	if q == "" {
		return nil, errors.New("geocode: address must be non-empty")
	}

	endpoint := g.baseURL + "/v1/search"

	resp, err := g.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		params := req.URL.Query()
		params.Set("key", g.apiKey)
		params.Set("q", q)
		params.Set("format", "json")
		params.Set("limit", strconv.Itoa(g.limit))
		req.URL.RawQuery = params.Encode()
		return req, nil
	})
	var he *httpStatusError
	if errors.As(err, &he) && he.Code == http.StatusNotFound {
		return []ports.GeocodeResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", q, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}

	out := make([]ports.GeocodeResult, 0, len(decoded))
	for _, r := range decoded {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q for %q: %w", r.Lat, q, err)
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q for %q: %w", r.Lon, q, err)
		}
		out = append(out, ports.GeocodeResult{Lat: lat, Lon: lon, DisplayName: r.DisplayName})
	}

	return out, nil
}
