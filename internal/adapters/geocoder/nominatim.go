package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"

	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/port"
)

const (
	nominatimDomain = "nominatim.openstreetmap.org"
	searchEndpoint  = "https://nominatim.openstreetmap.org/search"
	requestTimeout  = 5 * time.Second
)

// NominatimAdapter resolves place names through the OpenStreetMap Nominatim
// API. Used only as the fallback behind the static city table, so the rate
// limit is deliberately conservative.
type NominatimAdapter struct {
	collector *colly.Collector
}

func NewNominatimAdapter() (*NominatimAdapter, error) {
	c := colly.NewCollector(colly.AllowedDomains(nominatimDomain), colly.AllowURLRevisit())
	c.SetRequestTimeout(requestTimeout)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  nominatimDomain,
		Parallelism: 1,
		Delay:       1 * time.Second, // Nominatim usage policy
	})
	if err != nil {
		return nil, fmt.Errorf("NominatimAdapter: failed to set limit rule: %w", err)
	}

	return &NominatimAdapter{collector: c}, nil
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Locate resolves a place name in France to coordinates. The call is bounded
// by the collector's request timeout.
func (a *NominatimAdapter) Locate(ctx context.Context, place string) (float64, float64, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "NominatimAdapter"})

	params := url.Values{}
	params.Set("q", place)
	params.Set("countrycodes", "fr")
	params.Set("format", "json")
	params.Set("limit", "1")
	targetURL := searchEndpoint + "?" + params.Encode()

	collector := a.collector.Clone()

	var lat, lng float64
	var found bool
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "application/json")
	})

	collector.OnResponse(func(r *colly.Response) {
		var results []nominatimResult
		if err := json.Unmarshal(r.Body, &results); err != nil {
			responseErr = fmt.Errorf("geocoder: failed to parse response for %q: %w", place, err)
			return
		}
		if len(results) == 0 {
			return
		}

		var latErr, lngErr error
		lat, latErr = strconv.ParseFloat(results[0].Lat, 64)
		lng, lngErr = strconv.ParseFloat(results[0].Lon, 64)
		if latErr != nil || lngErr != nil {
			responseErr = fmt.Errorf("geocoder: bad coordinates in response for %q", place)
			return
		}
		found = true
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("geocoder: request for %q failed with status %d: %w", place, r.StatusCode, err)
	})

	if err := collector.Visit(targetURL); err != nil {
		return 0, 0, fmt.Errorf("geocoder: failed to visit %s: %w", targetURL, err)
	}
	collector.Wait()

	if responseErr != nil {
		return 0, 0, responseErr
	}
	if !found {
		return 0, 0, fmt.Errorf("geocoder: no result for %q", place)
	}

	logger.Debug("Geocoded place", port.Fields{"place": place, "lat": lat, "lng": lng})
	return lat, lng, nil
}
