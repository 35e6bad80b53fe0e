package lbcfetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"

	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// searchRequest is the JSON body of the finder API search call.
type searchRequest struct {
	Filters   searchFilters `json:"filters"`
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
	SortBy    string        `json:"sort_by"`
	SortOrder string        `json:"sort_order"`
}

type searchFilters struct {
	Category map[string]string      `json:"category,omitempty"`
	Keywords map[string]string      `json:"keywords,omitempty"`
	Location *searchLocation        `json:"location,omitempty"`
	Ranges   map[string]rangeBounds `json:"ranges,omitempty"`
	Enums    map[string][]string    `json:"enums,omitempty"`
}

type rangeBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type searchLocation struct {
	Locations []areaLocation `json:"locations,omitempty"`
	Shippable bool           `json:"shippable,omitempty"`
}

type areaLocation struct {
	LocationType string `json:"locationType"`
	Label        string `json:"label,omitempty"`
	Area         area   `json:"area"`
}

type area struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	RadiusM int     `json:"radius"`
}

// sortParams maps the domain sort onto the API's sort_by/sort_order pair.
var sortParams = map[domain.Sort]struct{ by, order string }{
	domain.SortNewest:    {"time", "desc"},
	domain.SortOldest:    {"time", "asc"},
	domain.SortCheapest:  {"price", "asc"},
	domain.SortExpensive: {"price", "desc"},
	domain.SortRelevance: {"relevance", "desc"},
}

// Search fetches one result page. A 403 caused by the Datadome protection is
// surfaced as an error carrying that marker so the crawl engine can classify
// the failure.
func (a *LbcFetcherAdapter) Search(ctx context.Context, query domain.SearchQuery, page, limit int) (*port.SearchPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	searchLogger := logger.WithFields(port.Fields{"component": "LbcFetcherAdapter(Search)", "page": page})

	payload, err := json.Marshal(buildSearchRequest(query, page, limit))
	if err != nil {
		return nil, fmt.Errorf("lbc adapter: failed to marshal search request: %w", err)
	}

	// one-shot clone inheriting the parent's limits with its own callbacks
	collector := a.collector.Clone()

	var result *port.SearchPage
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Content-Type", "application/json")
		r.Headers.Set("Accept", "application/json")
		r.Headers.Set("Origin", "https://www.leboncoin.fr")
		searchLogger.Debug("Making search request", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		var data searchResponse
		if jsonErr := json.Unmarshal(r.Body, &data); jsonErr != nil {
			responseErr = fmt.Errorf("lbc adapter: failed to parse search response for page %d: %w", page, jsonErr)
			return
		}
		result = toSearchPage(data, searchLogger)
	})

	collector.OnError(func(r *colly.Response, cbErr error) {
		if r.StatusCode == http.StatusForbidden && isDatadomeBody(r.Body) {
			responseErr = fmt.Errorf("lbc adapter: request blocked by Datadome on page %d (status %d)", page, r.StatusCode)
			return
		}
		responseErr = fmt.Errorf("lbc adapter: search request for page %d failed with status %d: %w", page, r.StatusCode, cbErr)
	})

	if err := collector.Request(http.MethodPost, a.searchURL, bytes.NewReader(payload), nil, nil); err != nil {
		return nil, fmt.Errorf("lbc adapter: failed to issue search request: %w", err)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}
	if result == nil {
		return nil, fmt.Errorf("lbc adapter: no response received for page %d", page)
	}

	searchLogger.Debug("Search page fetched", port.Fields{"listings": len(result.Ads)})
	return result, nil
}

func buildSearchRequest(query domain.SearchQuery, page, limit int) searchRequest {
	req := searchRequest{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	sp, ok := sortParams[query.Sort]
	if !ok {
		sp = sortParams[domain.SortNewest]
	}
	req.SortBy = sp.by
	req.SortOrder = sp.order

	if query.Category != "" {
		req.Filters.Category = map[string]string{"id": string(query.Category)}
	}
	if query.Text != "" {
		req.Filters.Keywords = map[string]string{"text": query.Text}
	}

	if len(query.Locations) > 0 || query.Shippable {
		loc := &searchLocation{Shippable: query.Shippable}
		for _, l := range query.Locations {
			loc.Locations = append(loc.Locations, areaLocation{
				LocationType: "area",
				Label:        l.Label,
				Area: area{
					Lat:     l.Latitude,
					Lng:     l.Longitude,
					RadiusM: l.RadiusM,
				},
			})
		}
		req.Filters.Location = loc
	}

	if len(query.Ranges) > 0 {
		req.Filters.Ranges = make(map[string]rangeBounds, len(query.Ranges))
		for key, r := range query.Ranges {
			req.Filters.Ranges[key] = rangeBounds{Min: r.Min, Max: r.Max}
		}
	}

	enums := make(map[string][]string)
	if query.AdType != "" {
		enums["ad_type"] = []string{string(query.AdType)}
	}
	if query.OwnerType != "" && query.OwnerType != domain.OwnerTypeAll {
		enums["owner_type"] = []string{string(query.OwnerType)}
	}
	for key, values := range query.Filters {
		enums[key] = values
	}
	if len(enums) > 0 {
		req.Filters.Enums = enums
	}

	return req
}

func isDatadomeBody(body []byte) bool {
	return bytes.Contains(bytes.ToLower(body), []byte("datadome"))
}
