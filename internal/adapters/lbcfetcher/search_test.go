package lbcfetcher

import (
	"testing"

	"lbc-crawler-service/internal/core/domain"
)

func TestBuildSearchRequest(t *testing.T) {
	query := domain.SearchQuery{
		Text:     "velo",
		Category: domain.CategoryVehicles,
		Locations: []domain.GeoLocation{
			{Label: "Nantes", Latitude: 47.218, Longitude: -1.553, RadiusM: 5000},
		},
		Sort:      domain.SortCheapest,
		AdType:    domain.AdTypeOffer,
		OwnerType: domain.OwnerTypePrivate,
		Ranges:    map[string]domain.Range{"price": {Min: 100, Max: 500}},
		Filters:   map[string][]string{"fuel": {"1", "2"}},
	}

	req := buildSearchRequest(query, 3, 35)

	if req.Limit != 35 || req.Offset != 70 {
		t.Errorf("limit/offset = %d/%d, want 35/70", req.Limit, req.Offset)
	}
	if req.SortBy != "price" || req.SortOrder != "asc" {
		t.Errorf("sort = %s/%s, want price/asc", req.SortBy, req.SortOrder)
	}
	if req.Filters.Category["id"] != "1" {
		t.Errorf("category id = %q, want 1", req.Filters.Category["id"])
	}
	if req.Filters.Keywords["text"] != "velo" {
		t.Errorf("keywords = %v", req.Filters.Keywords)
	}
	if req.Filters.Location == nil || len(req.Filters.Location.Locations) != 1 {
		t.Fatalf("location block = %+v, want one area", req.Filters.Location)
	}
	area := req.Filters.Location.Locations[0]
	if area.LocationType != "area" || area.Area.RadiusM != 5000 {
		t.Errorf("area = %+v", area)
	}
	if r := req.Filters.Ranges["price"]; r.Min != 100 || r.Max != 500 {
		t.Errorf("price range = %+v, want 100-500", r)
	}
	if got := req.Filters.Enums["ad_type"]; len(got) != 1 || got[0] != "offer" {
		t.Errorf("ad_type enum = %v, want [offer]", got)
	}
	if got := req.Filters.Enums["owner_type"]; len(got) != 1 || got[0] != "private" {
		t.Errorf("owner_type enum = %v, want [private]", got)
	}
	if got := req.Filters.Enums["fuel"]; len(got) != 2 {
		t.Errorf("fuel enum = %v, want two values", got)
	}
}

func TestBuildSearchRequestDefaults(t *testing.T) {
	req := buildSearchRequest(domain.SearchQuery{OwnerType: domain.OwnerTypeAll}, 1, 35)

	if req.Offset != 0 {
		t.Errorf("offset = %d, want 0 for the first page", req.Offset)
	}
	// unknown sort falls back to newest-first
	if req.SortBy != "time" || req.SortOrder != "desc" {
		t.Errorf("sort = %s/%s, want time/desc", req.SortBy, req.SortOrder)
	}
	if req.Filters.Category != nil {
		t.Errorf("category block = %v, want absent", req.Filters.Category)
	}
	// owner_type "all" is not an API filter
	if _, ok := req.Filters.Enums["owner_type"]; ok {
		t.Errorf("owner_type=all must not reach the enums")
	}
	if req.Filters.Location != nil {
		t.Errorf("location block = %+v, want absent", req.Filters.Location)
	}
}

func TestBuildSearchRequestShippableOnly(t *testing.T) {
	req := buildSearchRequest(domain.SearchQuery{Shippable: true}, 1, 35)

	if req.Filters.Location == nil || !req.Filters.Location.Shippable {
		t.Errorf("shippable flag must produce a location block, got %+v", req.Filters.Location)
	}
}

func TestIsDatadomeBody(t *testing.T) {
	if !isDatadomeBody([]byte(`{"error":"blocked by DataDome"}`)) {
		t.Errorf("mixed-case marker not detected")
	}
	if isDatadomeBody([]byte(`{"error":"forbidden"}`)) {
		t.Errorf("false positive on an unrelated body")
	}
}
