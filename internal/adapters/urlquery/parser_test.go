package urlquery

import (
	"context"
	"testing"

	"lbc-crawler-service/internal/constants"
	"lbc-crawler-service/internal/core/domain"
)

func newTestParser(geocoder *fakeGeocoder) *Parser {
	tables := DefaultTables()
	tables.Cities = map[string]constants.CityCoord{
		"paris": {Latitude: 48.8566, Longitude: 2.3522, PostalCode: "75000"},
		"lyon":  {Latitude: 45.7640, Longitude: 4.8357, PostalCode: "69000"},
	}
	tables.FallbackCity = "paris"
	if geocoder == nil {
		return NewParser(tables, nil)
	}
	return NewParser(tables, geocoder)
}

func TestParseRange(t *testing.T) {
	p := newTestParser(nil)

	cases := []struct {
		input    string
		wantMin  int
		wantMax  int
		wantForm RangeForm
	}{
		{"min-1600", 0, 1600, RangeOpenMin},
		{"2020-max", 2020, constants.OpenUpperBound, RangeOpenMax},
		{"100-200", 100, 200, RangeClosed},
		{"500", 500, 500, RangeSingle},
	}

	for _, tc := range cases {
		r, form, err := p.ParseRange(tc.input)
		if err != nil {
			t.Errorf("ParseRange(%q) returned error: %v", tc.input, err)
			continue
		}
		if r.Min != tc.wantMin || r.Max != tc.wantMax {
			t.Errorf("ParseRange(%q) = (%d, %d), want (%d, %d)", tc.input, r.Min, r.Max, tc.wantMin, tc.wantMax)
		}
		if form != tc.wantForm {
			t.Errorf("ParseRange(%q) form = %s, want %s", tc.input, form, tc.wantForm)
		}
	}
}

func TestParseRangeErrors(t *testing.T) {
	p := newTestParser(nil)

	for _, input := range []string{"abc", "min-abc", "abc-max", "10-20-30", ""} {
		if _, _, err := p.ParseRange(input); err == nil {
			t.Errorf("ParseRange(%q) expected error, got nil", input)
		}
	}
}

func TestParseURLWithoutQueryString(t *testing.T) {
	p := newTestParser(nil)

	query, err := p.Parse(context.Background(), "https://www.leboncoin.fr/recherche")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !query.IsZero() {
		t.Errorf("expected zero query for URL without parameters, got %+v", query)
	}
}

func TestParseFullSearchURL(t *testing.T) {
	p := newTestParser(nil)

	rawURL := "https://www.leboncoin.fr/recherche?text=velo&category=1&price=500-max&shippable=1&page=3"
	query, err := p.Parse(context.Background(), rawURL)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if query.Text != "velo" {
		t.Errorf("Text = %q, want %q", query.Text, "velo")
	}
	if query.Category != domain.CategoryVehicles {
		t.Errorf("Category = %q, want %q", query.Category, domain.CategoryVehicles)
	}
	r, ok := query.Ranges["price"]
	if !ok {
		t.Fatalf("price range missing from query")
	}
	if r.Min != 500 || r.Max != constants.OpenUpperBound {
		t.Errorf("price range = (%d, %d), want (500, %d)", r.Min, r.Max, constants.OpenUpperBound)
	}
	if !query.Shippable {
		t.Errorf("Shippable = false, want true")
	}
	if _, leaked := query.Filters["page"]; leaked {
		t.Errorf("page parameter leaked into filters")
	}

	// defaults kick in for everything the URL does not set
	if query.Sort != domain.SortNewest {
		t.Errorf("Sort = %q, want default %q", query.Sort, domain.SortNewest)
	}
	if query.AdType != domain.AdTypeOffer {
		t.Errorf("AdType = %q, want default %q", query.AdType, domain.AdTypeOffer)
	}
	if query.PageSize != constants.DefaultPageSize {
		t.Errorf("PageSize = %d, want %d", query.PageSize, constants.DefaultPageSize)
	}
}

func TestParseSortOrderCoupling(t *testing.T) {
	p := newTestParser(nil)

	cases := []struct {
		params string
		want   domain.Sort
	}{
		{"sort=time&order=desc", domain.SortNewest},
		{"sort=time&order=asc", domain.SortOldest},
		{"sort=price&order=asc", domain.SortCheapest},
		{"sort=price&order=desc", domain.SortExpensive},
		{"sort=relevance", domain.SortRelevance},
		{"order=asc", domain.SortNewest}, // order alone cannot pick a sort
	}

	for _, tc := range cases {
		query, err := p.Parse(context.Background(), "https://www.leboncoin.fr/recherche?"+tc.params)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %v", tc.params, err)
			continue
		}
		if query.Sort != tc.want {
			t.Errorf("Parse(%q) sort = %q, want %q", tc.params, query.Sort, tc.want)
		}
	}
}

func TestParseCategoryFallbacks(t *testing.T) {
	p := newTestParser(nil)

	query, err := p.Parse(context.Background(), "https://www.leboncoin.fr/recherche?category=424242")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if query.Category != domain.CategoryAll {
		t.Errorf("unknown numeric category = %q, want %q", query.Category, domain.CategoryAll)
	}

	query, err = p.Parse(context.Background(), "https://www.leboncoin.fr/recherche?category=bikes")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if query.Category != "" {
		t.Errorf("non-numeric category should be dropped, got %q", query.Category)
	}
}

func TestParseRealEstateTypeOverridesCategory(t *testing.T) {
	p := newTestParser(nil)

	query, err := p.Parse(context.Background(), "https://www.leboncoin.fr/recherche?category=9&real_estate_type=4")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if query.Category != domain.CategoryRealEstateFlatshare {
		t.Errorf("Category = %q, want %q", query.Category, domain.CategoryRealEstateFlatshare)
	}
}

func TestParseGenericFallback(t *testing.T) {
	p := newTestParser(nil)

	rawURL := "https://www.leboncoin.fr/recherche?fuel=1,2&mileage=min-100000&condition=new&year_built=1990-2000"
	query, err := p.Parse(context.Background(), rawURL)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	// mileage is a known range key
	if r := query.Ranges["mileage"]; r.Min != 0 || r.Max != 100000 {
		t.Errorf("mileage range = (%d, %d), want (0, 100000)", r.Min, r.Max)
	}
	// unknown key with a range-shaped value also lands in ranges
	if r := query.Ranges["year_built"]; r.Min != 1990 || r.Max != 2000 {
		t.Errorf("year_built range = (%d, %d), want (1990, 2000)", r.Min, r.Max)
	}
	if got := query.Filters["fuel"]; len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Errorf("fuel filter = %v, want [1 2]", got)
	}
	if got := query.Filters["condition"]; len(got) != 1 || got[0] != "new" {
		t.Errorf("condition filter = %v, want [new]", got)
	}
}

func TestFromFilterArgs(t *testing.T) {
	p := newTestParser(nil)

	args := FilterArgs{
		Text:     "guitare",
		Category: "71",
		Sort:     "price",
		Order:    "asc",
		AdType:   "demand",
		Ranges:   map[string]string{"price": "100-200", "rooms": "broken"},
		Filters:  map[string][]string{"condition": {"new", "like_new"}},
	}

	query, err := p.FromFilterArgs(context.Background(), args)
	if err != nil {
		t.Fatalf("FromFilterArgs returned error: %v", err)
	}

	if query.Text != "guitare" {
		t.Errorf("Text = %q, want %q", query.Text, "guitare")
	}
	if query.Category != domain.CategoryJobs {
		t.Errorf("Category = %q, want %q", query.Category, domain.CategoryJobs)
	}
	if query.Sort != domain.SortCheapest {
		t.Errorf("Sort = %q, want %q", query.Sort, domain.SortCheapest)
	}
	if query.AdType != domain.AdTypeDemand {
		t.Errorf("AdType = %q, want %q", query.AdType, domain.AdTypeDemand)
	}
	if r := query.Ranges["price"]; r.Min != 100 || r.Max != 200 {
		t.Errorf("price range = (%d, %d), want (100, 200)", r.Min, r.Max)
	}
	if _, ok := query.Ranges["rooms"]; ok {
		t.Errorf("unparseable range should be skipped, got %v", query.Ranges["rooms"])
	}
	if got := query.Filters["condition"]; len(got) != 2 {
		t.Errorf("condition filter = %v, want two values", got)
	}
	if query.PageSize != constants.DefaultPageSize {
		t.Errorf("PageSize = %d, want default %d", query.PageSize, constants.DefaultPageSize)
	}
}
