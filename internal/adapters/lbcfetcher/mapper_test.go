package lbcfetcher

import (
	"context"
	"testing"
	"time"

	"lbc-crawler-service/internal/contextkeys"
)

func TestToDomainListing(t *testing.T) {
	logger := contextkeys.LoggerFromContext(context.Background())

	ad := apiAd{
		ListID:               12345,
		URL:                  "https://www.leboncoin.fr/ad/12345",
		Subject:              "VTT taille M",
		Body:                 "Très bon état",
		Status:               "active",
		CategoryID:           "55",
		CategoryName:         "Vélos",
		FirstPublicationDate: "2024-05-10 09:30:00",
		IndexDate:            "2024-05-12T08:00:00.000Z",
		Price:                []int{1200},
		Location: &apiLocation{
			City:    "Nantes",
			Zipcode: "44000",
			Lat:     47.218,
			Lng:     -1.553,
		},
		Owner: &apiOwner{Type: "private", Name: "Jean"},
		Attributes: []apiAttribute{
			{Key: "condition", Value: "good", KeyLabel: "État"},
		},
		HasPhone: true,
	}

	listing := toDomainListing(ad, logger)

	if listing.ID != 12345 {
		t.Errorf("ID = %d, want 12345", listing.ID)
	}
	if listing.Title != "VTT taille M" {
		t.Errorf("Title = %q", listing.Title)
	}
	if listing.Price == nil || *listing.Price != 1200 {
		t.Errorf("Price = %v, want 1200", listing.Price)
	}
	want := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	if !listing.FirstPublicationDate.Equal(want) {
		t.Errorf("FirstPublicationDate = %v, want %v", listing.FirstPublicationDate, want)
	}
	if listing.IndexDate.IsZero() {
		t.Errorf("IndexDate did not parse from the ISO layout")
	}
	if listing.Location == nil || listing.Location.City != "Nantes" {
		t.Errorf("Location = %+v, want Nantes", listing.Location)
	}
	if listing.Owner == nil || listing.Owner.Type != "private" {
		t.Errorf("Owner = %+v, want private", listing.Owner)
	}
	if len(listing.Attributes) != 1 || listing.Attributes[0].Key != "condition" {
		t.Errorf("Attributes = %+v", listing.Attributes)
	}
	if !listing.HasPhone {
		t.Errorf("HasPhone = false, want true")
	}
}

func TestToDomainListingEmptyPrice(t *testing.T) {
	logger := contextkeys.LoggerFromContext(context.Background())

	listing := toDomainListing(apiAd{ListID: 1}, logger)
	if listing.Price != nil {
		t.Errorf("Price = %v, want nil for a priceless ad", listing.Price)
	}
}

func TestParseAdTime(t *testing.T) {
	logger := contextkeys.LoggerFromContext(context.Background())

	cases := []struct {
		value    string
		wantZero bool
	}{
		{"2024-05-10 09:30:00", false},
		{"2024-05-10T09:30:00.000Z", false},
		{"2024-05-10T09:30:00Z", false},
		{"2024-05-10", false},
		{"", true},
		{"not-a-date", true},
	}

	for _, tc := range cases {
		got := parseAdTime(tc.value, "first_publication_date", 1, logger)
		if got.IsZero() != tc.wantZero {
			t.Errorf("parseAdTime(%q) zero = %v, want %v", tc.value, got.IsZero(), tc.wantZero)
		}
	}
}

func TestToSearchPage(t *testing.T) {
	logger := contextkeys.LoggerFromContext(context.Background())

	page := toSearchPage(searchResponse{
		Total:    120,
		MaxPages: 4,
		Ads:      []apiAd{{ListID: 1}, {ListID: 2}},
	}, logger)

	if page.Total != 120 || page.MaxPages != 4 {
		t.Errorf("counts = %d/%d, want 120/4", page.Total, page.MaxPages)
	}
	if len(page.Ads) != 2 {
		t.Errorf("Ads = %d, want 2", len(page.Ads))
	}
}
