package urlquery

import (
	"context"
	"fmt"
	"math"
	"testing"

	"lbc-crawler-service/internal/constants"
)

type fakeGeocoder struct {
	lat, lng float64
	err      error
	calls    int
}

func (f *fakeGeocoder) Locate(_ context.Context, _ string) (float64, float64, error) {
	f.calls++
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.lat, f.lng, nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParseLocationWithCoordinates(t *testing.T) {
	p := newTestParser(nil)

	loc, resolution, err := p.ParseLocation(context.Background(), "Nantes_44000__47.218_-1.553_5000")
	if err != nil {
		t.Fatalf("ParseLocation returned error: %v", err)
	}
	if resolution != ResolvedFromURL {
		t.Errorf("resolution = %s, want %s", resolution, ResolvedFromURL)
	}
	if !almostEqual(loc.Latitude, 47.218) || !almostEqual(loc.Longitude, -1.553) {
		t.Errorf("coordinates = (%f, %f), want (47.218, -1.553)", loc.Latitude, loc.Longitude)
	}
	if loc.RadiusM != 5000 {
		t.Errorf("RadiusM = %d, want 5000", loc.RadiusM)
	}
	if loc.PostalCode != "44000" {
		t.Errorf("PostalCode = %q, want %q", loc.PostalCode, "44000")
	}
	if loc.Label != "Nantes" {
		t.Errorf("Label = %q, want %q", loc.Label, "Nantes")
	}
}

func TestParseLocationDefaultRadius(t *testing.T) {
	p := newTestParser(nil)

	loc, _, err := p.ParseLocation(context.Background(), "Nantes_44000__47.218_-1.553")
	if err != nil {
		t.Fatalf("ParseLocation returned error: %v", err)
	}
	if loc.RadiusM != constants.DefaultRadiusMeters {
		t.Errorf("RadiusM = %d, want default %d", loc.RadiusM, constants.DefaultRadiusMeters)
	}
}

func TestParseLocationBadCoordinates(t *testing.T) {
	p := newTestParser(nil)

	for _, descriptor := range []string{
		"Nulle_Part__abc_def",
		"Nulle_Part__95.0_3.0",   // latitude out of range
		"Nulle_Part__45.0_181.0", // longitude out of range
		"Nulle_Part__45.0",
		"Nulle_Part__45.0_3.0_-5",
	} {
		if _, _, err := p.ParseLocation(context.Background(), descriptor); err == nil {
			t.Errorf("ParseLocation(%q) expected error, got nil", descriptor)
		}
	}
}

func TestResolveFromTable(t *testing.T) {
	p := newTestParser(nil)

	loc, resolution, err := p.ParseLocation(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("ParseLocation returned error: %v", err)
	}
	if resolution != ResolvedFromTable {
		t.Errorf("resolution = %s, want %s", resolution, ResolvedFromTable)
	}
	if !almostEqual(loc.Latitude, 48.8566) || !almostEqual(loc.Longitude, 2.3522) {
		t.Errorf("coordinates = (%f, %f), want table entry for paris", loc.Latitude, loc.Longitude)
	}
	if loc.PostalCode != "75000" {
		t.Errorf("PostalCode = %q, want table default %q", loc.PostalCode, "75000")
	}
	if loc.RadiusM != constants.ResolvedPlaceRadiusMeters {
		t.Errorf("RadiusM = %d, want point-match radius %d", loc.RadiusM, constants.ResolvedPlaceRadiusMeters)
	}
}

func TestResolveFromTableFuzzy(t *testing.T) {
	p := newTestParser(nil)

	loc, resolution, err := p.ParseLocation(context.Background(), "Grand Paris")
	if err != nil {
		t.Fatalf("ParseLocation returned error: %v", err)
	}
	if resolution != ResolvedFromTableFuzzy {
		t.Errorf("resolution = %s, want %s", resolution, ResolvedFromTableFuzzy)
	}
	if !almostEqual(loc.Latitude, 48.8566) {
		t.Errorf("latitude = %f, want fuzzy match on paris", loc.Latitude)
	}
}

func TestResolveViaGeocoder(t *testing.T) {
	geo := &fakeGeocoder{lat: 43.6045, lng: 1.4442}
	p := newTestParser(geo)

	loc, resolution, err := p.ParseLocation(context.Background(), "Toulouse")
	if err != nil {
		t.Fatalf("ParseLocation returned error: %v", err)
	}
	if resolution != ResolvedFromGeocoder {
		t.Errorf("resolution = %s, want %s", resolution, ResolvedFromGeocoder)
	}
	if geo.calls != 1 {
		t.Errorf("geocoder calls = %d, want 1", geo.calls)
	}
	if !almostEqual(loc.Latitude, 43.6045) || !almostEqual(loc.Longitude, 1.4442) {
		t.Errorf("coordinates = (%f, %f), want geocoder result", loc.Latitude, loc.Longitude)
	}
	if loc.RadiusM != constants.ResolvedPlaceRadiusMeters {
		t.Errorf("RadiusM = %d, want %d", loc.RadiusM, constants.ResolvedPlaceRadiusMeters)
	}
}

func TestResolveFallbackCity(t *testing.T) {
	geo := &fakeGeocoder{err: fmt.Errorf("no result")}
	p := newTestParser(geo)

	loc, resolution, err := p.ParseLocation(context.Background(), "Trifouillis")
	if err != nil {
		t.Fatalf("ParseLocation returned error: %v", err)
	}
	if resolution != ResolvedFallback {
		t.Errorf("resolution = %s, want %s", resolution, ResolvedFallback)
	}
	if !almostEqual(loc.Latitude, 48.8566) {
		t.Errorf("latitude = %f, want fallback city coordinates", loc.Latitude)
	}
	// the descriptor's name is kept even when the coordinates fall back
	if loc.Label != "Trifouillis" {
		t.Errorf("Label = %q, want %q", loc.Label, "Trifouillis")
	}
}

func TestSplitCityAndPostal(t *testing.T) {
	cases := []struct {
		input      string
		wantName   string
		wantPostal string
	}{
		{"Aix_en_Provence_13100", "Aix_en_Provence", "13100"},
		{"Lyon", "Lyon", ""},
		{"Saint_Denis", "Saint_Denis", ""},
		{"Paris_75011", "Paris", "75011"},
	}

	for _, tc := range cases {
		name, postal := splitCityAndPostal(tc.input)
		if name != tc.wantName || postal != tc.wantPostal {
			t.Errorf("splitCityAndPostal(%q) = (%q, %q), want (%q, %q)",
				tc.input, name, postal, tc.wantName, tc.wantPostal)
		}
	}
}

func TestParseLocationsDropsBadDescriptors(t *testing.T) {
	p := newTestParser(nil)

	locations := p.parseLocations(context.Background(), "Paris,Bad__xx_yy,Lyon")
	if len(locations) != 2 {
		t.Fatalf("got %d locations, want 2", len(locations))
	}
	if locations[0].Label != "Paris" || locations[1].Label != "Lyon" {
		t.Errorf("labels = %q, %q, want Paris, Lyon", locations[0].Label, locations[1].Label)
	}
}
