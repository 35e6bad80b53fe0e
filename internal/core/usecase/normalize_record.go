package usecase

import (
	"time"

	"github.com/mmcloughlin/geohash"

	"lbc-crawler-service/internal/core/domain"
)

const (
	recordTimeLayout = "2006-01-02 15:04:05"

	OutputFormatDetailed = "detailed"
	OutputFormatCompact  = "compact"
)

// RecordNormalizer flattens a listing into the sink record shape. The
// attribute deny-list and the output format are injected; the clock is
// injected so the scraped_at-only idempotence property is testable.
type RecordNormalizer struct {
	deny   map[string]struct{}
	format string
	now    func() time.Time
}

func NewRecordNormalizer(denyList []string, format string, now func() time.Time) *RecordNormalizer {
	deny := make(map[string]struct{}, len(denyList))
	for _, key := range denyList {
		deny[key] = struct{}{}
	}
	if format != OutputFormatCompact {
		format = OutputFormatDetailed
	}
	if now == nil {
		now = time.Now
	}
	return &RecordNormalizer{deny: deny, format: format, now: now}
}

// Normalize converts one listing into a flat record and stamps capture time
// and provenance. Absent optional fields are omitted, never nulled.
func (n *RecordNormalizer) Normalize(listing domain.Listing, prov domain.Provenance) domain.ListingRecord {
	var record domain.ListingRecord
	if n.format == OutputFormatCompact {
		record = n.compactRecord(listing)
	} else {
		record = n.detailedRecord(listing)
	}

	record["scraped_at"] = n.now().Format(recordTimeLayout)
	record["search_category"] = prov.Category
	record["search_location"] = prov.Location
	if prov.URL != "" {
		record["search_url"] = prov.URL
	}

	return record
}

func (n *RecordNormalizer) detailedRecord(listing domain.Listing) domain.ListingRecord {
	record := domain.ListingRecord{
		"id": listing.ID,
	}

	putString(record, "url", listing.URL)
	putString(record, "title", listing.Title)
	putString(record, "body", listing.Body)
	putString(record, "status", listing.Status)
	putString(record, "category_id", listing.CategoryID)
	putString(record, "category_name", listing.CategoryName)

	if listing.Price != nil {
		record["price"] = *listing.Price
	}

	putTime(record, "first_publication_date", listing.FirstPublicationDate)
	putTime(record, "index_date", listing.IndexDate)
	putTime(record, "expiration_date", listing.ExpirationDate)

	if len(listing.Images) > 0 {
		record["images"] = listing.Images
	}

	record["has_phone"] = listing.HasPhone

	if loc := listing.Location; loc != nil {
		putString(record, "location_city", loc.City)
		putString(record, "location_zipcode", loc.Zipcode)
		putString(record, "location_department", loc.DepartmentName)
		putString(record, "location_region", loc.RegionName)
		if loc.Latitude != 0 || loc.Longitude != 0 {
			record["location_lat"] = loc.Latitude
			record["location_lng"] = loc.Longitude
			record["location_geohash"] = geohash.Encode(loc.Latitude, loc.Longitude)
		}
	}

	if owner := listing.Owner; owner != nil {
		putString(record, "seller_type", owner.Type)
		putString(record, "seller_name", owner.Name)
	}

	for _, attr := range listing.Attributes {
		if attr.Key == "" {
			continue
		}
		if _, denied := n.deny[attr.Key]; denied {
			continue
		}
		key := "attribute_" + attr.Key
		if len(attr.Values) > 0 {
			record[key] = attr.Values
		} else if attr.Value != "" {
			record[key] = attr.Value
		}
	}

	return record
}

// compactRecord keeps identity, price, freshness and city only.
func (n *RecordNormalizer) compactRecord(listing domain.Listing) domain.ListingRecord {
	record := domain.ListingRecord{
		"id": listing.ID,
	}

	putString(record, "url", listing.URL)
	putString(record, "title", listing.Title)
	if listing.Price != nil {
		record["price"] = *listing.Price
	}
	putTime(record, "first_publication_date", listing.FirstPublicationDate)
	if listing.Location != nil {
		putString(record, "location_city", listing.Location.City)
	}

	return record
}

func putString(record domain.ListingRecord, key, value string) {
	if value != "" {
		record[key] = value
	}
}

func putTime(record domain.ListingRecord, key string, value time.Time) {
	if !value.IsZero() {
		record[key] = value.Format(recordTimeLayout)
	}
}
