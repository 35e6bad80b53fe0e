package lbcfetcher

import (
	"time"

	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// searchResponse is the finder API search result envelope.
type searchResponse struct {
	Total    int     `json:"total"`
	MaxPages int     `json:"max_pages"`
	Ads      []apiAd `json:"ads"`
}

type apiAd struct {
	ListID       int64  `json:"list_id"`
	URL          string `json:"url"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	Status       string `json:"status"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`

	FirstPublicationDate string `json:"first_publication_date"`
	IndexDate            string `json:"index_date"`
	ExpirationDate       string `json:"expiration_date"`

	// price comes as a single-element array
	Price []int `json:"price"`

	Images struct {
		URLs []string `json:"urls"`
	} `json:"images"`

	Location *apiLocation `json:"location"`
	Owner    *apiOwner    `json:"owner"`

	Attributes []apiAttribute `json:"attributes"`

	HasPhone bool `json:"has_phone"`
}

type apiLocation struct {
	City           string  `json:"city"`
	Zipcode        string  `json:"zipcode"`
	DepartmentName string  `json:"department_name"`
	RegionName     string  `json:"region_name"`
	Lat            float64 `json:"lat"`
	Lng            float64 `json:"lng"`
}

type apiOwner struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type apiAttribute struct {
	Key        string   `json:"key"`
	Value      string   `json:"value"`
	Values     []string `json:"values"`
	KeyLabel   string   `json:"key_label"`
	ValueLabel string   `json:"value_label"`
	Generic    bool     `json:"generic"`
}

// adTimeLayouts are the date formats the API is known to emit.
var adTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	time.RFC3339,
	"2006-01-02",
}

func toSearchPage(data searchResponse, logger port.LoggerPort) *port.SearchPage {
	page := &port.SearchPage{
		Total:    data.Total,
		MaxPages: data.MaxPages,
	}
	for _, ad := range data.Ads {
		page.Ads = append(page.Ads, toDomainListing(ad, logger))
	}
	return page
}

func toDomainListing(ad apiAd, logger port.LoggerPort) domain.Listing {
	listing := domain.Listing{
		ID:           ad.ListID,
		URL:          ad.URL,
		Title:        ad.Subject,
		Body:         ad.Body,
		Status:       ad.Status,
		CategoryID:   ad.CategoryID,
		CategoryName: ad.CategoryName,
		Images:       ad.Images.URLs,
		HasPhone:     ad.HasPhone,
	}

	if len(ad.Price) > 0 {
		price := ad.Price[0]
		listing.Price = &price
	}

	listing.FirstPublicationDate = parseAdTime(ad.FirstPublicationDate, "first_publication_date", ad.ListID, logger)
	listing.IndexDate = parseAdTime(ad.IndexDate, "index_date", ad.ListID, logger)
	listing.ExpirationDate = parseAdTime(ad.ExpirationDate, "expiration_date", ad.ListID, logger)

	if ad.Location != nil {
		listing.Location = &domain.ListingLocation{
			City:           ad.Location.City,
			Zipcode:        ad.Location.Zipcode,
			DepartmentName: ad.Location.DepartmentName,
			RegionName:     ad.Location.RegionName,
			Latitude:       ad.Location.Lat,
			Longitude:      ad.Location.Lng,
		}
	}

	if ad.Owner != nil {
		listing.Owner = &domain.ListingOwner{
			Type: ad.Owner.Type,
			Name: ad.Owner.Name,
		}
	}

	for _, attr := range ad.Attributes {
		listing.Attributes = append(listing.Attributes, domain.ListingAttribute{
			Key:        attr.Key,
			Value:      attr.Value,
			Values:     attr.Values,
			KeyLabel:   attr.KeyLabel,
			ValueLabel: attr.ValueLabel,
			Generic:    attr.Generic,
		})
	}

	return listing
}

// parseAdTime tries every known layout; an unparseable date is logged and
// left at the zero value rather than failing the listing.
func parseAdTime(value, field string, adID int64, logger port.LoggerPort) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range adTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	logger.Warn("Failed to parse listing date", port.Fields{
		"field": field,
		"value": value,
		"ad_id": adID,
	})
	return time.Time{}
}
