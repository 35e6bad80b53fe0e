package domain

import "time"

// Listing is one classified ad as returned by the search client. Every field
// except ID is optional; absent values stay at their zero value and pointer
// fields stay nil.
type Listing struct {
	ID           int64
	URL          string
	Title        string
	Body         string
	Status       string
	CategoryID   string
	CategoryName string

	Price *int

	FirstPublicationDate time.Time
	IndexDate            time.Time
	ExpirationDate       time.Time

	Images []string

	Location *ListingLocation
	Owner    *ListingOwner

	Attributes []ListingAttribute

	HasPhone bool
}

type ListingLocation struct {
	City           string
	Zipcode        string
	DepartmentName string
	RegionName     string
	Latitude       float64
	Longitude      float64
}

type ListingOwner struct {
	Type string
	Name string
}

// ListingAttribute is one entry of the category-specific attribute bag.
type ListingAttribute struct {
	Key        string
	Value      string
	Values     []string
	KeyLabel   string
	ValueLabel string
	Generic    bool
}

// ListingRecord is the flat key/value shape emitted to sinks.
type ListingRecord map[string]any

// Provenance tags stamped onto every normalized record.
type Provenance struct {
	Category string
	Location string
	URL      string
}
