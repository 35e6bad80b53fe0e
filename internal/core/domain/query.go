package domain

import "time"

// Category identifies a marketplace category family. The zero-ish value
// CategoryAll is the "all categories" sentinel used when an id cannot be
// resolved.
type Category string

const (
	CategoryAll          Category = "0"
	CategoryJobs         Category = "71"
	CategoryVehicles     Category = "1"
	CategoryRealEstate   Category = "8"
	CategoryHolidays     Category = "66"
	CategoryMultimedia   Category = "14"
	CategoryHomeGarden   Category = "18"
	CategoryFamily       Category = "79"
	CategoryFashion      Category = "72"
	CategoryLeisure      Category = "24"
	CategoryAnimals      Category = "75"
	CategoryProEquipment Category = "56"
	CategoryServices     Category = "31"
	CategoryDonations    Category = "1000"
	CategoryMisc         Category = "37"

	// Real-estate subcategories addressable via real_estate_type.
	CategoryRealEstateSales     Category = "9"
	CategoryRealEstateRentals   Category = "10"
	CategoryRealEstateFlatshare Category = "11"
	CategoryRealEstateOffices   Category = "13"
	CategoryRealEstateNew       Category = "2001"
)

// Sort is the combined sort+order the marketplace understands.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortCheapest  Sort = "cheapest"
	SortExpensive Sort = "expensive"
	SortRelevance Sort = "relevance"
)

type AdType string

const (
	AdTypeOffer  AdType = "offer"
	AdTypeDemand AdType = "demand"
)

type OwnerType string

const (
	OwnerTypeAll     OwnerType = "all"
	OwnerTypePrivate OwnerType = "private"
	OwnerTypePro     OwnerType = "pro"
)

// Range is a closed numeric interval. Open bounds are expressed with 0 and
// a large sentinel upper value chosen by the parser.
type Range struct {
	Min int
	Max int
}

// GeoLocation is a resolved place: explicit coordinates plus a search radius
// in meters. RadiusM of 0 means a point match.
type GeoLocation struct {
	Label      string
	PostalCode string
	Latitude   float64
	Longitude  float64
	RadiusM    int
}

// SearchQuery is the normalized set of search parameters sent to the
// marketplace. At most one category, one sort and one ad type per query;
// unknown URL parameters are carried verbatim in Filters.
type SearchQuery struct {
	Text      string
	Category  Category
	Locations []GeoLocation
	Sort      Sort
	AdType    AdType
	OwnerType OwnerType
	Shippable bool
	Ranges    map[string]Range
	Filters   map[string][]string
	PageSize  int
}

// IsZero reports whether the query carries no parameters at all. A URL with
// no query string parses to a zero query, which signals the caller to fall
// back to direct arguments.
func (q SearchQuery) IsZero() bool {
	return q.Text == "" &&
		q.Category == "" &&
		len(q.Locations) == 0 &&
		q.Sort == "" &&
		q.AdType == "" &&
		q.OwnerType == "" &&
		!q.Shippable &&
		len(q.Ranges) == 0 &&
		len(q.Filters) == 0 &&
		q.PageSize == 0
}

// QueryTask couples a built query with its provenance for record stamping.
type QueryTask struct {
	Label     string
	SourceURL string
	Query     SearchQuery
}

// CrawlSettings are the run-wide knobs of the crawl engine.
type CrawlSettings struct {
	MaxPages            int
	PageSize            int
	PageDelay           time.Duration
	QueryDelay          time.Duration
	MaxAgeDays          int
	ConsecutiveOldLimit int
	OutputFormat        string
}
