package constants

import "lbc-crawler-service/internal/core/domain"

// Canonical engine defaults. The radius and page-cap values were historically
// inconsistent across crawler revisions; these are the chosen defaults.
const (
	DefaultPageSize = 35

	// Radius applied when a coordinate descriptor omits its radius part.
	DefaultRadiusMeters = 10000

	// Radius applied when a place was resolved by name (point match).
	ResolvedPlaceRadiusMeters = 0

	// Upper bound substituted for "X-max" open ranges.
	OpenUpperBound = 9999999

	// Page cap substituted when max_pages is 0 (unlimited).
	UnlimitedPagesCap = 99999

	DefaultConsecutiveOldLimit = 5

	// The batch buffer is flushed to the sink once it holds this many pages
	// worth of records.
	BatchPagesPerFlush = 10
)

// CategoryIDMap resolves a URL category id to its category family.
// Unresolvable ids fall back to domain.CategoryAll, never an error.
var CategoryIDMap = map[string]domain.Category{
	"0": domain.CategoryAll,

	// Emploi
	"71": domain.CategoryJobs,
	"33": domain.CategoryJobs,
	"74": domain.CategoryJobs,

	// Véhicules
	"1":   domain.CategoryVehicles,
	"2":   domain.CategoryVehicles,
	"3":   domain.CategoryVehicles,
	"4":   domain.CategoryVehicles,
	"5":   domain.CategoryVehicles,
	"300": domain.CategoryVehicles,
	"7":   domain.CategoryVehicles,
	"6":   domain.CategoryVehicles,
	"44":  domain.CategoryVehicles,
	"50":  domain.CategoryVehicles,
	"51":  domain.CategoryVehicles,

	// Immobilier
	"8":    domain.CategoryRealEstate,
	"9":    domain.CategoryRealEstate,
	"2001": domain.CategoryRealEstate,
	"10":   domain.CategoryRealEstate,
	"11":   domain.CategoryRealEstate,
	"13":   domain.CategoryRealEstate,

	// Locations de vacances
	"66": domain.CategoryHolidays,
	"12": domain.CategoryHolidays,

	// Électronique
	"14": domain.CategoryMultimedia,
	"15": domain.CategoryMultimedia,
	"83": domain.CategoryMultimedia,
	"82": domain.CategoryMultimedia,
	"16": domain.CategoryMultimedia,
	"17": domain.CategoryMultimedia,
	"81": domain.CategoryMultimedia,
	"43": domain.CategoryMultimedia,
	"84": domain.CategoryMultimedia,

	// Maison & Jardin
	"18": domain.CategoryHomeGarden,
	"19": domain.CategoryHomeGarden,
	"96": domain.CategoryHomeGarden,
	"20": domain.CategoryHomeGarden,
	"45": domain.CategoryHomeGarden,
	"39": domain.CategoryHomeGarden,
	"46": domain.CategoryHomeGarden,
	"21": domain.CategoryHomeGarden,
	"52": domain.CategoryHomeGarden,

	// Famille
	"79": domain.CategoryFamily,
	"23": domain.CategoryFamily,
	"80": domain.CategoryFamily,
	"54": domain.CategoryFamily,

	// Mode
	"72": domain.CategoryFashion,
	"22": domain.CategoryFashion,
	"53": domain.CategoryFashion,
	"47": domain.CategoryFashion,
	"42": domain.CategoryFashion,

	// Loisirs
	"24":   domain.CategoryLeisure,
	"89":   domain.CategoryLeisure,
	"40":   domain.CategoryLeisure,
	"26":   domain.CategoryLeisure,
	"25":   domain.CategoryLeisure,
	"30":   domain.CategoryLeisure,
	"27":   domain.CategoryLeisure,
	"86":   domain.CategoryLeisure,
	"48":   domain.CategoryLeisure,
	"41":   domain.CategoryLeisure,
	"88":   domain.CategoryLeisure,
	"29":   domain.CategoryLeisure,
	"55":   domain.CategoryLeisure,
	"85":   domain.CategoryLeisure,
	"1002": domain.CategoryLeisure,
	"1003": domain.CategoryLeisure,
	"1016": domain.CategoryLeisure,

	// Animaux
	"75": domain.CategoryAnimals,
	"28": domain.CategoryAnimals,
	"76": domain.CategoryAnimals,
	"77": domain.CategoryAnimals,

	// Matériel professionnel
	"56":  domain.CategoryProEquipment,
	"105": domain.CategoryProEquipment,
	"57":  domain.CategoryProEquipment,
	"59":  domain.CategoryProEquipment,
	"106": domain.CategoryProEquipment,
	"58":  domain.CategoryProEquipment,
	"32":  domain.CategoryProEquipment,
	"61":  domain.CategoryProEquipment,
	"62":  domain.CategoryProEquipment,
	"63":  domain.CategoryProEquipment,
	"64":  domain.CategoryProEquipment,

	// Services
	"31":   domain.CategoryServices,
	"101":  domain.CategoryServices,
	"100":  domain.CategoryServices,
	"35":   domain.CategoryServices,
	"65":   domain.CategoryServices,
	"36":   domain.CategoryServices,
	"103":  domain.CategoryServices,
	"49":   domain.CategoryServices,
	"99":   domain.CategoryServices,
	"102":  domain.CategoryServices,
	"92":   domain.CategoryServices,
	"95":   domain.CategoryServices,
	"93":   domain.CategoryServices,
	"97":   domain.CategoryServices,
	"98":   domain.CategoryServices,
	"34":   domain.CategoryServices,
	"1001": domain.CategoryServices,
	"1004": domain.CategoryServices,
	"1005": domain.CategoryServices,
	"1007": domain.CategoryServices,
	"1008": domain.CategoryServices,
	"1009": domain.CategoryServices,
	"1010": domain.CategoryServices,
	"1017": domain.CategoryServices,

	// Dons
	"1000": domain.CategoryDonations,

	// Divers
	"37": domain.CategoryMisc,
	"38": domain.CategoryMisc,

	"1006": domain.CategoryHomeGarden,
	"1011": domain.CategoryFashion,
	"1012": domain.CategoryFashion,
	"1013": domain.CategoryFashion,
	"1014": domain.CategoryFashion,
	"1015": domain.CategoryFashion,
}

// RealEstateTypeMap resolves the real_estate_type URL parameter to a
// real-estate subcategory. It overrides the category when present.
var RealEstateTypeMap = map[string]domain.Category{
	"1": domain.CategoryRealEstateRentals,
	"2": domain.CategoryRealEstateRentals,
	"3": domain.CategoryRealEstateOffices,
	"4": domain.CategoryRealEstateFlatshare,
	"5": domain.CategoryRealEstateNew,
}

// SortMap resolves the sort URL parameter. The order parameter is applied on
// top of this per the marketplace coupling rules.
var SortMap = map[string]domain.Sort{
	"time":       domain.SortNewest,
	"price":      domain.SortCheapest,
	"price_asc":  domain.SortCheapest,
	"price_desc": domain.SortExpensive,
	"relevance":  domain.SortRelevance,
}

var AdTypeMap = map[string]domain.AdType{
	"offer":  domain.AdTypeOffer,
	"demand": domain.AdTypeDemand,
}

var OwnerTypeMap = map[string]domain.OwnerType{
	"private": domain.OwnerTypePrivate,
	"pro":     domain.OwnerTypePro,
	"all":     domain.OwnerTypeAll,
}

// RangeParamKeys are the URL parameters always interpreted as numeric ranges.
// Any other parameter is only treated as a range when it parses as one.
var RangeParamKeys = map[string]bool{
	"price":    true,
	"rooms":    true,
	"bedrooms": true,
	"square":   true,
	"mileage":  true,
	"regdate":  true,
}

// DefaultAttributeDenyList names category attributes excluded from record
// flattening: internal ids, technical pricing fields, store metadata and
// fields duplicated by curated columns. A product decision, overridable via
// configuration.
var DefaultAttributeDenyList = []string{
	"ad_search_id",
	"price_cents",
	"old_price_cents",
	"price_calendar",
	"store_id",
	"store_name",
	"activity_sector",
	"custom_ref",
	"brand",
	"model",
	"rating_count",
	"rating_score",
}
