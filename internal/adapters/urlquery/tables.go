package urlquery

import (
	"lbc-crawler-service/internal/constants"
	"lbc-crawler-service/internal/core/domain"
)

// Tables bundles every lookup table and canonical default the parser needs.
// Injected at construction so tests can substitute their own.
type Tables struct {
	Categories      map[string]domain.Category
	RealEstateTypes map[string]domain.Category
	Sorts           map[string]domain.Sort
	AdTypes         map[string]domain.AdType
	OwnerTypes      map[string]domain.OwnerType
	RangeKeys       map[string]bool

	Cities       map[string]constants.CityCoord
	FallbackCity string

	DefaultRadiusM  int
	ResolvedRadiusM int
	OpenUpperBound  int
	DefaultPageSize int
}

// DefaultTables returns the production table set.
func DefaultTables() Tables {
	return Tables{
		Categories:      constants.CategoryIDMap,
		RealEstateTypes: constants.RealEstateTypeMap,
		Sorts:           constants.SortMap,
		AdTypes:         constants.AdTypeMap,
		OwnerTypes:      constants.OwnerTypeMap,
		RangeKeys:       constants.RangeParamKeys,
		Cities:          constants.CityCoordinates,
		FallbackCity:    constants.FallbackCityKey,
		DefaultRadiusM:  constants.DefaultRadiusMeters,
		ResolvedRadiusM: constants.ResolvedPlaceRadiusMeters,
		OpenUpperBound:  constants.OpenUpperBound,
		DefaultPageSize: constants.DefaultPageSize,
	}
}
