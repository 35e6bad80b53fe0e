package urlquery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"lbc-crawler-service/internal/constants"
	"lbc-crawler-service/internal/contextkeys"
	"lbc-crawler-service/internal/core/domain"
	"lbc-crawler-service/internal/core/port"
)

// LocationResolution reports which path produced a location's coordinates.
type LocationResolution int

const (
	ResolvedFromURL        LocationResolution = iota // coordinates embedded in the descriptor
	ResolvedFromTable                                // exact city-table match
	ResolvedFromTableFuzzy                           // substring city-table match
	ResolvedFromGeocoder                             // external geocoding lookup
	ResolvedFallback                                 // fallback city, nothing matched
)

func (r LocationResolution) String() string {
	switch r {
	case ResolvedFromURL:
		return "from_url"
	case ResolvedFromTable:
		return "from_table"
	case ResolvedFromTableFuzzy:
		return "from_table_fuzzy"
	case ResolvedFromGeocoder:
		return "from_geocoder"
	case ResolvedFallback:
		return "fallback"
	}
	return "unknown"
}

var labelCaser = cases.Title(language.French)

// parseLocations splits a comma-separated locations parameter and resolves
// each descriptor. Descriptors that fail to parse are dropped.
func (p *Parser) parseLocations(ctx context.Context, value string) []domain.GeoLocation {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "urlquery.Parser"})

	var locations []domain.GeoLocation
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		loc, resolution, err := p.ParseLocation(ctx, part)
		if err != nil {
			logger.Warn("Dropping unparseable location descriptor", port.Fields{
				"descriptor": part, "error": err.Error(),
			})
			continue
		}
		logger.Debug("Resolved location", port.Fields{
			"descriptor": part,
			"resolution": resolution.String(),
			"lat":        loc.Latitude,
			"lng":        loc.Longitude,
			"radius_m":   loc.RadiusM,
		})
		locations = append(locations, loc)
	}
	return locations
}

// ParseLocation resolves one place descriptor. Supported grammars:
//
//	Name_PostalCode__lat_lng_radius   coordinates explicit
//	Name_PostalCode                   coordinates resolved by name
//	Name                              coordinates resolved by name
//
// When the coordinate part omits its radius the default radius applies; a
// name-resolved place gets the point-match radius.
func (p *Parser) ParseLocation(ctx context.Context, descriptor string) (domain.GeoLocation, LocationResolution, error) {
	if cityPart, coordPart, found := strings.Cut(descriptor, "__"); found {
		name, postal := splitCityAndPostal(cityPart)
		loc, err := p.parseCoordPart(name, postal, coordPart)
		if err != nil {
			return domain.GeoLocation{}, 0, err
		}
		return loc, ResolvedFromURL, nil
	}

	name, postal := splitCityAndPostal(descriptor)
	return p.resolveByName(ctx, name, postal)
}

func (p *Parser) parseCoordPart(name, postal, coordPart string) (domain.GeoLocation, error) {
	parts := strings.Split(coordPart, "_")
	if len(parts) < 2 {
		return domain.GeoLocation{}, fmt.Errorf("urlquery: coordinate part %q needs lat and lng", coordPart)
	}

	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.GeoLocation{}, fmt.Errorf("urlquery: bad latitude %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.GeoLocation{}, fmt.Errorf("urlquery: bad longitude %q: %w", parts[1], err)
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return domain.GeoLocation{}, fmt.Errorf("urlquery: coordinates out of range: %f, %f", lat, lng)
	}

	radius := p.tables.DefaultRadiusM
	if len(parts) > 2 {
		r, err := strconv.Atoi(parts[2])
		if err != nil || r < 0 {
			return domain.GeoLocation{}, fmt.Errorf("urlquery: bad radius %q", parts[2])
		}
		radius = r
	}

	return domain.GeoLocation{
		Label:      cityLabel(name),
		PostalCode: postal,
		Latitude:   lat,
		Longitude:  lng,
		RadiusM:    radius,
	}, nil
}

// resolveByName walks the lookup ladder: exact table match, substring table
// match, geocoder, fallback city. Never fails.
func (p *Parser) resolveByName(ctx context.Context, name, postal string) (domain.GeoLocation, LocationResolution, error) {
	normalized := normalizeCityName(name)

	if coord, ok := p.tables.Cities[normalized]; ok {
		return p.tableLocation(name, postal, coord), ResolvedFromTable, nil
	}

	for key, coord := range p.tables.Cities {
		if strings.Contains(key, normalized) || strings.Contains(normalized, key) {
			return p.tableLocation(name, postal, coord), ResolvedFromTableFuzzy, nil
		}
	}

	if p.geocoder != nil {
		lat, lng, err := p.geocoder.Locate(ctx, name)
		if err == nil {
			return domain.GeoLocation{
				Label:      cityLabel(name),
				PostalCode: postal,
				Latitude:   lat,
				Longitude:  lng,
				RadiusM:    p.tables.ResolvedRadiusM,
			}, ResolvedFromGeocoder, nil
		}
		contextkeys.LoggerFromContext(ctx).Warn("Geocoder lookup failed, using fallback city", port.Fields{
			"place": name, "error": err.Error(),
		})
	}

	fallback := p.tables.Cities[p.tables.FallbackCity]
	return p.tableLocation(name, postal, fallback), ResolvedFallback, nil
}

func (p *Parser) tableLocation(name, postal string, coord constants.CityCoord) domain.GeoLocation {
	if postal == "" {
		postal = coord.PostalCode
	}
	return domain.GeoLocation{
		Label:      cityLabel(name),
		PostalCode: postal,
		Latitude:   coord.Latitude,
		Longitude:  coord.Longitude,
		RadiusM:    p.tables.ResolvedRadiusM,
	}
}

// splitCityAndPostal separates "Aix_en_Provence_13100" into name and postal
// code. The postal part must be all digits, otherwise the whole string is the
// name.
func splitCityAndPostal(s string) (name, postal string) {
	idx := strings.LastIndex(s, "_")
	if idx < 0 {
		return s, ""
	}
	tail := s[idx+1:]
	if tail == "" || strings.TrimLeft(tail, "0123456789") != "" {
		return s, ""
	}
	return s[:idx], tail
}

func normalizeCityName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "_")
	n = strings.ReplaceAll(n, "-", "_")
	return n
}

func cityLabel(name string) string {
	return labelCaser.String(strings.ReplaceAll(name, "_", " "))
}
