package constants

// CityCoord is one entry of the static city coordinate table.
type CityCoord struct {
	Latitude   float64
	Longitude  float64
	PostalCode string
}

// FallbackCityKey is the table entry used when a place name cannot be
// resolved at all, including when the geocoder fails.
const FallbackCityKey = "paris"

// CityCoordinates maps normalized city names (lowercase, underscores) to
// coordinates for the major French cities and overseas territories.
var CityCoordinates = map[string]CityCoord{
	"paris":                {48.8566, 2.3522, "75000"},
	"lyon":                 {45.7640, 4.8357, "69000"},
	"marseille":            {43.2965, 5.3698, "13000"},
	"toulouse":             {43.6047, 1.4442, "31000"},
	"nice":                 {43.7102, 7.2620, "06000"},
	"nantes":               {47.2184, -1.5536, "44000"},
	"strasbourg":           {48.5734, 7.7521, "67000"},
	"montpellier":          {43.6110, 3.8767, "34000"},
	"bordeaux":             {44.8378, -0.5792, "33000"},
	"lille":                {50.6292, 3.0573, "59000"},
	"rennes":               {48.1173, -1.6778, "35000"},
	"reims":                {49.2583, 4.0317, "51100"},
	"saint_etienne":        {45.09, 4.39, "42000"},
	"toulon":               {43.1242, 5.9280, "83000"},
	"le_havre":             {49.4944, 0.1079, "76600"},
	"grenoble":             {45.1885, 5.7245, "38000"},
	"dijon":                {47.3220, 5.0415, "21000"},
	"angers":               {47.4784, -0.5632, "49000"},
	"nimes":                {43.8367, 4.3601, "30000"},
	"villeurbanne":         {45.7667, 4.8833, "69100"},
	"saint_denis":          {48.9361, 2.3574, "93200"},
	"le_mans":              {48.0061, 0.1996, "72000"},
	"aix_en_provence":      {43.5263, 5.4454, "13100"},
	"clermont_ferrand":     {45.7772, 3.0870, "63000"},
	"brest":                {48.3905, -4.4860, "29200"},
	"tours":                {47.3941, 0.6848, "37000"},
	"limoges":              {45.8336, 1.2611, "87000"},
	"amiens":               {49.8943, 2.2958, "80000"},
	"perpignan":            {42.6886, 2.8948, "66000"},
	"metz":                 {49.1193, 6.1757, "57000"},
	"nanterre":             {48.8938, 2.2064, "92000"},
	"boulogne_billancourt": {48.8355, 2.2413, "92100"},
	"orleans":              {47.9029, 1.9093, "45000"},
	"mulhouse":             {47.7508, 7.3359, "68100"},
	"rouen":                {49.4432, 1.0993, "76000"},
	"caen":                 {49.1829, -0.3707, "14000"},
	"dunkerque":            {51.0343, 2.3768, "59140"},
	"nancy":                {48.6921, 6.1844, "54000"},
	"saint_pierre":         {46.7753, -56.1773, "97500"},
	"reunion":              {-21.1151, 55.5364, "97400"},
	"antilles":             {14.6415, -61.0242, "97200"},
	"nouvelle_caledonie":   {-22.2758, 166.4581, "98800"},
	"polynesie":            {-17.6797, -149.4068, "98700"},
}
