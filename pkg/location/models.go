package location

// NominatimAddress is the subset of the address breakdown used for labels.
type NominatimAddress struct {
	Road         string `json:"road"`
	Suburb       string `json:"suburb"`
	CityDistrict string `json:"city_district"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	State        string `json:"state"`
	Country      string `json:"country"`
	CountryCode  string `json:"country_code"`
}

// NominatimReverseResponse is shaped for the /reverse API response
type NominatimReverseResponse struct {
	PlaceID     int64            `json:"place_id"`
	Licence     string           `json:"licence"`
	OsmType     string           `json:"osm_type"`
	OsmID       int64            `json:"osm_id"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Address     NominatimAddress `json:"address"`
	Error       string           `json:"error"`
}
