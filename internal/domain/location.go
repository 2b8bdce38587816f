package domain

// Location is a named place, optionally resolved to coordinates.
// Latitude and Longitude are nil until the place has been geocoded.
type Location struct {
	Name      string
	Latitude  *float64
	Longitude *float64
	Address   string
}

// HasCoordinates reports whether the location has been geocoded.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// LocationAt builds a fully resolved location in one call.
func LocationAt(name string, lat, lon float64, address string) Location {
	return Location{Name: name, Latitude: &lat, Longitude: &lon, Address: address}
}
