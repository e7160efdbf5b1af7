package domain

// City is one row of the cities or major-cities table.
// Continent and Subregion are empty for major cities.
type City struct {
	Name      string
	Country   string
	Continent string
	Subregion string
	Latitude  float64
	Longitude float64
}

// Key identifies a city by name and country. It is not unique: the source
// contains duplicate pairs and they are preserved.
type Key struct {
	City    string
	Country string
}

// Key returns the (name, country) pair of the city.
func (c City) Key() Key {
	return Key{City: c.Name, Country: c.Country}
}
