package domain

// Tables is the read-only dataset context passed to every report.
// Slices keep source order and must not be mutated after loading.
type Tables struct {
	Cities          []City
	MajorCities     []City
	TempByCity      []TemperatureRecord
	TempByMajorCity []TemperatureRecord
	Months          MonthLookup
}

// NewTables builds a Tables with the fixed month lookup.
func NewTables(cities, majorCities []City, tempByCity, tempByMajorCity []TemperatureRecord) *Tables {
	return &Tables{
		Cities:          cities,
		MajorCities:     majorCities,
		TempByCity:      tempByCity,
		TempByMajorCity: tempByMajorCity,
		Months:          Months,
	}
}
