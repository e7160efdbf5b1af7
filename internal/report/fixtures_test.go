package report

import (
	"github.com/couchcryptid/city-climate-explorer/internal/countryinfo"
	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

func city(name, country, continent, subregion string, lat, lon float64) domain.City {
	return domain.City{Name: name, Country: country, Continent: continent, Subregion: subregion, Latitude: lat, Longitude: lon}
}

func temp(date string, avg float64, cityName, country string) domain.TemperatureRecord {
	return domain.TemperatureRecord{Date: date, AverageTemp: avg, Uncertainty: 0.5, City: cityName, Country: country}
}

func fixtureTables() *domain.Tables {
	cities := []domain.City{
		city("Rome", "Italy", "Europe", "Southern Europe", 41.9, 12.5),
		city("Milan", "Italy", "Europe", "Southern Europe", 45.4, 9.2),
		city("Paris", "France", "Europe", "Western Europe", 48.8, 2.3),
		city("Tokyo", "Japan", "Asia", "Eastern Asia", 35.7, 139.7),
		city("Osaka", "Japan", "Asia", "Eastern Asia", 34.7, 135.5),
		city("Lima", "Peru", "Americas", "South America", -12.0, -77.0),
		city("Sydney", "Australia", "Oceania", "Australia and New Zealand", -33.9, 151.2),
		city("Lagos", "Nigeria", "Africa", "Western Africa", 6.5, 3.4),
		city("Delhi", "India", "Asia", "Southern Asia", 28.6, 77.2),
	}
	majorCities := []domain.City{
		city("Rome", "Italy", "", "", 41.89, 12.48),
		city("Sydney", "Australia", "", "", -33.87, 151.21),
	}
	tempByCity := []domain.TemperatureRecord{
		temp("1743-11-01", 10.456, "Rome", "Italy"),
		temp("1744-07-01", 26.3, "Milan", "Italy"),
		temp("1850-01-01", -2.0, "Rome", "Italy"),
		temp("1900-01-01", 7.1, "Rome", "Italy"),
		temp("1900-08-01", 25.4, "Rome", "Italy"),
		temp("1905-01-01", 6.9, "Rome", "Italy"),
		temp("1905-08-01", 24.8, "Rome", "Italy"),
		temp("2012-01-01", 8.2, "Rome", "Italy"),
		temp("2012-02-01", 9.0, "Rome", "Italy"),
		temp("2012-08-01", 27.5, "Rome", "Italy"),
		temp("2013-09-01", 19.0, "Milan", "Italy"),
		temp("2000-01-01", -20.0, "X", "Nowhere"),
		temp("2000-07-01", 30.0, "X", "Nowhere"),
		temp("2000-01-01", -5.0, "Y", "Nowhere"),
		temp("2000-07-01", 20.0, "Y", "Nowhere"),
		temp("2001-01-01", -25.0, "X", "Nowhere"),
		temp("2001-07-01", 26.0, "X", "Nowhere"),
	}
	tempByMajorCity := []domain.TemperatureRecord{
		{Date: "2012-07-01", AverageTemp: 25.0, City: "Rome", Country: "Italy", Latitude: 42.59, Longitude: 13.09},
		{Date: "2012-07-01", AverageTemp: -40.0, City: "Yakutsk", Country: "Russia", Latitude: 62.03, Longitude: 129.73},
		{Date: "2012-08-01", AverageTemp: 24.0, City: "Rome", Country: "Italy", Latitude: 42.59, Longitude: 13.09},
	}
	return domain.NewTables(cities, majorCities, tempByCity, tempByMajorCity)
}

type stubMeta map[string]countryinfo.Metadata

func (s stubMeta) Lookup(name string) (countryinfo.Metadata, bool) {
	md, ok := s[name]
	return md, ok
}

var italyMeta = countryinfo.Metadata{
	Name: "Italy", Alpha2: "IT", Area: 301230, Population: 60431283,
	Capital: "Rome", Region: "Europe", Subregion: "Southern Europe",
}
