// Package domain models the world-cities and historical land-temperature
// datasets explored by the reporting commands.
//
// # Data Sources
//
// All tables are flat CSV files published alongside the Berkeley Earth
// "Global Land Temperatures" extract, mirrored at
// https://raw.githubusercontent.com/lucasangio01/cities-temperatures/main/datasets/.
//
//	cities.csv                             City, Country, Latitude, Longitude, Continent, Subregion
//	majorCities.csv                        City, Country, Latitude, Longitude (about 100 rows)
//	GlobalLandTemperaturesByCity.csv       dt, AverageTemperature, AverageTemperatureUncertainty,
//	                                       City, Country, Latitude, Longitude
//	GlobalLandTemperaturesByMajorCity.csv  same columns as above, major cities only
//
// The city tables carry an unnamed leading index column which is ignored.
//
// # Conventions
//
// Dates are monthly and always formatted "YYYY-MM-01". Reports match them as
// strings (suffix, substring, or equality) rather than parsing them into
// [time.Time], so a malformed date simply never matches.
//
// Coordinates in the temperature tables use hemisphere suffixes:
//
//	"57.05N" → 57.05, "10.33W" → -10.33
//
// The city tables use signed decimal degrees. [ParseCoordinate] accepts both.
//
// Temperatures are monthly averages in degrees Celsius. Uncertainty is the
// 95% confidence interval half-width and is never negative.
//
// # Ordering
//
// Every table keeps source order after incomplete rows are dropped. "First
// match", "first/last recorded" and tie-breaking rules in the report package
// are all defined against this order. Duplicate (city, country) rows are kept.
package domain
