// Package report implements the dataset reports: rankings of cities by
// country, continent and subregion, city maps, distances, temperature
// series, bubble maps, country statistics and temperature shocks.
//
// Report functions are pure: they read a *domain.Tables and return derived
// values or renderer-independent domain.Chart and domain.Map descriptions.
// Generator wires them to rendering surfaces and a text writer.
package report
