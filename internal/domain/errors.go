package domain

import "errors"

var (
	// ErrCityNotFound is returned when a city name matches no row.
	ErrCityNotFound = errors.New("city not found")

	// ErrInvalidDate is returned for dates that are not formatted YYYY-MM.
	ErrInvalidDate = errors.New("invalid date")

	// ErrUnknownMonth is returned for month codes outside 01..12.
	ErrUnknownMonth = errors.New("unknown month")

	// ErrUnknownProjection is returned for map projections other than flat or globe.
	ErrUnknownProjection = errors.New("unknown projection")
)
