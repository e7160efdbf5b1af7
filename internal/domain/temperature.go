package domain

import (
	"fmt"
	"strings"
)

// TemperatureRecord is one monthly observation for a city.
type TemperatureRecord struct {
	Date        string // YYYY-MM-01
	AverageTemp float64
	Uncertainty float64
	City        string
	Country     string
	Latitude    float64
	Longitude   float64
}

// Key returns the (city, country) pair of the record.
func (r TemperatureRecord) Key() Key {
	return Key{City: r.City, Country: r.Country}
}

// Year returns the four-digit year prefix of the date, or "" when the date is too short.
func (r TemperatureRecord) Year() string {
	if len(r.Date) < 4 {
		return ""
	}
	return r.Date[:4]
}

// MonthCode returns the two-digit month of the date, or "" when the date is malformed.
func (r TemperatureRecord) MonthCode() string {
	if len(r.Date) < 7 {
		return ""
	}
	return r.Date[5:7]
}

// MonthLookup maps two-digit month codes to English month names.
type MonthLookup map[string]string

// Months is the fixed month-code table. It is never mutated.
var Months = MonthLookup{
	"01": "January",
	"02": "February",
	"03": "March",
	"04": "April",
	"05": "May",
	"06": "June",
	"07": "July",
	"08": "August",
	"09": "September",
	"10": "October",
	"11": "November",
	"12": "December",
}

// MonthCodes lists the month codes in calendar order.
var MonthCodes = []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"}

// Name returns the month name for a code.
func (m MonthLookup) Name(code string) (string, error) {
	name, ok := m[code]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMonth, code)
	}
	return name, nil
}

// Describe renders a date as "<Month> <YYYY>".
func (m MonthLookup) Describe(date string) (string, error) {
	if len(date) < 7 || date[4] != '-' {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	name, err := m.Name(date[5:7])
	if err != nil {
		return "", err
	}
	return name + " " + date[:4], nil
}

// ParseYearMonth validates a "YYYY-MM" selector and returns its parts.
func ParseYearMonth(s string) (year, month string, err error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[4] != '-' {
		return "", "", fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidDate, s)
	}
	for i, c := range s {
		if i == 4 {
			continue
		}
		if c < '0' || c > '9' {
			return "", "", fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidDate, s)
		}
	}
	if _, ok := Months[s[5:]]; !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownMonth, s[5:])
	}
	return s[:4], s[5:], nil
}
