// Package countryinfo answers country metadata lookups (area, population,
// capital, region, subregion) by loosely spelled country name.
package countryinfo

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/biter777/countries"

	"github.com/couchcryptid/city-climate-explorer/internal/domain"
)

// Metadata describes one country.
type Metadata struct {
	Name       string
	Alpha2     string
	Area       int64 // square km
	Population int64
	Capital    string
	Region     string
	Subregion  string
}

// Provider resolves a country name to its metadata. The boolean is false
// when the name cannot be resolved.
type Provider interface {
	Lookup(name string) (Metadata, bool)
}

// Suggester proposes the known country name closest to a misspelled one.
type Suggester interface {
	Suggest(name string) (string, bool)
}

//go:embed m49.csv
var m49CSV []byte

type region struct {
	Region    string
	Subregion string
}

const maxNameDistance = 2

// aliases maps dataset spellings that countries.ByName misreads or misses.
// ByName drops everything after "(", so the Berkeley Earth name for the
// Democratic Republic of the Congo would otherwise resolve to CG.
var aliases = map[string]string{
	"congo (democratic republic of the)": "CD",
	"congo":                              "CG",
	"burma":                              "MM",
	"côte d'ivoire":                      "CI",
	"guinea bissau":                      "GW",
	"falkland islands (islas malvinas)":  "FK",
	"macedonia":                          "MK",
	"swaziland":                          "SZ",
}

// Words that carry no weight when comparing country names.
var fillerWords = map[string]bool{"of": true, "the": true, "and": true}

// Registry combines the biter777/countries database (name normalisation,
// capitals), the UN M49 geoscheme (region, subregion) and an optional
// geonames countryInfo.txt dump (area, population).
type Registry struct {
	regions  map[string]region
	geonames map[string]geonamesCountry
	names    []string
	byName   map[string]string // lower-cased display name -> alpha2
	logger   *slog.Logger
}

// NewRegistry builds a Registry. geonames may be nil, in which case area and
// population are reported as zero.
func NewRegistry(geonames io.Reader, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		regions:  parseM49(m49CSV),
		geonames: map[string]geonamesCountry{},
		byName:   map[string]string{},
		logger:   logger.With("component", "countryinfo"),
	}

	if geonames != nil {
		g, err := parseGeonames(geonames)
		if err != nil {
			return nil, err
		}
		r.geonames = g
	} else {
		r.logger.Warn("country info source unavailable, area and population will be zero")
	}

	for _, code := range countries.All() {
		r.addName(code.String(), code.Alpha2())
	}
	for _, iso := range slices.Sorted(maps.Keys(r.geonames)) {
		r.addName(r.geonames[iso].Name, iso)
	}
	return r, nil
}

func (r *Registry) addName(name, alpha2 string) {
	key := strings.ToLower(name)
	if _, ok := r.byName[key]; ok || name == "" {
		return
	}
	r.byName[key] = alpha2
	r.names = append(r.names, name)
}

// Lookup resolves name by alias, then by exact display name, then through
// countries.ByName checked against the other known names, then by a small
// edit distance.
func (r *Registry) Lookup(name string) (Metadata, bool) {
	alpha2, ok := r.resolve(name)
	if !ok {
		return Metadata{}, false
	}
	reg, ok := r.regions[alpha2]
	if !ok {
		return Metadata{}, false
	}

	code := countries.ByName(alpha2)
	md := Metadata{
		Name:      code.String(),
		Alpha2:    alpha2,
		Region:    reg.Region,
		Subregion: reg.Subregion,
	}
	if capital := code.Capital(); capital.IsValid() {
		md.Capital = capital.String()
	}
	if g, ok := r.geonames[alpha2]; ok {
		md.Area = g.Area
		md.Population = g.Population
		if md.Capital == "" {
			md.Capital = g.Capital
		}
		if !code.IsValid() {
			md.Name = g.Name
		}
	}
	return md, true
}

// Suggest returns the known country name closest to name.
func (r *Registry) Suggest(name string) (string, bool) {
	return domain.Closest(name, r.names, maxNameDistance+1)
}

func (r *Registry) resolve(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	key := strings.ToLower(name)
	if alpha2, ok := aliases[key]; ok {
		return alpha2, true
	}
	if alpha2, ok := r.byName[key]; ok {
		return alpha2, true
	}
	if code := countries.ByName(name); code.IsValid() {
		if best := closestByWords(name, code.String(), r.names); best != code.String() {
			return r.byName[strings.ToLower(best)], true
		}
		return code.Alpha2(), true
	}
	if match, ok := domain.Closest(name, r.names, maxNameDistance); ok {
		return r.byName[strings.ToLower(match)], true
	}
	return "", false
}

// closestByWords returns hit unless another candidate shares more words
// with name, in which case the first such best candidate wins.
func closestByWords(name, hit string, candidates []string) string {
	want := nameWords(name)
	best, bestScore := hit, sharedWords(want, hit)
	for _, c := range candidates {
		if score := sharedWords(want, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

func sharedWords(want map[string]bool, candidate string) int {
	n := 0
	for w := range nameWords(candidate) {
		if want[w] {
			n++
		}
	}
	return n
}

func nameWords(name string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if !fillerWords[w] {
			words[w] = true
		}
	}
	return words
}

func parseM49(data []byte) map[string]region {
	out := make(map[string]region)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			continue
		}
		out[parts[0]] = region{Region: parts[1], Subregion: parts[2]}
	}
	return out
}
