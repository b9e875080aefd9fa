package engine

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	// Embeds the zone database so DST rules resolve on hosts without one.
	_ "time/tzdata"

	"github.com/tartampluch/world-clocks/internal/config"
	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var citiesYAML []byte

var (
	// ErrCatalogueEmpty is returned when the catalogue lists no city.
	ErrCatalogueEmpty = errors.New(config.ErrCatalogueEmpty)
	// ErrUnknownZone is returned when a zone is missing from the zone database.
	ErrUnknownZone = errors.New(config.ErrCatalogueZone)
	// ErrDuplicateZone is returned when two entries share a zone.
	ErrDuplicateZone = errors.New(config.ErrCatalogueDup)
)

// DefaultCities loads the embedded catalogue.
func DefaultCities() ([]City, error) {
	cities, err := ParseCities(bytes.NewReader(citiesYAML))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCatalogueLoad, err)
	}
	return cities, nil
}

// ParseCities decodes a YAML list of {zone, label} entries and resolves every
// zone against the zone database. Order is preserved.
func ParseCities(r io.Reader) ([]City, error) {
	var cities []City
	if err := yaml.NewDecoder(r).Decode(&cities); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrCatalogueEmpty
		}
		return nil, fmt.Errorf("%s: %w", config.ErrCatalogueParse, err)
	}
	if len(cities) == 0 {
		return nil, ErrCatalogueEmpty
	}

	seen := make(map[string]int, len(cities))
	for i := range cities {
		c := &cities[i]
		c.Zone = strings.TrimSpace(c.Zone)
		c.Label = strings.TrimSpace(c.Label)
		if c.Zone == "" || c.Label == "" {
			return nil, fmt.Errorf("%s: entry %d", config.ErrCatalogueEntry, i)
		}
		if prev, dup := seen[c.Zone]; dup {
			return nil, fmt.Errorf("%w: %q (entries %d and %d)", ErrDuplicateZone, c.Zone, prev, i)
		}
		seen[c.Zone] = i

		loc, err := time.LoadLocation(c.Zone)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrUnknownZone, c.Zone, err)
		}
		c.loc = loc
	}

	slog.Debug(config.MsgCatalogueLoaded,
		config.LogKeyComponent, config.CompCatalogue,
		config.LogKeyCount, len(cities))
	return cities, nil
}
