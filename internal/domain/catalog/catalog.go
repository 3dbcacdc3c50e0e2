package catalog

import (
	"sort"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Catalog is the immutable record of airports, aircraft types, kit metadata
// and the flight schedule template. It is built once at startup and only
// offers pure lookups afterwards.
type Catalog struct {
	airports map[string]*Airport
	aircraft map[string]*AircraftType
	kitMeta  [shared.ClassCount]KitClassMeta
	schedule []*FlightPlanEntry
	hub      *Airport
	warnings []string
}

// New validates the static inputs and assembles a catalog.
//
// It fails with a ConfigError if the hub is absent or duplicated, or if the
// schedule references an unknown airport or aircraft type. Warnings collected
// by the loaders (applied defaults) are carried through for logging.
func New(
	airports []*Airport,
	aircraft []*AircraftType,
	kitMeta [shared.ClassCount]KitClassMeta,
	schedule []*FlightPlanEntry,
	warnings []string,
) (*Catalog, error) {
	c := &Catalog{
		airports: make(map[string]*Airport, len(airports)),
		aircraft: make(map[string]*AircraftType, len(aircraft)),
		kitMeta:  kitMeta,
		schedule: schedule,
		warnings: warnings,
	}

	for _, a := range airports {
		if a.Code == "" {
			return nil, shared.NewConfigError("airport with empty code")
		}
		if _, dup := c.airports[a.Code]; dup {
			return nil, shared.NewConfigError("duplicate airport code %s", a.Code)
		}
		c.airports[a.Code] = a
		if a.Hub {
			if c.hub != nil {
				return nil, shared.NewConfigError("duplicate hub: %s and %s", c.hub.Code, a.Code)
			}
			c.hub = a
		}
	}
	if c.hub == nil {
		return nil, shared.NewConfigError("no hub airport defined")
	}

	for _, t := range aircraft {
		if t.Code == "" {
			return nil, shared.NewConfigError("aircraft type with empty code")
		}
		if _, dup := c.aircraft[t.Code]; dup {
			return nil, shared.NewConfigError("duplicate aircraft type %s", t.Code)
		}
		c.aircraft[t.Code] = t
	}

	for _, f := range schedule {
		if f.FlightID == "" {
			return nil, shared.NewConfigError("flight plan entry with empty flight id")
		}
		if _, ok := c.airports[f.Origin]; !ok {
			return nil, shared.NewConfigError("flight %s references unknown origin %s", f.FlightID, f.Origin)
		}
		if _, ok := c.airports[f.Destination]; !ok {
			return nil, shared.NewConfigError("flight %s references unknown destination %s", f.FlightID, f.Destination)
		}
		if _, ok := c.aircraft[f.AircraftType]; !ok {
			return nil, shared.NewConfigError("flight %s references unknown aircraft type %s", f.FlightID, f.AircraftType)
		}
	}

	return c, nil
}

// Airport returns the airport with the given code, or nil.
func (c *Catalog) Airport(code string) *Airport {
	return c.airports[code]
}

// Aircraft returns the aircraft type with the given code, or nil.
func (c *Catalog) Aircraft(code string) *AircraftType {
	return c.aircraft[code]
}

// KitMeta returns the metadata of one service class.
func (c *Catalog) KitMeta(class shared.Class) KitClassMeta {
	return c.kitMeta[class]
}

// Hub returns the single hub airport.
func (c *Catalog) Hub() *Airport {
	return c.hub
}

// AllAirports returns every airport sorted by code, so iteration order is
// stable across runs.
func (c *Catalog) AllAirports() []*Airport {
	out := make([]*Airport, 0, len(c.airports))
	for _, a := range c.airports {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Schedule returns the flight plan template.
func (c *Catalog) Schedule() []*FlightPlanEntry {
	return c.schedule
}

// Warnings returns the defaults applied while loading the static tables.
func (c *Catalog) Warnings() []string {
	return c.warnings
}

// InitialInventories returns the per-airport starting stock for seeding the
// state mirror.
func (c *Catalog) InitialInventories() map[string]shared.KitVector {
	out := make(map[string]shared.KitVector, len(c.airports))
	for code, a := range c.airports {
		out[code] = a.InitialInventory
	}
	return out
}
