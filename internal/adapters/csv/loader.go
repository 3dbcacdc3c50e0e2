// Package csv loads the three semicolon-delimited static tables (airports,
// aircraft types, flight plan) into a validated catalog. Missing non-key
// columns fall back to documented defaults and are reported as warnings;
// missing primary keys fail the load.
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Defaults are applied when a non-key column is absent from a table.
type Defaults struct {
	StorageCapacity     int
	LoadingCost         float64
	ProcessingCost      float64
	ProcessingHours     int
	HubInventory        int
	OutstationInventory int
}

// StandardDefaults returns the documented fallback values.
func StandardDefaults() Defaults {
	return Defaults{
		StorageCapacity:     100,
		LoadingCost:         10,
		ProcessingCost:      5,
		ProcessingHours:     2,
		HubInventory:        50,
		OutstationInventory: 20,
	}
}

// Loader reads the static tables from a directory.
type Loader struct {
	defaults Defaults
	warnings []string
}

// NewLoader creates a loader with the given defaults.
func NewLoader(defaults Defaults) *Loader {
	return &Loader{defaults: defaults}
}

// Load reads airports.csv, aircraft_types.csv and flight_plan.csv from dir
// and assembles the catalog.
func (l *Loader) Load(dir string) (*catalog.Catalog, error) {
	return l.LoadFiles(
		filepath.Join(dir, "airports.csv"),
		filepath.Join(dir, "aircraft_types.csv"),
		filepath.Join(dir, "flight_plan.csv"),
	)
}

// LoadFiles reads the three tables from explicit paths.
func (l *Loader) LoadFiles(airportsPath, aircraftPath, flightPlanPath string) (*catalog.Catalog, error) {
	l.warnings = nil

	airports, err := l.loadAirports(airportsPath)
	if err != nil {
		return nil, err
	}
	aircraft, err := l.loadAircraft(aircraftPath)
	if err != nil {
		return nil, err
	}
	schedule, err := l.loadFlightPlan(flightPlanPath)
	if err != nil {
		return nil, err
	}

	return catalog.New(airports, aircraft, catalog.DefaultKitMeta(), schedule, l.warnings)
}

func (l *Loader) loadAirports(path string) ([]*catalog.Airport, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require("code"); err != nil {
		return nil, err
	}

	var out []*catalog.Airport
	for _, row := range t.rows {
		code := t.get(row, "code")
		if code == "" {
			return nil, shared.NewConfigError("%s: row with empty airport code", t.name)
		}
		a := &catalog.Airport{
			Code: code,
			Name: t.getDefault(row, "name", code),
			Hub:  parseBool(t.get(row, "is_hub")),
		}
		for _, c := range shared.Classes() {
			capacity, err := t.intCol(l, row, "storage_capacity_"+c.String(), l.defaults.StorageCapacity)
			if err != nil {
				return nil, err
			}
			a.StorageCapacity[c] = capacity

			load, err := t.floatCol(l, row, "loading_cost_"+c.String(), l.defaults.LoadingCost)
			if err != nil {
				return nil, err
			}
			a.LoadingCost[c] = load

			proc, err := t.floatCol(l, row, "processing_cost_"+c.String(), l.defaults.ProcessingCost)
			if err != nil {
				return nil, err
			}
			a.ProcessingCost[c] = proc

			hours, err := t.intCol(l, row, "processing_time_"+c.String(), l.defaults.ProcessingHours)
			if err != nil {
				return nil, err
			}
			a.ProcessingHours[c] = hours

			defaultInv := l.defaults.OutstationInventory
			if a.Hub {
				defaultInv = l.defaults.HubInventory
			}
			inv, err := t.intCol(l, row, "initial_inventory_"+c.String(), defaultInv)
			if err != nil {
				return nil, err
			}
			a.InitialInventory[c] = inv
		}
		out = append(out, a)
	}
	return out, nil
}

func (l *Loader) loadAircraft(path string) ([]*catalog.AircraftType, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	if err := t.require("type_code"); err != nil {
		return nil, err
	}

	var out []*catalog.AircraftType
	for _, row := range t.rows {
		code := t.get(row, "type_code")
		if code == "" {
			return nil, shared.NewConfigError("%s: row with empty type_code", t.name)
		}
		a := &catalog.AircraftType{Code: code}
		for _, c := range shared.Classes() {
			pax, err := t.intCol(l, row, "passenger_capacity_"+c.String(), 0)
			if err != nil {
				return nil, err
			}
			a.PassengerCapacity[c] = pax

			kits, err := t.intCol(l, row, "kit_capacity_"+c.String(), 0)
			if err != nil {
				return nil, err
			}
			a.KitCapacity[c] = kits
		}
		fuel, err := t.floatCol(l, row, "fuel_cost_per_km", 0.5)
		if err != nil {
			return nil, err
		}
		a.FuelCostPerKm = fuel
		out = append(out, a)
	}
	return out, nil
}

func (l *Loader) loadFlightPlan(path string) ([]*catalog.FlightPlanEntry, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	for _, key := range []string{"flight_id", "flight_number", "origin", "destination"} {
		if err := t.require(key); err != nil {
			return nil, err
		}
	}

	var out []*catalog.FlightPlanEntry
	for _, row := range t.rows {
		id := t.get(row, "flight_id")
		if id == "" {
			return nil, shared.NewConfigError("%s: row with empty flight_id", t.name)
		}
		depDay, err := t.intCol(l, row, "scheduled_departure_day", 0)
		if err != nil {
			return nil, err
		}
		depHour, err := t.intCol(l, row, "scheduled_departure_hour", 0)
		if err != nil {
			return nil, err
		}
		arrDay, err := t.intCol(l, row, "scheduled_arrival_day", 0)
		if err != nil {
			return nil, err
		}
		arrHour, err := t.intCol(l, row, "scheduled_arrival_hour", 0)
		if err != nil {
			return nil, err
		}
		dist, err := t.floatCol(l, row, "planned_distance", 0)
		if err != nil {
			return nil, err
		}

		e := &catalog.FlightPlanEntry{
			FlightID:        id,
			FlightNumber:    t.getDefault(row, "flight_number", id),
			Origin:          t.get(row, "origin"),
			Destination:     t.get(row, "destination"),
			Departure:       shared.HourOf(depDay, depHour),
			Arrival:         shared.HourOf(arrDay, arrHour),
			PlannedDistance: dist,
			AircraftType:    t.get(row, "aircraft_type"),
		}
		for _, c := range shared.Classes() {
			pax, err := t.intCol(l, row, "planned_passengers_"+c.String(), 0)
			if err != nil {
				return nil, err
			}
			e.PlannedPassengers[c] = pax
		}
		out = append(out, e)
	}
	return out, nil
}

func (l *Loader) warnOnce(table, col string, fallback interface{}) {
	msg := fmt.Sprintf("%s: column %s missing, default %v applied", table, col, fallback)
	for _, w := range l.warnings {
		if w == msg {
			return
		}
	}
	l.warnings = append(l.warnings, msg)
}

// table is one parsed semicolon-delimited file with named columns.
type table struct {
	name string
	cols map[string]int
	rows [][]string
}

func readTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, shared.NewConfigError("open %s: %v", path, err)
	}
	defer f.Close()

	r := stdcsv.NewReader(f)
	r.Comma = ';'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, shared.NewConfigError("parse %s: %v", path, err)
	}
	if len(records) == 0 {
		return nil, shared.NewConfigError("%s: empty table", path)
	}

	t := &table{
		name: filepath.Base(path),
		cols: make(map[string]int, len(records[0])),
		rows: records[1:],
	}
	for i, col := range records[0] {
		t.cols[strings.TrimSpace(col)] = i
	}
	return t, nil
}

func (t *table) require(col string) error {
	if _, ok := t.cols[col]; !ok {
		return shared.NewConfigError("%s: missing required column %s", t.name, col)
	}
	return nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *table) getDefault(row []string, col, fallback string) string {
	if v := t.get(row, col); v != "" {
		return v
	}
	return fallback
}

func (t *table) intCol(l *Loader, row []string, col string, fallback int) (int, error) {
	if _, ok := t.cols[col]; !ok {
		l.warnOnce(t.name, col, fallback)
		return fallback, nil
	}
	raw := t.get(row, col)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.NewConfigError("%s: column %s: invalid integer %q", t.name, col, raw)
	}
	return v, nil
}

func (t *table) floatCol(l *Loader, row []string, col string, fallback float64) (float64, error) {
	if _, ok := t.cols[col]; !ok {
		l.warnOnce(t.name, col, fallback)
		return fallback, nil
	}
	raw := t.get(row, col)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, shared.NewConfigError("%s: column %s: invalid number %q", t.name, col, raw)
	}
	return v, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
