package horizon

import (
	"sort"

	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Config sets the two planning windows. The tactical window is short enough
// that passenger actuals are trustworthy; the strategic window is long enough
// for the slowest purchase (first-class lead time plus processing) to land
// before the demand it covers.
type Config struct {
	LoadHours     int
	PurchaseHours int
}

// DefaultConfig returns the 6h tactical / 72h strategic windows.
func DefaultConfig() Config {
	return Config{LoadHours: 6, PurchaseHours: 72}
}

// View is what the optimizer sees of the future: the flights it may load now
// and the class-level demand a purchase placed now could still serve.
type View struct {
	Now shared.GameHour

	// Loadable is every checked-in flight departing inside the tactical
	// window, in chronological departure order (id tiebreak).
	Loadable []*mirror.Flight

	// Upcoming is every known flight departing inside the strategic window,
	// in the same order. The purchase policy forecasts from these.
	Upcoming []*mirror.Flight

	// Forecast is the per-class demand over the strategic window, counting
	// only flights a purchase placed now can reach (departure at or after
	// the class's hub ETA).
	Forecast shared.KitVector
}

// Build derives the horizon view for the snapshot's current hour.
func Build(snap *mirror.Snapshot, cat *catalog.Catalog, cfg Config) *View {
	now := snap.CurrentHour
	v := &View{Now: now}

	loadEnd := now + shared.GameHour(cfg.LoadHours)
	purchaseEnd := now + shared.GameHour(cfg.PurchaseHours)

	var eta [shared.ClassCount]shared.GameHour
	hub := cat.Hub()
	for _, c := range shared.Classes() {
		eta[c] = now + shared.GameHour(cat.KitMeta(c).LeadTimeHours)
		if hub != nil {
			eta[c] += shared.GameHour(hub.ProcessingHours[c])
		}
	}

	for _, f := range snap.Flights {
		if f.Departure < now || f.Departure >= purchaseEnd {
			continue
		}
		if f.Phase >= mirror.Departed {
			continue
		}
		v.Upcoming = append(v.Upcoming, f)
		if f.Phase == mirror.CheckedIn && f.Departure < loadEnd {
			v.Loadable = append(v.Loadable, f)
		}
		passengers := f.Passengers()
		for _, c := range shared.Classes() {
			if f.Departure >= eta[c] {
				v.Forecast[c] += passengers[c]
			}
		}
	}

	sortFlights(v.Loadable)
	sortFlights(v.Upcoming)
	return v
}

// sortFlights orders chronologically by departure with id as tiebreak, so
// greedy inventory reservation never double-spends and runs are replayable.
func sortFlights(fs []*mirror.Flight) {
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Departure != fs[j].Departure {
			return fs[i].Departure < fs[j].Departure
		}
		return fs[i].ID < fs[j].ID
	})
}
