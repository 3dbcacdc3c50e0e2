package mirror

import (
	"sort"

	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Mirror is the per-session projection of airport inventories, in-transit and
// processing movements, pending purchase deliveries and known flights,
// reconstructed incrementally from the server's event stream.
//
// The mirror is single-writer: only the orchestrator loop mutates it. The
// optimizer works on a Snapshot. Inconsistencies are absorbed as anomalies;
// the mirror never fails a round.
type Mirror struct {
	cat *catalog.Catalog

	current     shared.GameHour
	inventories map[string]shared.KitVector
	pending     []*Movement
	flights     map[string]*Flight
	committed   map[string]shared.KitVector

	totalCost float64
	penalties []Penalty
	anomalies []Anomaly

	// Kit-hours observed below zero / above capacity at hour boundaries,
	// exposed to the optimizer's penalty tallies.
	negativeKitHours  int
	overstockKitHours int
}

// New seeds a mirror from the catalog's initial inventories at hour zero.
func New(cat *catalog.Catalog) *Mirror {
	return &Mirror{
		cat:         cat,
		inventories: cat.InitialInventories(),
		flights:     make(map[string]*Flight),
		committed:   make(map[string]shared.KitVector),
	}
}

// CurrentHour returns the mirror's clock.
func (m *Mirror) CurrentHour() shared.GameHour {
	return m.current
}

// TotalCost returns the last cumulative cost the server reported.
func (m *Mirror) TotalCost() float64 {
	return m.totalCost
}

// Inventory returns the on-hand stock of one airport.
func (m *Mirror) Inventory(code string) shared.KitVector {
	return m.inventories[code]
}

// Inventories returns a copy of all on-hand stock.
func (m *Mirror) Inventories() map[string]shared.KitVector {
	out := make(map[string]shared.KitVector, len(m.inventories))
	for k, v := range m.inventories {
		out[k] = v
	}
	return out
}

// Flight returns the known flight with the given id, or nil.
func (m *Mirror) Flight(id string) *Flight {
	return m.flights[id]
}

// Flights returns all known flights sorted by id.
func (m *Mirror) Flights() []*Flight {
	out := make([]*Flight, 0, len(m.flights))
	for _, f := range m.flights {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CommittedLoad returns the load committed for a flight, if any.
func (m *Mirror) CommittedLoad(flightID string) (shared.KitVector, bool) {
	k, ok := m.committed[flightID]
	return k, ok
}

// Pending returns a copy of the pending movement queue.
func (m *Mirror) Pending() []Movement {
	out := make([]Movement, len(m.pending))
	for i, mv := range m.pending {
		out[i] = *mv
	}
	return out
}

// Anomalies returns every anomaly recorded so far.
func (m *Mirror) Anomalies() []Anomaly {
	return append([]Anomaly(nil), m.anomalies...)
}

// RecentPenalties returns the last n server-issued penalties.
func (m *Mirror) RecentPenalties(n int) []Penalty {
	if n > len(m.penalties) {
		n = len(m.penalties)
	}
	return append([]Penalty(nil), m.penalties[len(m.penalties)-n:]...)
}

// NegativeKitHours returns the cumulative kit-hours observed below zero.
func (m *Mirror) NegativeKitHours() int {
	return m.negativeKitHours
}

// OverstockKitHours returns the cumulative kit-hours observed above capacity.
func (m *Mirror) OverstockKitHours() int {
	return m.overstockKitHours
}

// ApplyEvents applies a batch of flight events in submission order.
func (m *Mirror) ApplyEvents(events []Event) {
	for i := range events {
		m.applyEvent(&events[i])
	}
}

func (m *Mirror) applyEvent(e *Event) {
	switch e.Type {
	case EventScheduled:
		if f, ok := m.flights[e.Flight.ID]; ok {
			// Re-announcement refreshes the schedule, never the phase.
			f.Number = e.Flight.Number
			f.Departure = e.Flight.Departure
			f.Arrival = e.Flight.Arrival
			f.PlannedDistance = e.Flight.PlannedDistance
			f.PlannedPassengers = e.Flight.PlannedPassengers
			return
		}
		f := e.Flight.Clone()
		f.Phase = Announced
		m.flights[f.ID] = f

	case EventCheckedIn:
		f, ok := m.flights[e.Flight.ID]
		if !ok {
			m.anomalies = append(m.anomalies, newAnomaly(
				AnomalyUnknownFlight, m.current, e.Flight.ID, "",
				"CHECKED_IN for flight never announced"))
			f = e.Flight.Clone()
			m.flights[f.ID] = f
		}
		if f.Phase > CheckedIn {
			m.anomalies = append(m.anomalies, newAnomaly(
				AnomalyPhaseRegression, m.current, f.ID, "",
				"CHECKED_IN after %s", f.Phase))
			return
		}
		f.Phase = CheckedIn
		if e.Flight.ActualPassengers != nil {
			v := *e.Flight.ActualPassengers
			f.ActualPassengers = &v
		}
		if e.Flight.ActualDistance != nil {
			d := *e.Flight.ActualDistance
			f.ActualDistance = &d
		}

	case EventLanded:
		f, ok := m.flights[e.Flight.ID]
		if !ok {
			m.anomalies = append(m.anomalies, newAnomaly(
				AnomalyUnknownFlight, m.current, e.Flight.ID, "",
				"LANDED for flight never announced"))
			f = e.Flight.Clone()
			m.flights[f.ID] = f
		}
		arrival := e.Flight.Arrival
		if e.Flight.ActualArrival != nil {
			arrival = *e.Flight.ActualArrival
		}
		f.ActualArrival = &arrival
		if e.Flight.ActualDistance != nil {
			d := *e.Flight.ActualDistance
			f.ActualDistance = &d
		}
		prev := f.Phase
		f.Phase = Landed
		m.completeTransit(f, arrival, prev)
	}
}

// completeTransit turns the in-transit movement of a landed flight into
// processing movements at the destination, one per distinct ready hour.
func (m *Mirror) completeTransit(f *Flight, arrival shared.GameHour, prev Phase) {
	var kits shared.KitVector
	found := false
	for i, mv := range m.pending {
		if mv.Kind == InTransit && mv.FlightID == f.ID {
			kits = mv.Kits
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		if prev >= Departed {
			// Transit already completed when the scheduled arrival was
			// crossed; nothing left on board.
			return
		}
		// Landed before the departure hour was crossed in advanceTo. Kits on
		// board are whatever we committed; nothing committed means nothing
		// to process.
		if c, ok := m.committed[f.ID]; ok {
			kits = c
		}
	}
	if kits.IsZero() {
		return
	}
	m.scheduleProcessing(f.Destination, arrival, kits)
}

// scheduleProcessing queues arrived kits for reuse after the destination's
// per-class processing delay.
func (m *Mirror) scheduleProcessing(airportCode string, arrival shared.GameHour, kits shared.KitVector) {
	dest := m.cat.Airport(airportCode)
	byReady := make(map[shared.GameHour]shared.KitVector)
	for _, c := range shared.Classes() {
		if kits[c] == 0 {
			continue
		}
		ready := arrival
		if dest != nil {
			ready += shared.GameHour(dest.ProcessingHours[c])
		}
		v := byReady[ready]
		v[c] += kits[c]
		byReady[ready] = v
	}
	for ready, v := range byReady {
		m.insert(&Movement{
			Kind:      Processing,
			Airport:   airportCode,
			ReadyHour: ready,
			Kits:      v,
		})
	}
}

// insert keeps the pending queue ordered by the deterministic tiebreak.
func (m *Mirror) insert(mv *Movement) {
	i := sort.Search(len(m.pending), func(i int) bool { return mv.before(m.pending[i]) })
	m.pending = append(m.pending, nil)
	copy(m.pending[i+1:], m.pending[i:])
	m.pending[i] = mv
}

// AdvanceTo moves the mirror clock forward to h, completing every pending
// movement that becomes ready and departing every checked-in flight whose
// scheduled hour is crossed. Hours already in the past are ignored: the clock
// is monotone.
func (m *Mirror) AdvanceTo(h shared.GameHour) {
	if h <= m.current {
		return
	}
	for b := m.current + 1; b <= h; b++ {
		m.departFlights(b)
		m.completeReady(b)
		m.tallyBoundaries()
	}
	m.current = h
}

// departFlights marks checked-in flights departed once their hour is reached
// and puts any committed load in transit. Loads never committed move nothing.
func (m *Mirror) departFlights(b shared.GameHour) {
	ids := make([]string, 0)
	for id, f := range m.flights {
		if f.Phase == CheckedIn && f.Departure <= b {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		f := m.flights[id]
		f.Phase = Departed
		kits, ok := m.committed[id]
		if !ok || kits.IsZero() {
			continue
		}
		m.insert(&Movement{
			Kind:      InTransit,
			Airport:   f.Destination,
			FlightID:  id,
			ReadyHour: f.Arrival,
			Kits:      kits,
		})
	}
}

// completeReady pops and applies every movement ready by hour b.
func (m *Mirror) completeReady(b shared.GameHour) {
	for len(m.pending) > 0 && m.pending[0].ReadyHour <= b {
		mv := m.pending[0]
		m.pending = m.pending[1:]
		switch mv.Kind {
		case PurchaseDelivery, Processing:
			m.inventories[mv.Airport] = m.inventories[mv.Airport].Add(mv.Kits)
		case InTransit:
			// Scheduled arrival reached before the LANDED event; kits enter
			// processing at the destination. Arrival itself moves no stock.
			m.scheduleProcessing(mv.Airport, mv.ReadyHour, mv.Kits)
		}
	}
}

// tallyBoundaries records negative and overstock quantities at an hour
// boundary for the optimizer's penalty observations.
func (m *Mirror) tallyBoundaries() {
	for code, inv := range m.inventories {
		a := m.cat.Airport(code)
		for _, c := range shared.Classes() {
			if inv[c] < 0 {
				m.negativeKitHours -= inv[c]
			} else if a != nil {
				if over := inv[c] - a.StorageCapacity[c]; over > 0 {
					m.overstockKitHours += over
				}
			}
		}
	}
}

// CommitLoad reserves kits for a flight at its origin. The server treats the
// load at submission as authoritative, so inventory is decremented now.
// A second commit for the same flight overwrites the first.
func (m *Mirror) CommitLoad(flightID string, kits shared.KitVector) {
	f, ok := m.flights[flightID]
	if !ok {
		m.anomalies = append(m.anomalies, newAnomaly(
			AnomalyUnknownFlight, m.current, flightID, "",
			"load committed for unknown flight"))
		return
	}
	if f.Phase >= Departed {
		m.anomalies = append(m.anomalies, newAnomaly(
			AnomalyPhaseRegression, m.current, flightID, "",
			"load committed after departure"))
		return
	}
	if prev, ok := m.committed[flightID]; ok {
		m.inventories[f.Origin] = m.inventories[f.Origin].Add(prev)
	}
	m.inventories[f.Origin] = m.inventories[f.Origin].Sub(kits)
	m.committed[flightID] = kits
	inv := m.inventories[f.Origin]
	for _, c := range shared.Classes() {
		if inv[c] < 0 {
			m.anomalies = append(m.anomalies, newAnomaly(
				AnomalyNegativeBalance, m.current, flightID, f.Origin,
				"%s stock %d after committing %d", c, inv[c], kits[c]))
			break
		}
	}
}

// CommitPurchase schedules hub deliveries for a purchase order. Lead time is
// per class, so one logical order becomes up to four movements; each becomes
// available after lead time plus the hub's processing delay.
func (m *Mirror) CommitPurchase(order shared.KitVector) {
	hub := m.cat.Hub()
	if hub == nil || order.IsZero() {
		return
	}
	byReady := make(map[shared.GameHour]shared.KitVector)
	for _, c := range shared.Classes() {
		if order[c] <= 0 {
			continue
		}
		ready := m.current +
			shared.GameHour(m.cat.KitMeta(c).LeadTimeHours) +
			shared.GameHour(hub.ProcessingHours[c])
		v := byReady[ready]
		v[c] += order[c]
		byReady[ready] = v
	}
	for ready, v := range byReady {
		m.insert(&Movement{
			Kind:      PurchaseDelivery,
			Airport:   hub.Code,
			ReadyHour: ready,
			Kits:      v,
		})
	}
}

// IngestRound applies one round response: events in server order, the
// authoritative cumulative cost and this round's penalties, then advances to
// the next hour. Penalties are observation-only.
func (m *Mirror) IngestRound(serverHour shared.GameHour, events []Event, penalties []Penalty, totalCost float64) {
	m.ApplyEvents(events)
	m.totalCost = totalCost
	m.penalties = append(m.penalties, penalties...)
	m.AdvanceTo(serverHour + 1)
}
