package optimizer

import (
	"sort"

	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/costing"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// flightCtx caches per-flight lookups so each fitness call does none.
type flightCtx struct {
	origin   *catalog.Airport
	dest     *catalog.Airport
	aircraft *catalog.AircraftType
	distance float64
	pax      shared.KitVector
	departOff int
	arriveOff int
}

// evaluator scores genomes by pricing every flight decision and then walking
// the projected inventories of every touched airport over the strategic
// window, hour by hour, charging the negative and overstock penalties exactly
// the way the server's boundary tally does.
//
// The pending queue, committed loads of flights outside the decision, and the
// starting inventories are folded into a base delta timeline once; each
// genome only layers its own deltas on top.
type evaluator struct {
	model *costing.Model
	cat   *catalog.Catalog
	view  *horizon.View

	flights []flightCtx
	horizon int

	airports []*catalog.Airport
	index    map[string]int
	start    []shared.KitVector
	base     [][]shared.KitVector
	scratch  [][]shared.KitVector

	hub       *catalog.Airport
	hubIdx    int
	etaOffset [shared.ClassCount]int

	// endOff is the offset of the final game hour inside the projection
	// window, or -1 when the game outlives the window.
	endOff int

	evals int
}

func newEvaluator(model *costing.Model, cat *catalog.Catalog, snap *mirror.Snapshot, view *horizon.View, cfg horizon.Config) *evaluator {
	e := &evaluator{
		model: model,
		cat:   cat,
		view:  view,
		index: make(map[string]int),
		hub:   cat.Hub(),
	}

	e.horizon = cfg.PurchaseHours
	if e.hub != nil {
		for _, c := range shared.Classes() {
			e.etaOffset[c] = cat.KitMeta(c).LeadTimeHours + e.hub.ProcessingHours[c]
			if e.etaOffset[c] >= e.horizon {
				e.horizon = e.etaOffset[c] + 1
			}
		}
	}
	e.endOff = -1
	if off := int(shared.TotalRounds - view.Now); off >= 0 && off <= e.horizon {
		e.endOff = off
	}

	now := view.Now
	loaded := make(map[string]bool, len(view.Loadable))
	for _, f := range view.Loadable {
		loaded[f.ID] = true
		fc := flightCtx{
			origin:   cat.Airport(f.Origin),
			dest:     cat.Airport(f.Destination),
			aircraft: cat.Aircraft(f.AircraftType),
			distance: f.Distance(),
			pax:      f.Passengers(),
			departOff: int(f.Departure - now),
			arriveOff: int(f.ArrivalHour() - now),
		}
		e.flights = append(e.flights, fc)
		e.touch(f.Origin)
		e.touch(f.Destination)
	}
	if e.hub != nil {
		e.hubIdx = e.touch(e.hub.Code)
	}
	for _, mv := range snap.Pending {
		e.touch(mv.Airport)
	}

	// Committed loads on not-yet-departed flights are refundable on
	// re-submission, so the projection starts from the credited stock; the
	// departure debit is layered back per flight below (for flights outside
	// the decision) or by each genome's own load genes.
	plannable := snap.PlannableInventories()

	e.start = make([]shared.KitVector, len(e.airports))
	e.base = make([][]shared.KitVector, len(e.airports))
	e.scratch = make([][]shared.KitVector, len(e.airports))
	for i, a := range e.airports {
		e.start[i] = plannable[a.Code]
		e.base[i] = make([]shared.KitVector, e.horizon+1)
		e.scratch[i] = make([]shared.KitVector, e.horizon+1)
	}

	for i := range snap.Pending {
		e.foldMovement(&snap.Pending[i], now)
	}

	// Loads already committed on flights outside this decision still deplete
	// their origin at departure and come back at the destination later.
	for id, kits := range snap.CommittedLoads {
		if loaded[id] || kits.IsZero() {
			continue
		}
		f := snap.Flight(id)
		if f == nil || f.Phase >= mirror.Departed {
			continue
		}
		e.addDelta(f.Origin, int(f.Departure-now), negate(kits))
		if dest := cat.Airport(f.Destination); dest != nil {
			arr := int(f.ArrivalHour() - now)
			for _, c := range shared.Classes() {
				e.addClassDelta(f.Destination, arr+dest.ProcessingHours[c], c, kits[c])
			}
		}
	}

	return e
}

// touch registers an airport in the simulation, returning its slot.
func (e *evaluator) touch(code string) int {
	if i, ok := e.index[code]; ok {
		return i
	}
	a := e.cat.Airport(code)
	if a == nil {
		return -1
	}
	i := len(e.airports)
	e.index[code] = i
	e.airports = append(e.airports, a)
	return i
}

func (e *evaluator) foldMovement(mv *mirror.Movement, now shared.GameHour) {
	off := int(mv.ReadyHour - now)
	switch mv.Kind {
	case mirror.PurchaseDelivery, mirror.Processing:
		e.addDelta(mv.Airport, off, mv.Kits)
	case mirror.InTransit:
		dest := e.cat.Airport(mv.Airport)
		if dest == nil {
			return
		}
		for _, c := range shared.Classes() {
			e.addClassDelta(mv.Airport, off+dest.ProcessingHours[c], c, mv.Kits[c])
		}
	}
}

func (e *evaluator) addDelta(code string, off int, kits shared.KitVector) {
	i, ok := e.index[code]
	if !ok || off < 0 || off > e.horizon {
		return
	}
	e.base[i][off] = e.base[i][off].Add(kits)
}

func (e *evaluator) addClassDelta(code string, off int, c shared.Class, n int) {
	i, ok := e.index[code]
	if !ok || off < 0 || off > e.horizon || n == 0 {
		return
	}
	e.base[i][off][c] += n
}

func negate(v shared.KitVector) shared.KitVector {
	for _, c := range shared.Classes() {
		v[c] = -v[c]
	}
	return v
}

// evaluate scores a genome. Lower is better.
func (e *evaluator) evaluate(g *genome) float64 {
	if g.scored {
		return g.fitness
	}
	e.evals++
	for i := range e.scratch {
		copy(e.scratch[i], e.base[i])
	}

	total := 0.0
	for i := range e.flights {
		fc := &e.flights[i]
		kits := g.loads[i]
		if fc.origin == nil || fc.dest == nil || fc.aircraft == nil {
			continue
		}
		total += e.model.FlightTotal(fc.origin, fc.dest, fc.aircraft, fc.distance, fc.pax, kits)
		if oi, ok := e.index[fc.origin.Code]; ok && fc.departOff >= 0 && fc.departOff <= e.horizon {
			e.scratch[oi][fc.departOff] = e.scratch[oi][fc.departOff].Sub(kits)
		}
		if di, ok := e.index[fc.dest.Code]; ok {
			for _, c := range shared.Classes() {
				off := fc.arriveOff + fc.dest.ProcessingHours[c]
				if off >= 0 && off <= e.horizon {
					e.scratch[di][off][c] += kits[c]
				}
			}
		}
	}

	if e.hub != nil && !g.purchase.IsZero() {
		total += e.model.PurchaseCost(g.purchase)
		for _, c := range shared.Classes() {
			if off := e.etaOffset[c]; off <= e.horizon {
				e.scratch[e.hubIdx][off][c] += g.purchase[c]
			}
		}
	}

	for i, a := range e.airports {
		inv := e.start[i]
		for off := 0; off <= e.horizon; off++ {
			inv = inv.Add(e.scratch[i][off])
			total += e.model.NegativeInventoryPenalty(inv)
			total += e.model.OverstockPenalty(a, inv)
			if off == e.endOff {
				// Stock left at the final hour is scored with the terminal
				// multipliers; nothing after it matters.
				total += e.model.EndOfGamePenalty(a, inv)
				break
			}
		}
	}

	g.fitness = total
	g.scored = true
	return total
}

// rank sorts a population best-first with a stable order so equal-fitness
// individuals keep their insertion order and runs stay reproducible.
func (e *evaluator) rank(pop []*genome) {
	for _, g := range pop {
		e.evaluate(g)
	}
	sort.SliceStable(pop, func(i, j int) bool { return pop[i].fitness < pop[j].fitness })
}
