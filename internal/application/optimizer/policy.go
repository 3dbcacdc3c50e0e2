package optimizer

import (
	"math"

	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/costing"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// greedyLoads is the deterministic baseline: load passenger counts plus a
// one-kit buffer on long legs and on outstation departures, reserving origin
// inventory in chronological order so it is never spent twice. Kits already
// committed to a still-loadable flight count as available, since re-submitting
// that flight refunds them.
func greedyLoads(snap *mirror.Snapshot, view *horizon.View, cat *catalog.Catalog, breakEven float64) []shared.KitVector {
	avail := snap.PlannableInventories()

	loads := make([]shared.KitVector, len(view.Loadable))
	for i, f := range view.Loadable {
		origin := cat.Airport(f.Origin)
		aircraft := cat.Aircraft(f.AircraftType)
		if origin == nil || aircraft == nil {
			continue
		}
		buffer := 0
		if f.Distance() >= breakEven || !origin.Hub {
			buffer = 1
		}
		pax := f.Passengers()
		inv := avail[f.Origin]
		var kits shared.KitVector
		for _, c := range shared.Classes() {
			desired := pax[c] + buffer
			if desired > aircraft.KitCapacity[c] {
				desired = aircraft.KitCapacity[c]
			}
			if desired > inv[c] {
				desired = inv[c]
			}
			if desired < 0 {
				desired = 0
			}
			kits[c] = desired
			inv[c] -= desired
		}
		avail[f.Origin] = inv
		loads[i] = kits
	}
	return loads
}

// purchasePolicy sizes the hub order per class: cover any projected shortfall
// at the delivery ETA with a 30% safety margin, otherwise top up toward near
// hub demand and the purchase-reachable forecast over the rest of the
// horizon, clamped by hub storage headroom and the server's per-order cap.
// Returns zero when the catalog carries no hub.
func purchasePolicy(snap *mirror.Snapshot, view *horizon.View, cat *catalog.Catalog) shared.KitVector {
	hub := cat.Hub()
	if hub == nil {
		return shared.KitVector{}
	}

	var order shared.KitVector
	hubInv := snap.PlannableInventories()[hub.Code]
	now := view.Now

	for _, c := range shared.Classes() {
		eta := now + shared.GameHour(cat.KitMeta(c).LeadTimeHours) + shared.GameHour(hub.ProcessingHours[c])

		arrivals := 0
		for _, mv := range snap.Pending {
			switch mv.Kind {
			case mirror.PurchaseDelivery, mirror.Processing:
				if mv.Airport == hub.Code && mv.ReadyHour <= eta {
					arrivals += mv.Kits[c]
				}
			case mirror.InTransit:
				ready := mv.ReadyHour + shared.GameHour(hub.ProcessingHours[c])
				if mv.Airport == hub.Code && ready <= eta {
					arrivals += mv.Kits[c]
				}
			}
		}

		demandBefore, demandNext48 := 0, 0
		for _, f := range view.Upcoming {
			if f.Origin != hub.Code {
				continue
			}
			p := f.Passengers()[c]
			if f.Departure < eta {
				demandBefore += p
			} else if f.Departure < eta+48 {
				demandNext48 += p
			}
		}

		stockAtEta := hubInv[c] + arrivals - demandBefore

		want := 0
		switch {
		case stockAtEta < 0:
			want = int(math.Ceil(float64(-stockAtEta) * 1.3))
		case float64(stockAtEta) < 0.5*float64(demandNext48):
			want = int(math.Ceil(0.5*float64(demandNext48))) - stockAtEta
		case hubInv[c] < view.Forecast[c]:
			want = view.Forecast[c] - hubInv[c]
		}

		headroom := hub.StorageCapacity[c] - (hubInv[c] + arrivals)
		if want > headroom {
			want = headroom
		}
		if want > MaxOrderPerClass {
			want = MaxOrderPerClass
		}
		if want < 0 {
			want = 0
		}
		order[c] = want
	}
	return order
}

// Greedy returns the deterministic baseline decision without running the
// evolutionary search. The session falls back to it when the optimizer's
// budget is too tight to evolve anything better.
func Greedy(snap *mirror.Snapshot, view *horizon.View, cat *catalog.Catalog, factors costing.Factors) *Decision {
	d := NewDecision()
	loads := greedyLoads(snap, view, cat, factors.BreakEvenDistance())
	for i, f := range view.Loadable {
		d.Loads[f.ID] = loads[i]
	}
	d.Purchase = purchasePolicy(snap, view, cat)
	return d
}
