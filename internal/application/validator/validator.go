// Package validator repairs decisions before submission so the server never
// sees an invalid reference or an over-capacity load. Repairs are the
// optimizer's mistakes, so they are reported as warnings, not errors.
package validator

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/rotable-go/internal/application/optimizer"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Report is the outcome of one pre-submission check. Errors abort the round;
// warnings are logged and the repaired decision is submitted.
type Report struct {
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Repaired int      `json:"repaired"`
}

// OK reports whether the decision may be submitted.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

func (r *Report) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
	r.Repaired++
}

// Check repairs the decision in place and reports what it changed. It drops
// loads on unknown or already-departed flights, clamps each load to the
// aircraft's kit capacity and the origin's remaining inventory, and bounds
// the purchase order by the server's per-class cap.
func Check(d *optimizer.Decision, snap *mirror.Snapshot, cat *catalog.Catalog) *Report {
	r := &Report{}
	if d == nil {
		r.Errors = append(r.Errors, "no decision to validate")
		return r
	}

	ids := make([]string, 0, len(d.Loads))
	for id := range d.Loads {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Reserve origin inventory in departure order so two same-origin loads
	// are clamped consistently.
	sort.SliceStable(ids, func(i, j int) bool {
		fi, fj := snap.Flight(ids[i]), snap.Flight(ids[j])
		if fi == nil || fj == nil {
			return fi != nil
		}
		if fi.Departure != fj.Departure {
			return fi.Departure < fj.Departure
		}
		return fi.ID < fj.ID
	})

	avail := make(map[string]shared.KitVector, len(snap.Inventories))
	for code, inv := range snap.Inventories {
		avail[code] = inv.ClampNonNegative()
	}

	// A load in this decision replaces the flight's committed one, which the
	// mirror refunds at commit time, so those kits are spendable again.
	for _, id := range ids {
		f := snap.Flight(id)
		if f == nil || f.Phase >= mirror.Departed {
			continue
		}
		if prev, ok := snap.CommittedLoads[id]; ok {
			avail[f.Origin] = avail[f.Origin].Add(prev)
		}
	}

	for _, id := range ids {
		kits := d.Loads[id]
		f := snap.Flight(id)
		if f == nil {
			delete(d.Loads, id)
			r.warnf("dropped load for unknown flight %s", id)
			continue
		}
		if f.Phase >= mirror.Departed {
			delete(d.Loads, id)
			r.warnf("dropped load for flight %s already %s", id, f.Phase)
			continue
		}

		aircraft := cat.Aircraft(f.AircraftType)
		inv := avail[f.Origin]
		for _, c := range shared.Classes() {
			if kits[c] < 0 {
				kits[c] = 0
			}
			if aircraft != nil && kits[c] > aircraft.KitCapacity[c] {
				r.warnf("flight %s %s load %d clamped to capacity %d", f.Number, c, kits[c], aircraft.KitCapacity[c])
				kits[c] = aircraft.KitCapacity[c]
			}
			if kits[c] > inv[c] {
				r.warnf("flight %s %s load %d clamped to %s inventory %d", f.Number, c, kits[c], f.Origin, inv[c])
				kits[c] = inv[c]
			}
			inv[c] -= kits[c]
		}
		avail[f.Origin] = inv
		d.Loads[id] = kits
	}

	for _, c := range shared.Classes() {
		if d.Purchase[c] < 0 {
			d.Purchase[c] = 0
		}
		if d.Purchase[c] > optimizer.MaxOrderPerClass {
			r.warnf("%s purchase %d clamped to per-order cap %d", c, d.Purchase[c], optimizer.MaxOrderPerClass)
			d.Purchase[c] = optimizer.MaxOrderPerClass
		}
	}
	if cat.Hub() == nil && !d.Purchase.IsZero() {
		d.Purchase = shared.KitVector{}
		r.warnf("dropped purchase order, catalog has no hub")
	}

	return r
}
