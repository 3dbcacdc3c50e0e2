package costing

import (
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Model computes operational costs and penalties. All methods are pure
// functions over plain data; the model carries no mutable state and is safe
// to share between the orchestrator and the optimizer worker.
type Model struct {
	cat     *catalog.Catalog
	factors Factors
}

// NewModel builds a cost model over a catalog with the given calibration.
func NewModel(cat *catalog.Catalog, factors Factors) *Model {
	return &Model{cat: cat, factors: factors}
}

// Factors returns the penalty calibration in use.
func (m *Model) Factors() Factors {
	return m.factors
}

// LoadingCost is the money charged at the origin for putting kits on board.
func (m *Model) LoadingCost(origin *catalog.Airport, kits shared.KitVector) float64 {
	return origin.LoadingCost.Dot(kits)
}

// MovementCost is the fuel burned carrying kit weight over the flight.
func (m *Model) MovementCost(aircraft *catalog.AircraftType, distance float64, kits shared.KitVector) float64 {
	weight := 0.0
	for _, c := range shared.Classes() {
		weight += float64(kits[c]) * m.cat.KitMeta(c).WeightKg
	}
	return distance * aircraft.FuelCostPerKm * weight
}

// ProcessingCost is the money charged at the destination for turning arrived
// kits around.
func (m *Model) ProcessingCost(dest *catalog.Airport, kits shared.KitVector) float64 {
	return dest.ProcessingCost.Dot(kits)
}

// PurchaseCost prices a hub purchase order.
func (m *Model) PurchaseCost(order shared.KitVector) float64 {
	total := 0.0
	for _, c := range shared.Classes() {
		total += float64(order[c]) * m.cat.KitMeta(c).Cost
	}
	return total
}

// NegativeInventoryPenalty charges for stock below zero at an hour boundary.
func (m *Model) NegativeInventoryPenalty(inventory shared.KitVector) float64 {
	short := 0
	for _, c := range shared.Classes() {
		if inventory[c] < 0 {
			short -= inventory[c]
		}
	}
	return m.factors.NegativeInventory * float64(short)
}

// OverstockPenalty charges for stock above the airport's storage capacity.
func (m *Model) OverstockPenalty(airport *catalog.Airport, inventory shared.KitVector) float64 {
	excess := 0
	for _, c := range shared.Classes() {
		if over := inventory[c] - airport.StorageCapacity[c]; over > 0 {
			excess += over
		}
	}
	return m.factors.Overstock * float64(excess)
}

// OverloadPenalty charges for kits above the aircraft's per-class capacity.
func (m *Model) OverloadPenalty(aircraft *catalog.AircraftType, distance float64, kits shared.KitVector) float64 {
	penalty := 0.0
	for _, c := range shared.Classes() {
		if over := kits[c] - aircraft.KitCapacity[c]; over > 0 {
			penalty += m.cat.KitMeta(c).Cost * float64(over)
		}
	}
	return m.factors.Overload * distance * aircraft.FuelCostPerKm * penalty
}

// UnfulfilledPenalty charges for passengers flying without a kit.
func (m *Model) UnfulfilledPenalty(distance float64, passengers, kits shared.KitVector) float64 {
	penalty := 0.0
	for _, c := range shared.Classes() {
		if short := passengers[c] - kits[c]; short > 0 {
			penalty += m.cat.KitMeta(c).Cost * float64(short)
		}
	}
	return m.factors.Unfulfilled * distance * penalty
}

// FlightTotal sums every cost and penalty of one load decision: loading at
// the origin, fuel, processing at the destination, unfulfilled shortfall and
// overload excess.
func (m *Model) FlightTotal(
	origin, dest *catalog.Airport,
	aircraft *catalog.AircraftType,
	distance float64,
	passengers, kits shared.KitVector,
) float64 {
	return m.LoadingCost(origin, kits) +
		m.MovementCost(aircraft, distance, kits) +
		m.ProcessingCost(dest, kits) +
		m.UnfulfilledPenalty(distance, passengers, kits) +
		m.OverloadPenalty(aircraft, distance, kits)
}

// EndOfGamePenalty evaluates the terminal multipliers on remaining state at
// the final hour. Informational for the optimizer: it tilts the closing phase
// toward depleting outstation stock.
func (m *Model) EndOfGamePenalty(airport *catalog.Airport, inventory shared.KitVector) float64 {
	penalty := 0.0
	for _, c := range shared.Classes() {
		if inventory[c] < 0 {
			penalty += m.factors.EndNegativeInventory * float64(-inventory[c])
		} else if over := inventory[c] - airport.StorageCapacity[c]; over > 0 {
			penalty += m.factors.EndOverstock * float64(over)
		}
	}
	return penalty
}
