package catalog

import (
	"fmt"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Airport is a node of the static network. Exactly one airport in a catalog
// is the hub; purchases can only be placed there.
type Airport struct {
	Code string
	Name string
	Hub  bool

	// StorageCapacity bounds on-hand inventory before the overstock penalty
	// applies. It is a soft limit: the mirror never rejects stock above it.
	StorageCapacity shared.KitVector

	// LoadingCost is money per kit loaded onto a departing flight here.
	LoadingCost shared.CostVector

	// ProcessingCost is money per kit processed on arrival here.
	ProcessingCost shared.CostVector

	// ProcessingHours is the per-class delay between a kit arriving and it
	// becoming loadable again.
	ProcessingHours shared.KitVector

	// InitialInventory seeds the mirror at session start.
	InitialInventory shared.KitVector
}

func (a *Airport) String() string {
	role := "outstation"
	if a.Hub {
		role = "hub"
	}
	return fmt.Sprintf("Airport(%s, %s)", a.Code, role)
}

// AircraftType describes one airframe of the schedule.
type AircraftType struct {
	Code string

	// PassengerCapacity is informational; demand comes from the flight's
	// passenger vectors, not from seat counts.
	PassengerCapacity shared.KitVector

	// KitCapacity is the hard per-class bound on kits loadable on one flight.
	KitCapacity shared.KitVector

	FuelCostPerKm float64
}

func (t *AircraftType) String() string {
	return fmt.Sprintf("AircraftType(%s)", t.Code)
}

// FlightPlanEntry is one row of the static schedule template. Live flights
// arrive through server events; the template is used for reference lookups
// and catalog validation only.
type FlightPlanEntry struct {
	FlightID          string
	FlightNumber      string
	Origin            string
	Destination       string
	Departure         shared.GameHour
	Arrival           shared.GameHour
	PlannedPassengers shared.KitVector
	PlannedDistance   float64
	AircraftType      string
}
