package mirror

import (
	"fmt"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// MovementKind tags a pending kit movement.
type MovementKind int

const (
	// PurchaseDelivery is a hub purchase in flight; completion increments hub
	// inventory. Ready hour already includes lead time plus hub processing.
	PurchaseDelivery MovementKind = iota

	// Processing is arrived kits being turned around; completion increments
	// the destination inventory.
	Processing

	// InTransit is a departed load; completion schedules Processing at the
	// destination and never touches inventory itself.
	InTransit
)

func (k MovementKind) String() string {
	switch k {
	case PurchaseDelivery:
		return "PURCHASE_DELIVERY"
	case Processing:
		return "PROCESSING"
	case InTransit:
		return "IN_TRANSIT"
	}
	return fmt.Sprintf("MovementKind(%d)", int(k))
}

// Movement is one entry in the mirror's pending queue.
type Movement struct {
	Kind      MovementKind     `json:"kind"`
	Airport   string           `json:"airport"`
	FlightID  string           `json:"flightId,omitempty"`
	ReadyHour shared.GameHour  `json:"readyHour"`
	Kits      shared.KitVector `json:"kits"`
}

// before fixes the completion order within one tick: ready hour first, then
// purchases before processing completions before arrivals, then flight id or
// airport lexicographic. Deterministic ordering keeps test replays stable.
func (m *Movement) before(o *Movement) bool {
	if m.ReadyHour != o.ReadyHour {
		return m.ReadyHour < o.ReadyHour
	}
	if m.Kind != o.Kind {
		return m.Kind < o.Kind
	}
	if m.FlightID != o.FlightID {
		return m.FlightID < o.FlightID
	}
	return m.Airport < o.Airport
}
