package mirror

import "github.com/andrescamacho/rotable-go/internal/domain/shared"

// EventType is the kind of flight event the server pushes each round.
type EventType string

const (
	EventScheduled EventType = "SCHEDULED"
	EventCheckedIn EventType = "CHECKED_IN"
	EventLanded    EventType = "LANDED"
)

// Event is one flight update from a round response, already translated into
// domain terms by the API adapter.
type Event struct {
	Type   EventType
	Flight Flight
}

// Penalty is a server-issued charge. Penalties are observation-only: they are
// recorded for monitoring and never back-propagate into inventory.
type Penalty struct {
	Code         string          `json:"code"`
	FlightID     string          `json:"flightId,omitempty"`
	FlightNumber string          `json:"flightNumber,omitempty"`
	Issued       shared.GameHour `json:"issued"`
	Amount       float64         `json:"amount"`
	Reason       string          `json:"reason"`
}
