package mirror

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// AnomalyKind classifies a projection inconsistency.
type AnomalyKind string

const (
	// AnomalyUnknownFlight is an event or commit referencing a flight id the
	// mirror has never seen.
	AnomalyUnknownFlight AnomalyKind = "UNKNOWN_FLIGHT"

	// AnomalyPhaseRegression is an event that would move a flight backwards
	// in its lifecycle.
	AnomalyPhaseRegression AnomalyKind = "PHASE_REGRESSION"

	// AnomalyNegativeBalance is an inventory going below zero.
	AnomalyNegativeBalance AnomalyKind = "NEGATIVE_BALANCE"
)

// Anomaly records an inconsistency between our projection and the server's
// truth. The mirror never throws on one: the server's last known state stays
// authoritative and the round continues. Anomalies surface through the
// monitoring API.
type Anomaly struct {
	ID       string          `json:"id"`
	Kind     AnomalyKind     `json:"kind"`
	Hour     shared.GameHour `json:"hour"`
	FlightID string          `json:"flightId,omitempty"`
	Airport  string          `json:"airport,omitempty"`
	Detail   string          `json:"detail"`
}

func newAnomaly(kind AnomalyKind, hour shared.GameHour, flightID, airport, format string, args ...interface{}) Anomaly {
	return Anomaly{
		ID:       uuid.NewString(),
		Kind:     kind,
		Hour:     hour,
		FlightID: flightID,
		Airport:  airport,
		Detail:   fmt.Sprintf(format, args...),
	}
}
