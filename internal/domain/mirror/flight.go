package mirror

import (
	"fmt"

	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// Phase is the lifecycle of one flight as observed through server events.
// ANNOUNCED -> CHECKED_IN -> DEPARTED -> LANDED, never backwards.
type Phase int

const (
	Announced Phase = iota
	CheckedIn
	Departed
	Landed
)

func (p Phase) String() string {
	switch p {
	case Announced:
		return "ANNOUNCED"
	case CheckedIn:
		return "CHECKED_IN"
	case Departed:
		return "DEPARTED"
	case Landed:
		return "LANDED"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Flight is the mirror's record of one flight. It carries IDs and resolves
// airports and aircraft through the catalog; no back-references.
type Flight struct {
	ID           string          `json:"id"`
	Number       string          `json:"number"`
	Origin       string          `json:"origin"`
	Destination  string          `json:"destination"`
	Departure    shared.GameHour `json:"departure"`
	Arrival      shared.GameHour `json:"arrival"`
	AircraftType string          `json:"aircraftType"`

	PlannedDistance   float64          `json:"plannedDistance"`
	PlannedPassengers shared.KitVector `json:"plannedPassengers"`

	ActualPassengers *shared.KitVector `json:"actualPassengers,omitempty"`
	ActualDistance   *float64          `json:"actualDistance,omitempty"`
	ActualArrival    *shared.GameHour  `json:"actualArrival,omitempty"`

	Phase Phase `json:"phase"`
}

// Passengers returns the best available passenger vector: actuals once the
// flight has checked in, otherwise the plan.
func (f *Flight) Passengers() shared.KitVector {
	if f.Phase >= CheckedIn && f.ActualPassengers != nil {
		return *f.ActualPassengers
	}
	return f.PlannedPassengers
}

// Distance returns the actual distance if the server has reported one,
// otherwise the planned distance.
func (f *Flight) Distance() float64 {
	if f.ActualDistance != nil {
		return *f.ActualDistance
	}
	return f.PlannedDistance
}

// ArrivalHour is the actual arrival once landed, the schedule before.
func (f *Flight) ArrivalHour() shared.GameHour {
	if f.ActualArrival != nil {
		return *f.ActualArrival
	}
	return f.Arrival
}

// Clone returns a deep copy.
func (f *Flight) Clone() *Flight {
	cp := *f
	if f.ActualPassengers != nil {
		v := *f.ActualPassengers
		cp.ActualPassengers = &v
	}
	if f.ActualDistance != nil {
		d := *f.ActualDistance
		cp.ActualDistance = &d
	}
	if f.ActualArrival != nil {
		h := *f.ActualArrival
		cp.ActualArrival = &h
	}
	return &cp
}
