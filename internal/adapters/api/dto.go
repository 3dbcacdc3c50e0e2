package api

import (
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// GameTime is the server's day/hour pair.
type GameTime struct {
	Day  int `json:"day"`
	Hour int `json:"hour"`
}

// ToHour flattens a day/hour pair into a game hour.
func (t GameTime) ToHour() shared.GameHour {
	return shared.HourOf(t.Day, t.Hour)
}

// GameTimeOf splits a game hour back into the wire representation.
func GameTimeOf(h shared.GameHour) GameTime {
	return GameTime{Day: h.Day(), Hour: h.HourOfDay()}
}

// KitSet is the wire form of a per-class vector.
type KitSet struct {
	First          int `json:"first" validate:"min=0,max=42000"`
	Business       int `json:"business" validate:"min=0,max=42000"`
	PremiumEconomy int `json:"premiumEconomy" validate:"min=0,max=42000"`
	Economy        int `json:"economy" validate:"min=0,max=42000"`
}

// Vector converts the wire form into the domain vector.
func (k KitSet) Vector() shared.KitVector {
	return shared.KitVector{
		shared.First:          k.First,
		shared.Business:       k.Business,
		shared.PremiumEconomy: k.PremiumEconomy,
		shared.Economy:        k.Economy,
	}
}

// KitSetOf converts a domain vector into the wire form.
func KitSetOf(v shared.KitVector) KitSet {
	return KitSet{
		First:          v[shared.First],
		Business:       v[shared.Business],
		PremiumEconomy: v[shared.PremiumEconomy],
		Economy:        v[shared.Economy],
	}
}

// FlightLoadDto is one flight's kit load in a round submission.
type FlightLoadDto struct {
	FlightID   string `json:"flightId" validate:"required"`
	LoadedKits KitSet `json:"loadedKits"`
}

// RoundRequestDto is the body of POST /play/round.
type RoundRequestDto struct {
	Day                 int             `json:"day" validate:"min=0"`
	Hour                int             `json:"hour" validate:"min=0,max=23"`
	FlightLoads         []FlightLoadDto `json:"flightLoads"`
	KitPurchasingOrders KitSet          `json:"kitPurchasingOrders"`
}

// FlightEventDto is one entry of the server's flightUpdates stream.
type FlightEventDto struct {
	EventType          string   `json:"eventType"`
	FlightID           string   `json:"flightId"`
	FlightNumber       string   `json:"flightNumber"`
	OriginAirport      string   `json:"originAirport"`
	DestinationAirport string   `json:"destinationAirport"`
	Departure          GameTime `json:"departure"`
	Arrival            GameTime `json:"arrival"`
	Passengers         KitSet   `json:"passengers"`
	AircraftType       string   `json:"aircraftType"`
	Distance           float64  `json:"distance"`
}

// Event converts the wire event into the mirror's domain event.
func (d FlightEventDto) Event() (mirror.Event, error) {
	var typ mirror.EventType
	switch d.EventType {
	case "SCHEDULED":
		typ = mirror.EventScheduled
	case "CHECKED_IN":
		typ = mirror.EventCheckedIn
	case "LANDED":
		typ = mirror.EventLanded
	default:
		return mirror.Event{}, shared.NewProtocolError(0, "unknown event type %q for flight %s", d.EventType, d.FlightID)
	}

	f := mirror.Flight{
		ID:           d.FlightID,
		Number:       d.FlightNumber,
		Origin:       d.OriginAirport,
		Destination:  d.DestinationAirport,
		Departure:    d.Departure.ToHour(),
		Arrival:      d.Arrival.ToHour(),
		AircraftType: d.AircraftType,
	}
	switch typ {
	case mirror.EventScheduled:
		f.PlannedDistance = d.Distance
		f.PlannedPassengers = d.Passengers.Vector()
	default:
		pax := d.Passengers.Vector()
		dist := d.Distance
		f.ActualPassengers = &pax
		f.ActualDistance = &dist
		if typ == mirror.EventLanded {
			arr := d.Arrival.ToHour()
			f.ActualArrival = &arr
		}
	}
	return mirror.Event{Type: typ, Flight: f}, nil
}

// PenaltyDto is one server-issued penalty.
type PenaltyDto struct {
	Code         string  `json:"code"`
	FlightID     string  `json:"flightId,omitempty"`
	FlightNumber string  `json:"flightNumber,omitempty"`
	IssuedDay    int     `json:"issuedDay"`
	IssuedHour   int     `json:"issuedHour"`
	Penalty      float64 `json:"penalty"`
	Reason       string  `json:"reason"`
}

// DomainPenalty converts the wire penalty into the domain record.
func (d PenaltyDto) DomainPenalty() mirror.Penalty {
	return mirror.Penalty{
		Code:         d.Code,
		FlightID:     d.FlightID,
		FlightNumber: d.FlightNumber,
		Issued:       shared.HourOf(d.IssuedDay, d.IssuedHour),
		Amount:       d.Penalty,
		Reason:       d.Reason,
	}
}

// HourResponseDto is the body the server returns for /play/round and
// /session/end.
type HourResponseDto struct {
	Day           int              `json:"day"`
	Hour          int              `json:"hour"`
	FlightUpdates []FlightEventDto `json:"flightUpdates"`
	Penalties     []PenaltyDto     `json:"penalties"`
	TotalCost     float64          `json:"totalCost"`
}

// ServerHour is the game hour the response reports.
func (d *HourResponseDto) ServerHour() shared.GameHour {
	return shared.HourOf(d.Day, d.Hour)
}

// Events converts every flight update in delivery order.
func (d *HourResponseDto) Events() ([]mirror.Event, error) {
	events := make([]mirror.Event, 0, len(d.FlightUpdates))
	for _, u := range d.FlightUpdates {
		ev, err := u.Event()
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// DomainPenalties converts every penalty in delivery order.
func (d *HourResponseDto) DomainPenalties() []mirror.Penalty {
	ps := make([]mirror.Penalty, 0, len(d.Penalties))
	for _, p := range d.Penalties {
		ps = append(ps, p.DomainPenalty())
	}
	return ps
}

type sessionStartResponse struct {
	SessionID string `json:"session_id"`
}
