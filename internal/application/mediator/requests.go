package mediator

import (
	"context"

	"github.com/andrescamacho/rotable-go/internal/application/session"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// StartSimulationCommand launches a new game session.
type StartSimulationCommand struct{}

// StopSimulationCommand requests a graceful stop of the live session.
type StopSimulationCommand struct{}

// GetStatusQuery reads the live session summary.
type GetStatusQuery struct{}

// GetInventoryQuery reads the per-airport inventory projection.
type GetInventoryQuery struct{}

// GetHistoryQuery reads the last N rounds.
type GetHistoryQuery struct {
	Limit int
}

// InventoryResponse is the GetInventoryQuery result.
type InventoryResponse struct {
	ByAirport map[string]shared.KitVector `json:"by_airport"`
}

// sessionHandlers bridges the request types onto the session manager.
type sessionHandlers struct {
	manager *session.Manager
}

func (h *sessionHandlers) Handle(ctx context.Context, request Request) (Response, error) {
	switch req := request.(type) {
	case StartSimulationCommand:
		return nil, h.manager.Start(ctx)
	case StopSimulationCommand:
		return nil, h.manager.Stop()
	case GetStatusQuery:
		return h.manager.Summary(), nil
	case GetInventoryQuery:
		summary := h.manager.Summary()
		resp := &InventoryResponse{ByAirport: make(map[string]shared.KitVector, len(summary.Inventories))}
		for code, inv := range summary.Inventories {
			resp.ByAirport[code] = inv
		}
		return resp, nil
	case GetHistoryQuery:
		return h.manager.History(req.Limit), nil
	}
	return nil, errUnhandled(request)
}

func errUnhandled(request Request) error {
	return &UnhandledRequestError{Request: request}
}

// UnhandledRequestError is returned when a request reaches the wrong handler.
type UnhandledRequestError struct {
	Request Request
}

func (e *UnhandledRequestError) Error() string {
	return "unhandled request type"
}

// RegisterSessionHandlers wires every session command and query onto m.
func RegisterSessionHandlers(m Mediator, manager *session.Manager) error {
	h := &sessionHandlers{manager: manager}
	for _, register := range []func() error{
		func() error { return RegisterHandler[StartSimulationCommand](m, h) },
		func() error { return RegisterHandler[StopSimulationCommand](m, h) },
		func() error { return RegisterHandler[GetStatusQuery](m, h) },
		func() error { return RegisterHandler[GetInventoryQuery](m, h) },
		func() error { return RegisterHandler[GetHistoryQuery](m, h) },
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}
