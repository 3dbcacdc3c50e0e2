package monitor_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rotable-go/internal/adapters/monitor"
	"github.com/andrescamacho/rotable-go/internal/application/mediator"
	"github.com/andrescamacho/rotable-go/internal/application/session"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

// stubHandler answers every registered request type from canned values.
type stubHandler struct {
	summary   *session.Summary
	history   []session.RoundRecord
	startErr  error
	stopErr   error
	lastLimit int
}

func (h *stubHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	switch req := request.(type) {
	case mediator.StartSimulationCommand:
		return nil, h.startErr
	case mediator.StopSimulationCommand:
		return nil, h.stopErr
	case mediator.GetStatusQuery:
		return h.summary, nil
	case mediator.GetInventoryQuery:
		return &mediator.InventoryResponse{ByAirport: h.summary.Inventories}, nil
	case mediator.GetHistoryQuery:
		h.lastLimit = req.Limit
		return h.history, nil
	}
	return nil, errors.New("unhandled")
}

func newTestServer(t *testing.T, h *stubHandler) *monitor.Server {
	t.Helper()
	med := mediator.New()
	for _, register := range []func() error{
		func() error { return mediator.RegisterHandler[mediator.StartSimulationCommand](med, h) },
		func() error { return mediator.RegisterHandler[mediator.StopSimulationCommand](med, h) },
		func() error { return mediator.RegisterHandler[mediator.GetStatusQuery](med, h) },
		func() error { return mediator.RegisterHandler[mediator.GetInventoryQuery](med, h) },
		func() error { return mediator.RegisterHandler[mediator.GetHistoryQuery](med, h) },
	} {
		require.NoError(t, register())
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return monitor.NewServer(med, "localhost:0", logrus.NewEntry(log))
}

func do(t *testing.T, s *monitor.Server, method, target string) *http.Response {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	return resp
}

func TestStatus_ReturnsSummary(t *testing.T) {
	h := &stubHandler{summary: &session.Summary{
		State:     session.Running,
		Round:     42,
		TotalCost: 1234.5,
		Inventories: map[string]shared.KitVector{
			"HUB": {10, 20, 30, 40},
		},
	}}
	s := newTestServer(t, h)

	resp := do(t, s, http.MethodGet, "/status")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got session.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, session.Running, got.State)
	assert.Equal(t, 42, got.Round)
	assert.InDelta(t, 1234.5, got.TotalCost, 1e-9)
}

func TestInventory_ReturnsPerAirportVectors(t *testing.T) {
	h := &stubHandler{summary: &session.Summary{
		Inventories: map[string]shared.KitVector{"AAA": {1, 2, 3, 4}},
	}}
	s := newTestServer(t, h)

	resp := do(t, s, http.MethodGet, "/inventory")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got mediator.InventoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, shared.KitVector{1, 2, 3, 4}, got.ByAirport["AAA"])
}

func TestHistory_PassesLimitAndRejectsBadValues(t *testing.T) {
	h := &stubHandler{summary: &session.Summary{}}
	s := newTestServer(t, h)

	resp := do(t, s, http.MethodGet, "/history?limit=7")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 7, h.lastLimit)

	resp = do(t, s, http.MethodGet, "/history?limit=zero")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestControl_StartAndStopReportConflicts(t *testing.T) {
	h := &stubHandler{summary: &session.Summary{}}
	s := newTestServer(t, h)

	resp := do(t, s, http.MethodPost, "/simulation/start")
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	h.startErr = errors.New("session already running")
	resp = do(t, s, http.MethodPost, "/simulation/start")
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, s, http.MethodPost, "/simulation/stop")
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}
