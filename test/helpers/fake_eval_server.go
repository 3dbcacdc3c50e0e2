// Package helpers provides test doubles shared by the BDD suite.
package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/andrescamacho/rotable-go/internal/adapters/api"
)

// FakeEvalServer is an in-process stand-in for the evaluation server. It
// speaks the real wire protocol over HTTP, scripts flight events per game
// hour and records everything the bot submits.
type FakeEvalServer struct {
	mu sync.Mutex

	server *httptest.Server

	events    map[int][]api.FlightEventDto
	penalties map[int][]api.PenaltyDto
	costPerRound float64
	totalCost    float64

	// Failure scripting.
	staleFirstStart bool
	rejectRounds    bool

	StartAttempts int
	Rounds        []api.RoundRequestDto
	EndCalls      int
}

// NewFakeEvalServer starts the fake server. Callers must Close it.
func NewFakeEvalServer() *FakeEvalServer {
	f := &FakeEvalServer{
		events:       make(map[int][]api.FlightEventDto),
		penalties:    make(map[int][]api.PenaltyDto),
		costPerRound: 100,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /session/start", f.handleStart)
	mux.HandleFunc("POST /play/round", f.handleRound)
	mux.HandleFunc("POST /session/end", f.handleEnd)
	f.server = httptest.NewServer(mux)
	return f
}

// URL is the base address the API client should point at.
func (f *FakeEvalServer) URL() string {
	return f.server.URL
}

// Close shuts the underlying listener down.
func (f *FakeEvalServer) Close() {
	f.server.Close()
}

// ScheduleEvent delivers a flight event in the response of the given hour.
func (f *FakeEvalServer) ScheduleEvent(hour int, ev api.FlightEventDto) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[hour] = append(f.events[hour], ev)
}

// SchedulePenalty attaches a penalty to the response of the given hour.
func (f *FakeEvalServer) SchedulePenalty(hour int, p api.PenaltyDto) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.penalties[hour] = append(f.penalties[hour], p)
}

// FailFirstStartWith409 makes the first start attempt report a stale session.
func (f *FakeEvalServer) FailFirstStartWith409() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staleFirstStart = true
}

// RejectRounds makes every round submission fail with HTTP 400.
func (f *FakeEvalServer) RejectRounds() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectRounds = true
}

// RoundAt returns the submission made for the given game hour, if any.
func (f *FakeEvalServer) RoundAt(hour int) (api.RoundRequestDto, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Rounds {
		if r.Day*24+r.Hour == hour {
			return r, true
		}
	}
	return api.RoundRequestDto{}, false
}

func (f *FakeEvalServer) handleStart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StartAttempts++
	if r.Header.Get("API-KEY") == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing API-KEY"})
		return
	}
	if f.staleFirstStart && f.StartAttempts == 1 {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a session is already active"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session_id": "bdd-session"})
}

func (f *FakeEvalServer) handleRound(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.Header.Get("SESSION-ID") == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no session"})
		return
	}
	if f.rejectRounds {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "submission rejected"})
		return
	}

	var req api.RoundRequestDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f.Rounds = append(f.Rounds, req)
	f.totalCost += f.costPerRound

	hour := req.Day*24 + req.Hour
	writeJSON(w, http.StatusOK, api.HourResponseDto{
		Day:           req.Day,
		Hour:          req.Hour,
		FlightUpdates: f.events[hour],
		Penalties:     f.penalties[hour],
		TotalCost:     f.totalCost,
	})
}

func (f *FakeEvalServer) handleEnd(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EndCalls++
	writeJSON(w, http.StatusOK, api.HourResponseDto{TotalCost: f.totalCost})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
