package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager owns at most one live orchestrator at a time and exposes the
// start/stop surface the control plane uses. Each start builds a fresh
// orchestrator, so a finished or failed session never blocks the next one.
type Manager struct {
	factory func() *Orchestrator
	log     *logrus.Entry

	mu      sync.Mutex
	current *Orchestrator
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewManager creates a manager over an orchestrator factory.
func NewManager(factory func() *Orchestrator, log *logrus.Entry) *Manager {
	return &Manager{factory: factory, log: log}
}

// Start launches a session in the background. It fails if one is running.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		switch m.current.State() {
		case Done, Failed:
			// finished run, replaceable
		default:
			return fmt.Errorf("session already running in state %s", m.current.State())
		}
	}

	o := m.factory()
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	m.current, m.cancel, m.done = o, cancel, done

	go func() {
		defer close(done)
		if err := o.Run(runCtx); err != nil {
			m.log.WithError(err).Error("session run ended with error")
		}
	}()
	return nil
}

// Stop requests a graceful stop of the live session and returns immediately.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return fmt.Errorf("no session to stop")
	}
	switch m.current.State() {
	case Done, Failed:
		return fmt.Errorf("session already finished in state %s", m.current.State())
	}
	m.current.Stop()
	return nil
}

// Wait blocks until the live session finishes. Returns immediately when no
// session was ever started.
func (m *Manager) Wait() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Shutdown cancels the live session's context and waits for it to exit.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Summary returns the live (or last) session's summary, or an idle one.
func (m *Manager) Summary() *Summary {
	m.mu.Lock()
	o := m.current
	m.mu.Unlock()
	if o == nil {
		return &Summary{State: Idle}
	}
	if s := o.Summary(); s != nil {
		return s
	}
	return &Summary{State: o.State()}
}

// History returns the live (or last) session's recent round records.
func (m *Manager) History(limit int) []RoundRecord {
	m.mu.Lock()
	o := m.current
	m.mu.Unlock()
	if o == nil {
		return nil
	}
	return o.History(limit)
}
