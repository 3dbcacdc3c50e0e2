package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rotable-go/internal/adapters/api"
	"github.com/andrescamacho/rotable-go/internal/application/session"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

func newManager(t *testing.T, rounds int) (*session.Manager, *fakeClient) {
	t.Helper()
	client := &fakeClient{}
	factory := func() *session.Orchestrator {
		return newOrchestrator(t, client, &fakeOptimizer{},
			session.Config{TotalRounds: rounds, RoundBudget: 5 * time.Second},
			shared.NewMockClock(time.Time{}))
	}
	return session.NewManager(factory, testLogger()), client
}

func TestManager_StartRunsSessionToCompletion(t *testing.T) {
	m, client := newManager(t, 2)

	require.NoError(t, m.Start(context.Background()))
	m.Wait()

	assert.Equal(t, 2, client.playCalls)
	assert.Equal(t, session.Done, m.Summary().State)
}

// gatedClient blocks the first round until released, keeping the session
// live long enough to observe concurrent control calls.
type gatedClient struct {
	fakeClient
	gate    chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (c *gatedClient) PlayRound(ctx context.Context, sessionID string, req *api.RoundRequestDto) (*api.HourResponseDto, error) {
	c.once.Do(func() { close(c.entered) })
	<-c.gate
	return c.fakeClient.PlayRound(ctx, sessionID, req)
}

func TestManager_StartRejectsSecondLiveSession(t *testing.T) {
	client := &gatedClient{gate: make(chan struct{}), entered: make(chan struct{})}
	factory := func() *session.Orchestrator {
		return newOrchestrator(t, client, &fakeOptimizer{},
			session.Config{TotalRounds: 2, RoundBudget: 5 * time.Second},
			shared.NewMockClock(time.Time{}))
	}
	m := session.NewManager(factory, testLogger())

	require.NoError(t, m.Start(context.Background()))
	<-client.entered
	assert.Error(t, m.Start(context.Background()))

	require.NoError(t, m.Stop())
	close(client.gate)
	m.Wait()
	assert.Equal(t, session.Done, m.Summary().State)
}

func TestManager_StartAfterFinishedSessionSucceeds(t *testing.T) {
	m, _ := newManager(t, 1)

	require.NoError(t, m.Start(context.Background()))
	m.Wait()
	require.Equal(t, session.Done, m.Summary().State)

	require.NoError(t, m.Start(context.Background()))
	m.Wait()
	assert.Equal(t, session.Done, m.Summary().State)
}

func TestManager_StopWithoutSessionFails(t *testing.T) {
	m, _ := newManager(t, 1)
	assert.Error(t, m.Stop())
}

func TestManager_SummaryIdleBeforeFirstStart(t *testing.T) {
	m, _ := newManager(t, 1)
	assert.Equal(t, session.Idle, m.Summary().State)
	assert.Nil(t, m.History(5))
}
