package session_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rotable-go/internal/adapters/api"
	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/application/optimizer"
	"github.com/andrescamacho/rotable-go/internal/application/session"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	airports := []*catalog.Airport{
		{
			Code: "HUB", Hub: true,
			StorageCapacity:  shared.KitVector{100, 100, 100, 100},
			ProcessingHours:  shared.KitVector{2, 2, 2, 2},
			LoadingCost:      shared.CostVector{10, 10, 10, 10},
			ProcessingCost:   shared.CostVector{5, 5, 5, 5},
			InitialInventory: shared.KitVector{50, 50, 50, 50},
		},
		{
			Code:             "AAA",
			StorageCapacity:  shared.KitVector{30, 30, 30, 30},
			ProcessingHours:  shared.KitVector{2, 2, 2, 2},
			LoadingCost:      shared.CostVector{10, 10, 10, 10},
			ProcessingCost:   shared.CostVector{5, 5, 5, 5},
			InitialInventory: shared.KitVector{20, 20, 20, 20},
		},
	}
	aircraft := []*catalog.AircraftType{
		{Code: "A320", KitCapacity: shared.KitVector{4, 8, 12, 20}, FuelCostPerKm: 0.5},
	}
	cat, err := catalog.New(airports, aircraft, catalog.DefaultKitMeta(), nil, nil)
	require.NoError(t, err)
	return cat
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// fakeClient scripts the evaluation server. Round responses echo the
// submitted hour and deliver the events scheduled for it.
type fakeClient struct {
	startErrs []error
	events    map[int][]api.FlightEventDto

	startCalls int
	playCalls  int
	endCalls   int
	requests   []*api.RoundRequestDto
	playErr    error
}

func (c *fakeClient) StartSession(ctx context.Context) (string, error) {
	c.startCalls++
	if len(c.startErrs) > 0 {
		err := c.startErrs[0]
		c.startErrs = c.startErrs[1:]
		if err != nil {
			return "", err
		}
	}
	return "sess-1", nil
}

func (c *fakeClient) PlayRound(ctx context.Context, sessionID string, req *api.RoundRequestDto) (*api.HourResponseDto, error) {
	c.playCalls++
	c.requests = append(c.requests, req)
	if c.playErr != nil {
		return nil, c.playErr
	}
	hour := req.Day*24 + req.Hour
	return &api.HourResponseDto{
		Day:           req.Day,
		Hour:          req.Hour,
		FlightUpdates: c.events[hour],
		TotalCost:     float64(100 * (hour + 1)),
	}, nil
}

func (c *fakeClient) EndSession(ctx context.Context, sessionID string) (*api.HourResponseDto, error) {
	c.endCalls++
	return &api.HourResponseDto{TotalCost: float64(100 * c.playCalls)}, nil
}

// fakeOptimizer returns the same decision every round, optionally burning
// mock wall time first.
type fakeOptimizer struct {
	loads    map[string]shared.KitVector
	purchase shared.KitVector
	burn     time.Duration
	clock    *shared.MockClock
}

func (f *fakeOptimizer) Optimize(ctx context.Context, snap *mirror.Snapshot, view *horizon.View) (*optimizer.Decision, optimizer.Stats) {
	if f.burn > 0 && f.clock != nil {
		f.clock.Advance(f.burn)
	}
	d := optimizer.NewDecision()
	for id, kits := range f.loads {
		d.Loads[id] = kits
	}
	d.Purchase = f.purchase
	return d, optimizer.Stats{Generations: 1}
}

func checkedInEvent(id string, dep, arr int, pax api.KitSet) api.FlightEventDto {
	return api.FlightEventDto{
		EventType:          "CHECKED_IN",
		FlightID:           id,
		FlightNumber:       "RT" + id,
		OriginAirport:      "HUB",
		DestinationAirport: "AAA",
		Departure:          api.GameTime{Day: dep / 24, Hour: dep % 24},
		Arrival:            api.GameTime{Day: arr / 24, Hour: arr % 24},
		Passengers:         pax,
		AircraftType:       "A320",
		Distance:           500,
	}
}

func newOrchestrator(t *testing.T, client session.APIClient, opt session.Optimizer, cfg session.Config, clock shared.Clock) *session.Orchestrator {
	t.Helper()
	return session.New(
		client, testCatalog(t), opt,
		horizon.DefaultConfig(), cfg, clock,
		testLogger(), nil, nil,
	)
}

func TestRun_PlaysEveryRoundThenEndsOnce(t *testing.T) {
	client := &fakeClient{}
	opt := &fakeOptimizer{}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 3, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, 3, client.playCalls)
	assert.Equal(t, 1, client.endCalls)
	assert.Equal(t, session.Done, o.State())

	// Rounds were submitted at consecutive hours.
	for i, req := range client.requests {
		assert.Equal(t, i, req.Day*24+req.Hour)
	}
}

func TestRun_SubmitsLoadOnceFlightIsKnown(t *testing.T) {
	client := &fakeClient{
		events: map[int][]api.FlightEventDto{
			0: {checkedInEvent("F1", 3, 5, api.KitSet{First: 1, Business: 2, PremiumEconomy: 3, Economy: 4})},
		},
	}
	opt := &fakeOptimizer{loads: map[string]shared.KitVector{"F1": {1, 2, 3, 4}}}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 2, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	require.NoError(t, o.Run(context.Background()))
	require.Len(t, client.requests, 2)

	// Round 0: the validator drops the load, F1 has not been announced yet.
	assert.Empty(t, client.requests[0].FlightLoads)

	// Round 1: F1 is checked in, the load goes out and hub stock is reserved.
	require.Len(t, client.requests[1].FlightLoads, 1)
	assert.Equal(t, "F1", client.requests[1].FlightLoads[0].FlightID)
	assert.Equal(t, api.KitSet{First: 1, Business: 2, PremiumEconomy: 3, Economy: 4}, client.requests[1].FlightLoads[0].LoadedKits)

	summary := o.Summary()
	assert.Equal(t, shared.KitVector{49, 48, 47, 46}, summary.Inventories["HUB"])
	assert.Equal(t, 1, summary.CumulativeDecisions)
}

func TestRun_PurchaseIsCommittedAndCounted(t *testing.T) {
	client := &fakeClient{}
	opt := &fakeOptimizer{purchase: shared.KitVector{2, 0, 0, 5}}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 1, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	require.NoError(t, o.Run(context.Background()))
	require.Len(t, client.requests, 1)
	assert.Equal(t, api.KitSet{First: 2, Economy: 5}, client.requests[0].KitPurchasingOrders)
	assert.Equal(t, shared.KitVector{2, 0, 0, 5}, o.Summary().CumulativePurchases)
}

func TestRun_StopRequestFinishesGracefully(t *testing.T) {
	client := &fakeClient{}
	opt := &fakeOptimizer{}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 100, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	o.Stop()
	require.NoError(t, o.Run(context.Background()))

	assert.Zero(t, client.playCalls)
	assert.Equal(t, 1, client.endCalls)
	assert.Equal(t, session.Done, o.State())
}

func TestRun_RecoversFromStaleSessionOn409(t *testing.T) {
	client := &fakeClient{
		startErrs: []error{shared.NewProtocolError(409, "session already active")},
	}
	opt := &fakeOptimizer{}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 1, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, 2, client.startCalls)
	// One end for the stale session, one for the natural finish.
	assert.Equal(t, 2, client.endCalls)
	assert.Equal(t, session.Done, o.State())
}

func TestRun_ProtocolErrorFailsSessionAfterEndingIt(t *testing.T) {
	client := &fakeClient{playErr: shared.NewProtocolError(400, "bad submission")}
	opt := &fakeOptimizer{}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 5, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	err := o.Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, session.Failed, o.State())
	assert.Equal(t, 1, client.playCalls)
	// Failure handling still closes the session to dodge the early-stop
	// multiplier piling onto a dead run.
	assert.Equal(t, 1, client.endCalls)
}

func TestRun_SlowOptimizerStillSubmitsEveryRound(t *testing.T) {
	clock := shared.NewMockClock(time.Time{})
	client := &fakeClient{}
	opt := &fakeOptimizer{burn: 10 * time.Second, clock: clock}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 3, RoundBudget: 5 * time.Second}, clock)

	require.NoError(t, o.Run(context.Background()))

	// Blowing the round budget is logged, never dropped.
	assert.Equal(t, 3, client.playCalls)
	assert.Equal(t, session.Done, o.State())
}

func TestHistory_KeepsRecentRoundsNewestLast(t *testing.T) {
	client := &fakeClient{}
	opt := &fakeOptimizer{}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 5, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	require.NoError(t, o.Run(context.Background()))

	recs := o.History(3)
	require.Len(t, recs, 3)
	assert.Equal(t, 2, recs[0].Round)
	assert.Equal(t, 4, recs[2].Round)

	all := o.History(0)
	assert.Len(t, all, 5)
}

func TestSummary_TracksMirrorProgress(t *testing.T) {
	client := &fakeClient{}
	opt := &fakeOptimizer{}
	o := newOrchestrator(t, client, opt, session.Config{TotalRounds: 26, RoundBudget: 5 * time.Second}, shared.NewMockClock(time.Time{}))

	require.NoError(t, o.Run(context.Background()))

	s := o.Summary()
	assert.Equal(t, 26, s.Round)
	assert.Equal(t, 1, s.Day)
	assert.Equal(t, 2, s.Hour)
	assert.Equal(t, session.Done, s.State)
	assert.Equal(t, "sess-1", s.SessionID)
}
