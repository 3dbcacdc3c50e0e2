package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/rotable-go/internal/adapters/api"
	"github.com/andrescamacho/rotable-go/internal/adapters/monitor"
	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/application/mediator"
	"github.com/andrescamacho/rotable-go/internal/application/optimizer"
	"github.com/andrescamacho/rotable-go/internal/application/session"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/costing"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
	"github.com/andrescamacho/rotable-go/test/helpers"
)

type sessionContext struct {
	srv     *helpers.FakeEvalServer
	cat     *catalog.Catalog
	manager *session.Manager

	totalRounds   int
	deadOptimizer bool

	status    session.Summary
	inventory mediator.InventoryResponse
}

func (sc *sessionContext) reset() {
	if sc.srv != nil {
		sc.srv.Close()
	}
	*sc = sessionContext{}
}

func quietLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func (sc *sessionContext) aTwoAirportNetwork(hubCode, outCode string) error {
	airports := []*catalog.Airport{
		{
			Code: hubCode, Hub: true,
			StorageCapacity:  shared.KitVector{100, 100, 100, 100},
			LoadingCost:      shared.CostVector{10, 10, 10, 10},
			ProcessingCost:   shared.CostVector{5, 5, 5, 5},
			ProcessingHours:  shared.KitVector{2, 2, 2, 2},
			InitialInventory: shared.KitVector{50, 50, 50, 50},
		},
		{
			Code:             outCode,
			StorageCapacity:  shared.KitVector{30, 30, 30, 30},
			LoadingCost:      shared.CostVector{10, 10, 10, 10},
			ProcessingCost:   shared.CostVector{5, 5, 5, 5},
			ProcessingHours:  shared.KitVector{2, 2, 2, 2},
			InitialInventory: shared.KitVector{20, 20, 20, 20},
		},
	}
	aircraft := []*catalog.AircraftType{
		{Code: "A320", KitCapacity: shared.KitVector{4, 8, 12, 20}, FuelCostPerKm: 0.002},
	}
	cat, err := catalog.New(airports, aircraft, catalog.DefaultKitMeta(), nil, nil)
	if err != nil {
		return err
	}
	sc.cat = cat
	return nil
}

func (sc *sessionContext) aFakeEvaluationServer(hours int) error {
	sc.srv = helpers.NewFakeEvalServer()
	sc.totalRounds = hours
	return nil
}

func (sc *sessionContext) serverAnnouncesCheckedInFlight(id string, dep, first, business, premium, economy int) error {
	if sc.srv == nil {
		return fmt.Errorf("no fake server started")
	}
	sc.srv.ScheduleEvent(0, api.FlightEventDto{
		EventType:          "CHECKED_IN",
		FlightID:           id,
		FlightNumber:       "RT" + id,
		OriginAirport:      "HUB",
		DestinationAirport: "AAA",
		Departure:          api.GameTime{Day: dep / 24, Hour: dep % 24},
		Arrival:            api.GameTime{Day: (dep + 4) / 24, Hour: (dep + 4) % 24},
		Passengers:         api.KitSet{First: first, Business: business, PremiumEconomy: premium, Economy: economy},
		AircraftType:       "A320",
		Distance:           2000,
	})
	return nil
}

func (sc *sessionContext) optimizerBudgetExhausted() error {
	sc.deadOptimizer = true
	return nil
}

func (sc *sessionContext) serverReportsActiveSessionOnFirstStart() error {
	sc.srv.FailFirstStartWith409()
	return nil
}

func (sc *sessionContext) serverRejectsRoundSubmissions() error {
	sc.srv.RejectRounds()
	return nil
}

func (sc *sessionContext) sessionRunsToCompletion() error {
	if sc.cat == nil || sc.srv == nil {
		return fmt.Errorf("scenario setup incomplete")
	}

	client := api.NewClientWithConfig(sc.srv.URL(), "bdd-key", api.ClientConfig{
		RateLimit:   1000,
		Burst:       100,
		MaxRetries:  3,
		BackoffBase: time.Millisecond,
	}, nil)
	model := costing.NewModel(sc.cat, costing.DefaultFactors())

	optCfg := optimizer.DefaultConfig()
	optCfg.PopulationSize = 10
	optCfg.StallLimit = 3
	optCfg.Seed = 7
	optCfg.Deadline = time.Hour
	if sc.deadOptimizer {
		optCfg.Deadline = -time.Second
	}

	factory := func() *session.Orchestrator {
		clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		gen := optimizer.NewGenetic(sc.cat, model, optCfg, horizon.DefaultConfig(), clock, quietLogger())
		return session.New(
			client, sc.cat, gen,
			horizon.DefaultConfig(),
			session.Config{TotalRounds: sc.totalRounds, RoundBudget: 5 * time.Second},
			clock, quietLogger(), nil, nil,
		)
	}
	sc.manager = session.NewManager(factory, quietLogger())

	if err := sc.manager.Start(context.Background()); err != nil {
		return err
	}
	sc.manager.Wait()
	return nil
}

func (sc *sessionContext) sessionFinishesInState(want string) error {
	got := string(sc.manager.Summary().State)
	if got != want {
		return fmt.Errorf("session state is %s, expected %s", got, want)
	}
	return nil
}

func (sc *sessionContext) serverReceivesRoundSubmissions(n int) error {
	if len(sc.srv.Rounds) != n {
		return fmt.Errorf("server saw %d round submissions, expected %d", len(sc.srv.Rounds), n)
	}
	return nil
}

func (sc *sessionContext) endEndpointCalledExactlyOnce() error {
	if sc.srv.EndCalls != 1 {
		return fmt.Errorf("session end called %d times, expected 1", sc.srv.EndCalls)
	}
	return nil
}

func (sc *sessionContext) serverReceivesStartAttempts(n int) error {
	if sc.srv.StartAttempts != n {
		return fmt.Errorf("server saw %d start attempts, expected %d", sc.srv.StartAttempts, n)
	}
	return nil
}

func (sc *sessionContext) everyLoadRespectsKitCapacity() error {
	capacity := sc.cat.Aircraft("A320").KitCapacity
	for _, round := range sc.srv.Rounds {
		for _, load := range round.FlightLoads {
			kits := load.LoadedKits.Vector()
			for _, c := range shared.Classes() {
				if kits[c] < 0 || kits[c] > capacity[c] {
					return fmt.Errorf("flight %s %s load %d outside [0, %d]",
						load.FlightID, c, kits[c], capacity[c])
				}
			}
		}
	}
	return nil
}

func (sc *sessionContext) roundAtHourLoadsFlight(hour int, id string, first, business, premium, economy int) error {
	round, ok := sc.srv.RoundAt(hour)
	if !ok {
		return fmt.Errorf("no submission recorded for hour %d", hour)
	}
	want := shared.KitVector{first, business, premium, economy}
	for _, load := range round.FlightLoads {
		if load.FlightID != id {
			continue
		}
		if got := load.LoadedKits.Vector(); got != want {
			return fmt.Errorf("flight %s loaded %s, expected %s", id, got, want)
		}
		return nil
	}
	return fmt.Errorf("hour %d submission carries no load for flight %s", hour, id)
}

func (sc *sessionContext) monitoringStatusQueried() error {
	med := mediator.New()
	if err := mediator.RegisterSessionHandlers(med, sc.manager); err != nil {
		return err
	}
	srv := monitor.NewServer(med, "localhost:0", quietLogger())

	for path, out := range map[string]interface{}{
		"/status":    &sc.status,
		"/inventory": &sc.inventory,
	} {
		resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, path, nil))
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("GET %s returned %d", path, resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			resp.Body.Close()
			return err
		}
		resp.Body.Close()
	}
	return nil
}

func (sc *sessionContext) statusShowsRoundAndState(round int, state string) error {
	if sc.status.Round != round {
		return fmt.Errorf("status round is %d, expected %d", sc.status.Round, round)
	}
	if string(sc.status.State) != state {
		return fmt.Errorf("status state is %s, expected %s", sc.status.State, state)
	}
	return nil
}

func (sc *sessionContext) inventoryListsAirports(a, b string) error {
	for _, code := range []string{a, b} {
		if _, ok := sc.inventory.ByAirport[code]; !ok {
			return fmt.Errorf("inventory response is missing airport %s", code)
		}
	}
	return nil
}

// InitializeSessionScenario registers the session lifecycle steps.
func InitializeSessionScenario(s *godog.ScenarioContext) {
	sc := &sessionContext{}

	s.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})
	s.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if sc.srv != nil {
			sc.srv.Close()
			sc.srv = nil
		}
		return ctx, err
	})

	s.Step(`^a two airport network with hub "([^"]*)" and outstation "([^"]*)"$`, sc.aTwoAirportNetwork)
	s.Step(`^a fake evaluation server running a (\d+) hour game$`, sc.aFakeEvaluationServer)
	s.Step(`^the server announces a checked-in flight "([^"]*)" departing at hour (\d+) with passengers (\d+),(\d+),(\d+),(\d+)$`, sc.serverAnnouncesCheckedInFlight)
	s.Step(`^the optimizer budget is exhausted before the first generation$`, sc.optimizerBudgetExhausted)
	s.Step(`^the server reports an active session on the first start attempt$`, sc.serverReportsActiveSessionOnFirstStart)
	s.Step(`^the server rejects every round submission$`, sc.serverRejectsRoundSubmissions)
	s.Step(`^the session runs to completion$`, sc.sessionRunsToCompletion)
	s.Step(`^the session finishes in state "([^"]*)"$`, sc.sessionFinishesInState)
	s.Step(`^the server receives (\d+) round submissions$`, sc.serverReceivesRoundSubmissions)
	s.Step(`^the session end endpoint is called exactly once$`, sc.endEndpointCalledExactlyOnce)
	s.Step(`^the server receives (\d+) start attempts$`, sc.serverReceivesStartAttempts)
	s.Step(`^every submitted load respects the aircraft kit capacity$`, sc.everyLoadRespectsKitCapacity)
	s.Step(`^the round submitted at hour (\d+) loads flight "([^"]*)" with kits (\d+),(\d+),(\d+),(\d+)$`, sc.roundAtHourLoadsFlight)
	s.Step(`^the monitoring status endpoint is queried$`, sc.monitoringStatusQueried)
	s.Step(`^the reported status shows round (\d+) in state "([^"]*)"$`, sc.statusShowsRoundAndState)
	s.Step(`^the reported inventory lists airports "([^"]*)" and "([^"]*)"$`, sc.inventoryListsAirports)
}
