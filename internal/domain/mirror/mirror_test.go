package mirror_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
			InitialInventory: shared.KitVector{50, 50, 50, 50},
		},
		{
			Code:             "AAA",
			StorageCapacity:  shared.KitVector{30, 30, 30, 30},
			ProcessingHours:  shared.KitVector{2, 2, 2, 2},
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

func scheduled(id string, dep, arr shared.GameHour) mirror.Event {
	return mirror.Event{Type: mirror.EventScheduled, Flight: mirror.Flight{
		ID: id, Number: "RT" + id, Origin: "HUB", Destination: "AAA",
		Departure: dep, Arrival: arr, AircraftType: "A320",
		PlannedDistance:   500,
		PlannedPassengers: shared.KitVector{1, 2, 3, 4},
	}}
}

func checkedIn(id string, dep, arr shared.GameHour, pax shared.KitVector) mirror.Event {
	dist := 510.0
	return mirror.Event{Type: mirror.EventCheckedIn, Flight: mirror.Flight{
		ID: id, Origin: "HUB", Destination: "AAA",
		Departure: dep, Arrival: arr, AircraftType: "A320",
		ActualPassengers: &pax, ActualDistance: &dist,
	}}
}

func landed(id string, dep, arr shared.GameHour) mirror.Event {
	actual := arr
	return mirror.Event{Type: mirror.EventLanded, Flight: mirror.Flight{
		ID: id, Origin: "HUB", Destination: "AAA",
		Departure: dep, Arrival: arr, AircraftType: "A320",
		ActualArrival: &actual,
	}}
}

func TestNew_SeedsInitialInventories(t *testing.T) {
	m := mirror.New(testCatalog(t))

	assert.Equal(t, shared.KitVector{50, 50, 50, 50}, m.Inventory("HUB"))
	assert.Equal(t, shared.KitVector{20, 20, 20, 20}, m.Inventory("AAA"))
	assert.Equal(t, shared.GameHour(0), m.CurrentHour())
}

func TestApplyEvents_FlightLifecycle(t *testing.T) {
	m := mirror.New(testCatalog(t))

	m.ApplyEvents([]mirror.Event{scheduled("F1", 3, 6)})
	f := m.Flight("F1")
	require.NotNil(t, f)
	assert.Equal(t, mirror.Announced, f.Phase)

	m.ApplyEvents([]mirror.Event{checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2})})
	assert.Equal(t, mirror.CheckedIn, f.Phase)
	assert.Equal(t, shared.KitVector{2, 2, 2, 2}, f.Passengers())
	assert.InDelta(t, 510.0, f.Distance(), 1e-9)
}

func TestApplyEvents_ReannouncementKeepsPhase(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{
		scheduled("F1", 3, 6),
		checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2}),
	})

	// A second SCHEDULED refreshes the plan, never regresses the phase.
	m.ApplyEvents([]mirror.Event{scheduled("F1", 4, 7)})

	f := m.Flight("F1")
	assert.Equal(t, mirror.CheckedIn, f.Phase)
	assert.Equal(t, shared.GameHour(4), f.Departure)
	assert.Empty(t, m.Anomalies())
}

func TestApplyEvents_BatchingDoesNotChangeTheProjection(t *testing.T) {
	events := []mirror.Event{
		scheduled("F1", 3, 6),
		scheduled("F2", 4, 8),
		checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2}),
		checkedIn("F2", 4, 8, shared.KitVector{1, 1, 1, 1}),
		landed("F1", 3, 6),
	}

	oneBatch := mirror.New(testCatalog(t))
	oneBatch.ApplyEvents(events)

	perEvent := mirror.New(testCatalog(t))
	for _, ev := range events {
		perEvent.ApplyEvents([]mirror.Event{ev})
	}

	halves := mirror.New(testCatalog(t))
	halves.ApplyEvents(events[:2])
	halves.ApplyEvents(events[2:])

	assert.Equal(t, oneBatch.Snapshot(), perEvent.Snapshot())
	assert.Equal(t, oneBatch.Snapshot(), halves.Snapshot())
}

func TestCommitLoad_DecrementsOriginImmediately(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{
		scheduled("F1", 3, 6),
		checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2}),
	})

	m.CommitLoad("F1", shared.KitVector{3, 3, 3, 3})

	assert.Equal(t, shared.KitVector{47, 47, 47, 47}, m.Inventory("HUB"))
	committed, ok := m.CommittedLoad("F1")
	require.True(t, ok)
	assert.Equal(t, shared.KitVector{3, 3, 3, 3}, committed)
}

func TestCommitLoad_ResubmissionOverwrites(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{
		scheduled("F1", 3, 6),
		checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2}),
	})

	m.CommitLoad("F1", shared.KitVector{3, 3, 3, 3})
	m.CommitLoad("F1", shared.KitVector{1, 1, 1, 1})

	// The second commit replaces the first, not stacks on top of it.
	assert.Equal(t, shared.KitVector{49, 49, 49, 49}, m.Inventory("HUB"))
	committed, _ := m.CommittedLoad("F1")
	assert.Equal(t, shared.KitVector{1, 1, 1, 1}, committed)
}

func TestCommitLoad_UnknownFlightIsAnomaly(t *testing.T) {
	m := mirror.New(testCatalog(t))

	m.CommitLoad("GHOST", shared.KitVector{1, 0, 0, 0})

	require.Len(t, m.Anomalies(), 1)
	assert.Equal(t, mirror.AnomalyUnknownFlight, m.Anomalies()[0].Kind)
	assert.Equal(t, shared.KitVector{50, 50, 50, 50}, m.Inventory("HUB"))
}

func TestKitConservation_FullFlightCycle(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{
		scheduled("F1", 3, 6),
		checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2}),
	})
	m.CommitLoad("F1", shared.KitVector{2, 2, 2, 2})
	initialTotal := shared.KitVector{70, 70, 70, 70} // 50 hub + 20 outstation

	// Departure puts the committed load in transit.
	m.AdvanceTo(3)
	snap := m.Snapshot()
	assert.Equal(t, initialTotal, snap.OnHand().Add(snap.InFlight()))
	assert.Equal(t, mirror.Departed, m.Flight("F1").Phase)

	// Landing moves the load into destination processing.
	m.ApplyEvents([]mirror.Event{landed("F1", 3, 6)})
	m.AdvanceTo(6)
	snap = m.Snapshot()
	assert.Equal(t, initialTotal, snap.OnHand().Add(snap.InFlight()))
	assert.Equal(t, shared.KitVector{20, 20, 20, 20}, m.Inventory("AAA"))

	// Processing completes after the 2h destination delay.
	m.AdvanceTo(8)
	assert.Equal(t, shared.KitVector{22, 22, 22, 22}, m.Inventory("AAA"))
	snap = m.Snapshot()
	assert.Empty(t, snap.Pending)
	assert.Equal(t, initialTotal, snap.OnHand())
}

func TestAdvanceTo_ScheduledArrivalWithoutLandedEvent(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{
		scheduled("F1", 3, 6),
		checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2}),
	})
	m.CommitLoad("F1", shared.KitVector{2, 2, 2, 2})

	// No LANDED event arrives; crossing the scheduled arrival still moves
	// the kits into destination processing.
	m.AdvanceTo(8)
	assert.Equal(t, shared.KitVector{22, 22, 22, 22}, m.Inventory("AAA"))
}

func TestAdvanceTo_ClockIsMonotone(t *testing.T) {
	m := mirror.New(testCatalog(t))

	m.AdvanceTo(10)
	m.AdvanceTo(5)

	assert.Equal(t, shared.GameHour(10), m.CurrentHour())
}

func TestCommitPurchase_DeliversAfterLeadAndProcessing(t *testing.T) {
	m := mirror.New(testCatalog(t))

	m.CommitPurchase(shared.KitVector{0, 0, 0, 10})

	// Economy: 24h lead + 2h hub processing.
	m.AdvanceTo(25)
	assert.Equal(t, shared.KitVector{50, 50, 50, 50}, m.Inventory("HUB"))
	m.AdvanceTo(26)
	assert.Equal(t, shared.KitVector{50, 50, 50, 60}, m.Inventory("HUB"))
}

func TestCommitPurchase_FirstClassLeadTimeIsLonger(t *testing.T) {
	m := mirror.New(testCatalog(t))

	m.CommitPurchase(shared.KitVector{5, 0, 0, 5})

	m.AdvanceTo(26)
	assert.Equal(t, shared.KitVector{50, 50, 50, 55}, m.Inventory("HUB"))
	m.AdvanceTo(50)
	assert.Equal(t, shared.KitVector{55, 50, 50, 55}, m.Inventory("HUB"))
}

func TestIngestRound_AdvancesPastServerHour(t *testing.T) {
	m := mirror.New(testCatalog(t))

	m.IngestRound(0, []mirror.Event{scheduled("F1", 3, 6)}, []mirror.Penalty{
		{Code: "UNFULFILLED_KIT", Amount: 12.5, Reason: "short one kit"},
	}, 12.5)

	assert.Equal(t, shared.GameHour(1), m.CurrentHour())
	assert.InDelta(t, 12.5, m.TotalCost(), 1e-9)
	require.Len(t, m.RecentPenalties(5), 1)
	assert.Equal(t, "UNFULFILLED_KIT", m.RecentPenalties(5)[0].Code)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{
		scheduled("F1", 3, 6),
		checkedIn("F1", 3, 6, shared.KitVector{2, 2, 2, 2}),
	})
	m.CommitLoad("F1", shared.KitVector{2, 2, 2, 2})
	m.CommitPurchase(shared.KitVector{0, 0, 0, 10})
	m.AdvanceTo(3)

	snap := m.Snapshot()
	restored := mirror.FromSnapshot(testCatalog(t), snap)

	assert.Equal(t, m.CurrentHour(), restored.CurrentHour())
	assert.Equal(t, m.Inventories(), restored.Inventories())
	assert.Equal(t, m.Pending(), restored.Pending())
	assert.Equal(t, snap, restored.Snapshot())
}

func TestSnapshot_IsIsolatedFromMirror(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{scheduled("F1", 3, 6)})

	snap := m.Snapshot()
	snap.Inventories["HUB"] = shared.KitVector{}
	snap.Flights[0].Number = "mutated"

	assert.Equal(t, shared.KitVector{50, 50, 50, 50}, m.Inventory("HUB"))
	assert.Equal(t, "RTF1", m.Flight("F1").Number)
}

func TestTallyBoundaries_CountsKitHours(t *testing.T) {
	m := mirror.New(testCatalog(t))
	m.ApplyEvents([]mirror.Event{
		scheduled("F1", 1, 4),
		checkedIn("F1", 1, 4, shared.KitVector{2, 2, 2, 2}),
	})
	// Deliberately commit more than on hand to force a negative balance.
	m.CommitLoad("F1", shared.KitVector{51, 0, 0, 0})

	require.NotEmpty(t, m.Anomalies())
	m.AdvanceTo(2)
	assert.Equal(t, 2, m.NegativeKitHours()) // -1 kit observed at 2 boundaries
}
