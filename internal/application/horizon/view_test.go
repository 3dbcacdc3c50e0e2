package horizon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rotable-go/internal/application/horizon"
	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/mirror"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	airports := []*catalog.Airport{
		{Code: "HUB", Hub: true, ProcessingHours: shared.KitVector{2, 2, 2, 2}},
		{Code: "AAA", ProcessingHours: shared.KitVector{2, 2, 2, 2}},
	}
	cat, err := catalog.New(airports, nil, catalog.DefaultKitMeta(), nil, nil)
	require.NoError(t, err)
	return cat
}

func flight(id string, phase mirror.Phase, dep shared.GameHour, pax shared.KitVector) *mirror.Flight {
	return &mirror.Flight{
		ID:                id,
		Origin:            "HUB",
		Destination:       "AAA",
		Departure:         dep,
		Arrival:           dep + 3,
		PlannedPassengers: pax,
		Phase:             phase,
	}
}

func TestBuild_WindowMembership(t *testing.T) {
	cat := testCatalog(t)
	snap := &mirror.Snapshot{
		CurrentHour: 0,
		Flights: []*mirror.Flight{
			flight("FA", mirror.CheckedIn, 2, shared.KitVector{1, 1, 1, 1}),
			flight("FB", mirror.Announced, 4, shared.KitVector{1, 1, 1, 1}),
			flight("FC", mirror.CheckedIn, 10, shared.KitVector{1, 1, 1, 1}),
			flight("FD", mirror.Departed, 3, shared.KitVector{1, 1, 1, 1}),
			flight("FE", mirror.Announced, 80, shared.KitVector{1, 1, 1, 1}),
		},
	}

	view := horizon.Build(snap, cat, horizon.DefaultConfig())

	// Only checked-in flights inside the 6h window are loadable.
	require.Len(t, view.Loadable, 1)
	assert.Equal(t, "FA", view.Loadable[0].ID)

	// Departed flights and flights past the 72h window never appear.
	require.Len(t, view.Upcoming, 3)
	assert.Equal(t, "FA", view.Upcoming[0].ID)
	assert.Equal(t, "FB", view.Upcoming[1].ID)
	assert.Equal(t, "FC", view.Upcoming[2].ID)
}

func TestBuild_ForecastGatedByPurchaseETA(t *testing.T) {
	cat := testCatalog(t)

	// From hour 0 a purchase lands at lead time plus 2h hub processing:
	// hour 50 for first class, hour 26 for the rest.
	snap := &mirror.Snapshot{
		CurrentHour: 0,
		Flights: []*mirror.Flight{
			flight("F1", mirror.Announced, 10, shared.KitVector{9, 9, 9, 9}),
			flight("F2", mirror.Announced, 30, shared.KitVector{5, 5, 5, 5}),
			flight("F3", mirror.Announced, 60, shared.KitVector{1, 2, 3, 4}),
		},
	}

	view := horizon.Build(snap, cat, horizon.DefaultConfig())

	assert.Equal(t, shared.KitVector{1, 7, 8, 9}, view.Forecast)
}

func TestBuild_ForecastUsesActualsOnceCheckedIn(t *testing.T) {
	cat := testCatalog(t)
	actual := shared.KitVector{0, 0, 0, 7}
	f := flight("F1", mirror.CheckedIn, 60, shared.KitVector{1, 1, 1, 1})
	f.ActualPassengers = &actual
	snap := &mirror.Snapshot{CurrentHour: 0, Flights: []*mirror.Flight{f}}

	view := horizon.Build(snap, cat, horizon.DefaultConfig())

	assert.Equal(t, actual, view.Forecast)
}

func TestBuild_SortsByDepartureThenID(t *testing.T) {
	cat := testCatalog(t)
	snap := &mirror.Snapshot{
		CurrentHour: 0,
		Flights: []*mirror.Flight{
			flight("F9", mirror.CheckedIn, 2, shared.KitVector{}),
			flight("F2", mirror.CheckedIn, 2, shared.KitVector{}),
			flight("F5", mirror.CheckedIn, 1, shared.KitVector{}),
		},
	}

	view := horizon.Build(snap, cat, horizon.DefaultConfig())

	require.Len(t, view.Loadable, 3)
	assert.Equal(t, "F5", view.Loadable[0].ID)
	assert.Equal(t, "F2", view.Loadable[1].ID)
	assert.Equal(t, "F9", view.Loadable[2].ID)
}

func TestBuild_ExcludesPastDepartures(t *testing.T) {
	cat := testCatalog(t)
	snap := &mirror.Snapshot{
		CurrentHour: 10,
		Flights: []*mirror.Flight{
			flight("F1", mirror.CheckedIn, 9, shared.KitVector{1, 1, 1, 1}),
			flight("F2", mirror.CheckedIn, 10, shared.KitVector{1, 1, 1, 1}),
		},
	}

	view := horizon.Build(snap, cat, horizon.DefaultConfig())

	require.Len(t, view.Loadable, 1)
	assert.Equal(t, "F2", view.Loadable[0].ID)
}
