package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rotable-go/internal/domain/catalog"
	"github.com/andrescamacho/rotable-go/internal/domain/shared"
)

func testAirports() []*catalog.Airport {
	return []*catalog.Airport{
		{
			Code: "HUB", Hub: true,
			StorageCapacity:  shared.KitVector{100, 100, 100, 100},
			ProcessingHours:  shared.KitVector{2, 2, 2, 2},
			InitialInventory: shared.KitVector{50, 50, 50, 50},
		},
		{
			Code:             "AAA",
			StorageCapacity:  shared.KitVector{100, 100, 100, 100},
			ProcessingHours:  shared.KitVector{2, 2, 2, 2},
			InitialInventory: shared.KitVector{20, 20, 20, 20},
		},
	}
}

func TestNew_BuildsCatalog(t *testing.T) {
	aircraft := []*catalog.AircraftType{{Code: "A320", FuelCostPerKm: 0.5}}
	schedule := []*catalog.FlightPlanEntry{
		{FlightID: "F1", Origin: "HUB", Destination: "AAA", AircraftType: "A320"},
	}

	cat, err := catalog.New(testAirports(), aircraft, catalog.DefaultKitMeta(), schedule, nil)

	require.NoError(t, err)
	assert.Equal(t, "HUB", cat.Hub().Code)
	assert.NotNil(t, cat.Airport("AAA"))
	assert.Nil(t, cat.Airport("ZZZ"))
	assert.NotNil(t, cat.Aircraft("A320"))
	assert.Len(t, cat.Schedule(), 1)
}

func TestNew_RejectsMissingHub(t *testing.T) {
	airports := []*catalog.Airport{{Code: "AAA"}}

	_, err := catalog.New(airports, nil, catalog.DefaultKitMeta(), nil, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no hub")
}

func TestNew_RejectsDuplicateHub(t *testing.T) {
	airports := []*catalog.Airport{
		{Code: "HUB", Hub: true},
		{Code: "HB2", Hub: true},
	}

	_, err := catalog.New(airports, nil, catalog.DefaultKitMeta(), nil, nil)

	assert.Error(t, err)
}

func TestNew_RejectsUnknownScheduleReferences(t *testing.T) {
	aircraft := []*catalog.AircraftType{{Code: "A320"}}

	_, err := catalog.New(testAirports(), aircraft, catalog.DefaultKitMeta(), []*catalog.FlightPlanEntry{
		{FlightID: "F1", Origin: "HUB", Destination: "NOWHERE", AircraftType: "A320"},
	}, nil)
	assert.Error(t, err)

	_, err = catalog.New(testAirports(), aircraft, catalog.DefaultKitMeta(), []*catalog.FlightPlanEntry{
		{FlightID: "F1", Origin: "HUB", Destination: "AAA", AircraftType: "B747"},
	}, nil)
	assert.Error(t, err)
}

func TestAllAirports_SortedByCode(t *testing.T) {
	cat, err := catalog.New(testAirports(), nil, catalog.DefaultKitMeta(), nil, nil)
	require.NoError(t, err)

	all := cat.AllAirports()

	require.Len(t, all, 2)
	assert.Equal(t, "AAA", all[0].Code)
	assert.Equal(t, "HUB", all[1].Code)
}

func TestInitialInventories(t *testing.T) {
	cat, err := catalog.New(testAirports(), nil, catalog.DefaultKitMeta(), nil, nil)
	require.NoError(t, err)

	inv := cat.InitialInventories()

	assert.Equal(t, shared.KitVector{50, 50, 50, 50}, inv["HUB"])
	assert.Equal(t, shared.KitVector{20, 20, 20, 20}, inv["AAA"])
}

func TestDefaultKitMeta_FirstClassLeadTime(t *testing.T) {
	meta := catalog.DefaultKitMeta()

	assert.Equal(t, 48, meta[shared.First].LeadTimeHours)
	assert.Equal(t, 24, meta[shared.Economy].LeadTimeHours)
	assert.Equal(t, 50.0, meta[shared.First].Cost)
}
