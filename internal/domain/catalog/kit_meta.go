package catalog

import "github.com/andrescamacho/rotable-go/internal/domain/shared"

// KitClassMeta is the immutable metadata of one service class.
type KitClassMeta struct {
	// Cost is the purchase price of one kit.
	Cost float64

	// WeightKg is the weight of one kit, used for the movement cost.
	WeightKg float64

	// LeadTimeHours is the lag between placing a purchase at the hub and the
	// kits arriving there. Hub processing time is added on top before the
	// kits become loadable.
	LeadTimeHours int
}

// DefaultKitMeta returns the kit metadata used when no override is supplied.
// First class carries the long 48h procurement lead time; everything else
// restocks within a day.
func DefaultKitMeta() [shared.ClassCount]KitClassMeta {
	return [shared.ClassCount]KitClassMeta{
		shared.First:          {Cost: 50.0, WeightKg: 2.5, LeadTimeHours: 48},
		shared.Business:       {Cost: 30.0, WeightKg: 1.5, LeadTimeHours: 24},
		shared.PremiumEconomy: {Cost: 15.0, WeightKg: 1.0, LeadTimeHours: 24},
		shared.Economy:        {Cost: 10.0, WeightKg: 0.8, LeadTimeHours: 24},
	}
}
