package costing

// Factors holds the penalty calibration of the evaluation server's scoring.
// Any change in the server's rules is made here and nowhere else.
type Factors struct {
	// NegativeInventory is a flat per-kit charge at every hour boundary at
	// which an airport's projected stock is below zero.
	NegativeInventory float64

	// Overstock is a flat per-kit charge for stock above storage capacity.
	Overstock float64

	// Overload scales with distance, fuel cost and kit cost per kit loaded
	// above the aircraft's kit capacity.
	Overload float64

	// Unfulfilled scales with distance and kit cost per passenger left
	// without a kit.
	Unfulfilled float64

	// IncorrectLoad is charged per invalid flight reference in a submission.
	IncorrectLoad float64

	// EndNegativeInventory and EndOverstock replace the flat factors for the
	// terminal evaluation of state at hour 720.
	EndNegativeInventory float64
	EndOverstock         float64
}

// DefaultFactors returns the calibration the evaluation platform scores with.
func DefaultFactors() Factors {
	return Factors{
		NegativeInventory:    1000.0,
		Overstock:            500.0,
		Overload:             5.0,
		Unfulfilled:          0.003,
		IncorrectLoad:        500.0,
		EndNegativeInventory: 2000.0,
		EndOverstock:         1000.0,
	}
}

// BreakEvenDistance is the flight distance at which the unfulfilled penalty
// for one missing kit equals the kit's own cost. Around 333 km with the
// default calibration; the optimizer uses it as a buffering threshold.
func (f Factors) BreakEvenDistance() float64 {
	return 1.0 / f.Unfulfilled
}
