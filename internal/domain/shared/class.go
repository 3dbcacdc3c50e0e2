package shared

import "fmt"

// Class is one of the four closed service classes, in fixed cabin order.
type Class int

const (
	First Class = iota
	Business
	PremiumEconomy
	Economy

	// ClassCount is the fixed width of every per-class vector.
	ClassCount = 4
)

// Classes returns all classes in fixed order, for range loops.
func Classes() [ClassCount]Class {
	return [ClassCount]Class{First, Business, PremiumEconomy, Economy}
}

func (c Class) String() string {
	switch c {
	case First:
		return "FIRST"
	case Business:
		return "BUSINESS"
	case PremiumEconomy:
		return "PREMIUM_ECONOMY"
	case Economy:
		return "ECONOMY"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// ParseClass converts the wire/CSV spelling of a class into the enum.
func ParseClass(s string) (Class, error) {
	switch s {
	case "FIRST":
		return First, nil
	case "BUSINESS":
		return Business, nil
	case "PREMIUM_ECONOMY":
		return PremiumEconomy, nil
	case "ECONOMY":
		return Economy, nil
	}
	return 0, fmt.Errorf("unknown service class %q", s)
}

// KitVector is a per-class vector of kit counts. Quantities may be transiently
// negative inside inventory projections; callers that require non-negative
// vectors clamp explicitly.
type KitVector [ClassCount]int

// Add returns the element-wise sum of v and o.
func (v KitVector) Add(o KitVector) KitVector {
	for _, c := range Classes() {
		v[c] += o[c]
	}
	return v
}

// Sub returns the element-wise difference v - o.
func (v KitVector) Sub(o KitVector) KitVector {
	for _, c := range Classes() {
		v[c] -= o[c]
	}
	return v
}

// Sum returns the total across all classes.
func (v KitVector) Sum() int {
	total := 0
	for _, c := range Classes() {
		total += v[c]
	}
	return total
}

// IsZero reports whether every class is zero.
func (v KitVector) IsZero() bool {
	return v == KitVector{}
}

// ClampNonNegative returns v with negative entries raised to zero.
func (v KitVector) ClampNonNegative() KitVector {
	for _, c := range Classes() {
		if v[c] < 0 {
			v[c] = 0
		}
	}
	return v
}

// Min returns the element-wise minimum of v and o.
func (v KitVector) Min(o KitVector) KitVector {
	for _, c := range Classes() {
		if o[c] < v[c] {
			v[c] = o[c]
		}
	}
	return v
}

func (v KitVector) String() string {
	return fmt.Sprintf("(F:%d B:%d PE:%d E:%d)", v[First], v[Business], v[PremiumEconomy], v[Economy])
}

// CostVector is a per-class vector of money or time rates.
type CostVector [ClassCount]float64

// Dot returns the inner product of the rate vector with a kit vector.
func (r CostVector) Dot(v KitVector) float64 {
	total := 0.0
	for _, c := range Classes() {
		total += r[c] * float64(v[c])
	}
	return total
}
