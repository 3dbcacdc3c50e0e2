package shared

import "fmt"

// GameHour is an absolute simulated hour since session start (day*24 + hour).
// The game runs for 720 of them.
type GameHour int

// TotalRounds is the length of a full session in simulated hours.
const TotalRounds = 720

// HourOf builds a GameHour from the wire representation (day, hour-of-day).
func HourOf(day, hour int) GameHour {
	return GameHour(day*24 + hour)
}

// Day returns the zero-based day component.
func (h GameHour) Day() int {
	return int(h) / 24
}

// HourOfDay returns the hour-of-day component in [0, 24).
func (h GameHour) HourOfDay() int {
	return int(h) % 24
}

func (h GameHour) String() string {
	return fmt.Sprintf("d%dh%d", h.Day(), h.HourOfDay())
}
