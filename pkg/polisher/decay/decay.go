package decay

import "math"

// Config controls the stale-phrase discount.
type Config struct {
	// Rate is the percentage removed per elapsed cycle (0..50).
	// Default: 10
	Rate float64

	// Interval is the number of messages in one cycle.
	// Default: 10
	Interval int
}

// DefaultConfig returns the analyzer's shipped decay settings.
func DefaultConfig() Config {
	return Config{Rate: 10, Interval: 10}
}

// Step describes the discount owed by one record at a given message counter.
type Step struct {
	Age     int     // messages since the record was last seen
	Cycles  int     // whole cycles elapsed since then
	Pending int     // cycles not yet applied
	Factor  float64 // multiplier for the pending cycles, in (0, 1]
}

// Cycles returns floor(age / interval). Negative ages and a non-positive
// interval give zero.
func (c Config) Cycles(age int) int {
	if age <= 0 || c.Interval <= 0 {
		return 0
	}
	return age / c.Interval
}

// Factor returns (1 - rate/100)^cycles. The result is 1 for zero cycles and
// never exceeds 1.
func (c Config) Factor(cycles int) float64 {
	if cycles <= 0 {
		return 1.0
	}
	rate := c.Rate
	if rate <= 0 {
		return 1.0
	}
	if rate >= 100 {
		rate = 99.999
	}
	return math.Pow(1-rate/100, float64(cycles))
}

// Compute works out the discount for a record last seen at lastSeen, of which
// applied cycles have already been charged.
//
// Charging only the pending cycles keeps repeated runs at the same counter
// from compounding: after k elapsed cycles the total multiplier is always
// (1 - rate/100)^k, however often decay ran in between.
func Compute(current, lastSeen, applied int, cfg Config) Step {
	age := current - lastSeen
	cycles := cfg.Cycles(age)
	pending := cycles - applied
	if pending < 0 {
		pending = 0
	}
	return Step{
		Age:     age,
		Cycles:  cycles,
		Pending: pending,
		Factor:  cfg.Factor(pending),
	}
}

// Apply discounts score by the step's factor, flooring at zero.
func Apply(score float64, step Step) float64 {
	out := score * step.Factor
	if out < 0 {
		return 0
	}
	return out
}
