package shaper

import (
	"math"
	"strconv"
	"time"
)

// StepDuration is the length of one stress-profile ramp step.
const StepDuration = 30 * time.Second

// Phase is one segment of a load profile: a target aggregate rate held
// for a duration. Phases are immutable once a run starts.
type Phase struct {
	Label    string
	Rate     float64
	Duration time.Duration
}

// Sustained returns a single-phase profile at a fixed rate.
func Sustained(rps int, duration time.Duration) []Phase {
	return []Phase{{Label: "sustained", Rate: float64(rps), Duration: duration}}
}

// Stress returns a ramp profile: 30-second steps from rps up to maxRPS.
// The increment is ceil((maxRPS-rps)/(steps-1)), capped at maxRPS, so the
// final step always reaches exactly maxRPS and the ramp is monotonic.
// When duration allows only one step, the whole run executes at maxRPS.
// Any remainder of duration past the last full step extends the final
// step, so the ramp never outlives the configured duration.
func Stress(rps, maxRPS int, duration time.Duration) []Phase {
	steps := int(duration / StepDuration)
	if steps <= 1 {
		return []Phase{{Label: "step-1", Rate: float64(maxRPS), Duration: duration}}
	}
	increment := int(math.Ceil(float64(maxRPS-rps) / float64(steps-1)))
	if increment < 1 {
		increment = 1
	}
	phases := make([]Phase, 0, steps)
	for k := 0; k < steps; k++ {
		r := rps + k*increment
		if r > maxRPS {
			r = maxRPS
		}
		d := StepDuration
		if k == steps-1 {
			d = duration - time.Duration(steps-1)*StepDuration
		}
		phases = append(phases, Phase{
			Label:    "step-" + strconv.Itoa(k+1),
			Rate:     float64(r),
			Duration: d,
		})
	}
	return phases
}

// Spike returns the elasticity profile: baseline, spike, recovery,
// second spike, final recovery. The total duration is split 1:1:1:1:2,
// the final recovery taking the double share.
func Spike(rps, maxRPS int, duration time.Duration) []Phase {
	unit := duration / 6
	return []Phase{
		{Label: "normal", Rate: float64(rps), Duration: unit},
		{Label: "spike", Rate: float64(maxRPS), Duration: unit},
		{Label: "recovery", Rate: float64(rps), Duration: unit},
		{Label: "second-spike", Rate: float64(maxRPS), Duration: unit},
		{Label: "final-recovery", Rate: float64(rps), Duration: duration - 4*unit},
	}
}
