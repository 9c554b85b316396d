package appointment

import "time"

// PacingJitter is added to every throttled delay.
const PacingJitter = 100 * time.Millisecond

// ComputeDelay returns the sleep between attempts. With throttling on and more
// than one target, the provider's per-window budget is spread across every
// target: ceil(window/threshold) * targets + jitter.
func ComputeDelay(p ThrottlePolicy, totalTargets int) time.Duration {
	fixed := time.Duration(p.FixedDelayMs) * time.Millisecond
	if !p.Enabled || totalTargets == 1 || p.ThresholdPerWindow <= 0 {
		return fixed
	}
	windowMs := int64(p.WindowMinutes) * 60 * 1000
	threshold := int64(p.ThresholdPerWindow)
	perCall := (windowMs + threshold - 1) / threshold
	return time.Duration(perCall*int64(totalTargets))*time.Millisecond + PacingJitter
}
