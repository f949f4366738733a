package dnd

import "math"

const (
	minMargin      = 1.0
	minMaxVelocity = 0.1
)

// AutoscrollVelocity returns the signed scroll speed for the pointer.
// Negative scrolls up, positive scrolls down. Inside the margins the speed
// ramps linearly from 0 at the threshold to MaxVelocity at the edge; the
// dead zone between them yields exactly 0.
func AutoscrollVelocity(p AutoscrollParams) float64 {
	height := p.ViewportHeight
	if height <= 0 {
		return 0
	}

	pointer := clamp(p.PointerY, 0, height)
	margin := clamp(p.Margin, minMargin, height/2)
	maxVelocity := math.Max(minMaxVelocity, p.MaxVelocity)

	topThreshold := margin
	bottomThreshold := height - margin

	switch {
	case pointer < topThreshold:
		return -scaleVelocity(topThreshold-pointer, margin, maxVelocity)
	case pointer > bottomThreshold:
		return scaleVelocity(pointer-bottomThreshold, margin, maxVelocity)
	default:
		return 0
	}
}

// ScrollStep applies one autoscroll tick to a scroll offset and keeps the
// result within [lower, upper]. An upper bound below lower collapses to lower.
func ScrollStep(current, velocity, lower, upper float64) float64 {
	if upper < lower {
		upper = lower
	}
	return clamp(current+velocity, lower, upper)
}

func scaleVelocity(distance, margin, maxVelocity float64) float64 {
	ratio := math.Min(1, math.Max(0, distance)/margin)
	return maxVelocity * ratio
}

// clamp keeps v within [lo, hi]. When hi < lo, lo wins.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
