package welllog

import "math"

// stepTolerance is the largest deviation from the average step, relative to
// the average, that still counts as a regular sampling.
const stepTolerance = 0.005

// ComputeStep returns the sampling step of an index sequence.
//
// The step is the average delta between consecutive non-NaN values. The
// sequence is regular when neither the smallest nor the largest delta
// deviates from that average by more than 0.5% of its magnitude. The second
// result is false for an irregular sequence or one with fewer than two values.
func ComputeStep(values []float64) (float64, bool) {
	minStep, maxStep, avgStep, ok := stepStats(values)
	if !ok {
		return 0, false
	}

	d := math.Max(math.Abs(minStep-avgStep), math.Abs(maxStep-avgStep))
	if d > math.Abs(avgStep)*stepTolerance {
		return 0, false
	}

	return avgStep, true
}

// stepStats returns the smallest, largest and average delta between
// consecutive non-NaN values.
func stepStats(values []float64) (minStep, maxStep, avgStep float64, ok bool) {
	prev := math.NaN()
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if !math.IsNaN(prev) {
			step := v - prev
			if n == 0 {
				minStep, maxStep = step, step
			} else {
				minStep = math.Min(minStep, step)
				maxStep = math.Max(maxStep, step)
			}
			n++
			avgStep += (step - avgStep) / float64(n)
		}
		prev = v
	}

	return minStep, maxStep, avgStep, n > 0
}
