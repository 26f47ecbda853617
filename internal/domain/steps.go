package domain

import "math"

// PlanSteps interpolates from old (exclusive) to target (inclusive) in at most
// steps values. Repeated values are collapsed and the plan always ends with
// target, so it is never empty.
func PlanSteps(old, target Volume, steps uint64) []Volume {
	if steps == 0 {
		steps = 1
	}
	stride := (float64(target) - float64(old)) / float64(steps)

	plan := make([]Volume, 0, min(steps, 256))
	prev := old
	for i := uint64(1); i <= steps; i++ {
		last := i == steps
		v := target
		if !last {
			v = Volume(math.Round(float64(old) + stride*float64(i)))
		}
		if v == prev && (!last || len(plan) > 0) {
			continue
		}
		plan = append(plan, v)
		prev = v
	}
	return plan
}
