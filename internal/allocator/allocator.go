// Package allocator decides how many customers to contact in each revenue
// segment for a given batch size.
//
// Segments are filled greedily in models.SegmentPriority order. Every unit in
// a segment carries the same value and the priority order is descending value,
// so the greedy fill maximises estimated revenue for a fixed headcount.
package allocator

import "recoverydesk/internal/models"

// Availability maps a segment to the number of customers currently eligible
// for contact in it. Missing keys count as zero and unknown keys are ignored.
type Availability map[models.Segment]int

// Result is the outcome of a single allocation.
type Result struct {
	// Allocation holds only segments with a nonzero draw.
	Allocation     map[models.Segment]int `json:"allocation"`
	TotalRevenue   int64                  `json:"total_revenue"`
	TotalAllocated int                    `json:"total_allocated"`
}

// Allocate draws up to target customers from availability in priority order.
// Negative targets and counts are treated as zero.
func Allocate(target int, availability Availability) Result {
	remaining := max(target, 0)
	requested := remaining

	result := Result{Allocation: make(map[models.Segment]int)}
	for _, segment := range models.SegmentPriority() {
		if remaining == 0 {
			break
		}
		draw := min(max(availability[segment], 0), remaining)
		if draw > 0 {
			result.Allocation[segment] = draw
			result.TotalRevenue += int64(draw) * segment.Value()
			remaining -= draw
		}
	}
	result.TotalAllocated = requested - remaining

	return result
}

// TotalAvailable sums the canonical segments of availability.
func TotalAvailable(availability Availability) int {
	total := 0
	for _, segment := range models.SegmentPriority() {
		total += max(availability[segment], 0)
	}
	return total
}

// Point is one sample of a Curve.
type Point struct {
	Target int `json:"target"`
	Result
}

// Curve evaluates Allocate at every step from 0 up to the total availability.
// The final point is always the full availability even when it is not a
// multiple of step. A step below 1 is treated as 1.
func Curve(availability Availability, step int) []Point {
	step = max(step, 1)
	total := TotalAvailable(availability)

	points := make([]Point, 0, total/step+2)
	for target := 0; target < total; target += step {
		points = append(points, Point{Target: target, Result: Allocate(target, availability)})
	}
	return append(points, Point{Target: total, Result: Allocate(total, availability)})
}
