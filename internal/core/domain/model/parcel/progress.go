package parcel

import (
	"math"
	"time"
)

// TargetIndex maps wall-clock time onto a waypoint index:
//
//	elapsed  = max(0, now - createdAt)
//	fraction = min(1, elapsed / (daysToDeliver * 24h))
//	target   = floor(fraction * (n - 1))
//
// The result depends only on absolute elapsed time, so a parcel that missed
// any number of ticks lands on the same index as one that never did.
func TargetIndex(createdAt, now time.Time, daysToDeliver, n int) int {
	if n < 2 || daysToDeliver <= 0 {
		return 0
	}

	elapsedHours := math.Max(0, now.Sub(createdAt).Hours())
	totalHours := float64(daysToDeliver) * 24

	fraction := math.Min(1, elapsedHours/totalHours)

	return int(math.Floor(fraction * float64(n-1)))
}

// EstimatedDeliveryAt returns createdAt + daysToDeliver*24h.
func EstimatedDeliveryAt(createdAt time.Time, daysToDeliver int) time.Time {
	return createdAt.Add(time.Duration(daysToDeliver) * 24 * time.Hour)
}

// PercentAlong returns how far index is along a route of waypointCount points,
// in [0, 100]. Routes shorter than two points report 0.
func PercentAlong(index, waypointCount int) float64 {
	if waypointCount < 2 {
		return 0
	}
	return float64(index) * 100 / float64(waypointCount-1)
}
