package query

import "github.com/voluzi/process-watcher/pkg/snapshot"

// isDescendant reports whether record candidate belongs to the subtree rooted
// at record top, following parent links inside the same snapshot.
// The walk stops on a parent missing from the snapshot, a process that is its
// own parent, or after more steps than there are records (a parent cycle).
func isDescendant(v *snapshot.View, candidate, top int) bool {
	for steps := 0; steps <= v.Len(); steps++ {
		if candidate == top {
			return true
		}
		parent, ok := v.Find(v.PPid(candidate))
		if !ok {
			return false
		}
		if parent == candidate {
			return false
		}
		candidate = parent
	}
	return false
}

// subtreeTotals sums the metrics of every record in the subtree rooted at top.
func subtreeTotals(v *snapshot.View, top int, totals []int64) {
	for i := 0; i < v.Len(); i++ {
		if !isDescendant(v, i, top) {
			continue
		}
		for m := range totals {
			totals[m] += int64(v.Metric(i, m))
		}
	}
}
