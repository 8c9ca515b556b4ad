package availability

import (
	"iter"

	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// GenerateSlots yields start times from window.Start every stepMinutes while the
// service still fits before window.End. The sequence can be ranged over many times.
func GenerateSlots(w Window, durationMinutes, stepMinutes int) iter.Seq[types.TimeString] {
	return func(yield func(types.TimeString) bool) {
		if !w.Open || durationMinutes <= 0 || stepMinutes <= 0 {
			return
		}

		start, err := w.Start.Minutes()
		if err != nil {
			return
		}
		end, err := w.End.Minutes()
		if err != nil {
			return
		}

		for t := start; t+durationMinutes <= end; t += stepMinutes {
			slot, err := types.FromMinutes(t)
			if err != nil {
				return
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// IsOnGrid reports whether t is one of the generated start times
func IsOnGrid(w Window, durationMinutes, stepMinutes int, t types.TimeString) bool {
	for slot := range GenerateSlots(w, durationMinutes, stepMinutes) {
		if slot == t {
			return true
		}
		if slot.IsAfter(t) {
			return false
		}
	}
	return false
}
