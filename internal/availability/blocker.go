package availability

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// IsDateBlocked: exact date match, or a recurring entry with the same month and day
func IsDateBlocked(blocked []*domain.BlockedDate, date time.Time) bool {
	_, month, day := date.Date()

	for _, b := range blocked {
		if domain.SameDate(b.Date, date) {
			return true
		}
		if b.IsRecurring {
			_, bMonth, bDay := b.Date.Date()
			if bMonth == month && bDay == day {
				return true
			}
		}
	}
	return false
}

// OverlapsBlockedTime reports whether [start, end) on date intersects any blocked interval.
// Intervals that only touch do not overlap.
func OverlapsBlockedTime(blocked []*domain.BlockedTime, date time.Time, start, end types.TimeString) bool {
	from, err := start.Minutes()
	if err != nil {
		return false
	}
	to, err := end.Minutes()
	if err != nil {
		return false
	}
	return overlapsBlockedMinutes(blocked, date, from, to)
}

func overlapsBlockedMinutes(blocked []*domain.BlockedTime, date time.Time, from, to int) bool {
	for _, b := range blocked {
		if !domain.SameDate(b.Date, date) {
			continue
		}
		bStart, err := b.StartTime.Minutes()
		if err != nil {
			continue
		}
		bEnd, err := b.EndTime.Minutes()
		if err != nil {
			continue
		}
		if bStart < to && bEnd > from {
			return true
		}
	}
	return false
}

// CountOverlapping counts active appointments on date that intersect [from, to) minutes
func CountOverlapping(appointments []*domain.Appointment, date time.Time, from, to int) int {
	count := 0
	for _, a := range appointments {
		if !a.IsActive() || !domain.SameDate(a.Date, date) {
			continue
		}
		if a.Overlaps(from, to) {
			count++
		}
	}
	return count
}
