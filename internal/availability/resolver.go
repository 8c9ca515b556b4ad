package availability

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// DayInput is everything needed to resolve the slots of one date.
// Blocked times and appointments may cover more than this date; other dates are ignored.
type DayInput struct {
	Establishment          *domain.Establishment
	Date                   time.Time
	ServiceDurationMinutes int
	StepMinutes            int
	Now                    time.Time

	BlockedDates []*domain.BlockedDate
	BlockedTimes []*domain.BlockedTime
	Appointments []*domain.Appointment
}

// MonthInput is everything needed to resolve the days of one month
type MonthInput struct {
	Establishment          *domain.Establishment
	Year                   int
	Month                  time.Month
	ServiceDurationMinutes int
	StepMinutes            int
	Now                    time.Time

	BlockedDates []*domain.BlockedDate
	BlockedTimes []*domain.BlockedTime
	Appointments []*domain.Appointment
}

// DayAvailability is the status of one date in the month view
type DayAvailability struct {
	Date   time.Time
	Status domain.DayStatus
}

// ResolveDay returns every generated slot of the date with its status.
// Priority: past, blocked date, blocked time, occupied, available.
func ResolveDay(in DayInput) ([]domain.SlotAvailability, error) {
	window, err := DayWindow(in.Establishment, in.Date)
	if err != nil {
		return nil, err
	}

	day := newDayState(in)
	result := make([]domain.SlotAvailability, 0)

	for slot := range GenerateSlots(window, in.ServiceDurationMinutes, stepOrDefault(in.StepMinutes)) {
		status, err := day.status(slot)
		if err != nil {
			return nil, err
		}
		result = append(result, domain.SlotAvailability{Time: slot, Status: status})
	}

	return result, nil
}

// ResolveSlot resolves a single start time with the same rules as ResolveDay.
// It does not check that t lies on the slot grid, see IsOnGrid.
func ResolveSlot(in DayInput, t types.TimeString) (domain.SlotStatus, error) {
	return newDayState(in).status(t)
}

// ResolveMonth returns the status of every date of the month in calendar order
func ResolveMonth(in MonthInput) ([]DayAvailability, error) {
	loc := in.Establishment.Location()
	today := domain.DateOnly(in.Now.In(loc))
	earliest := EarliestDate(in.Establishment.EarliestBookingTime, today)
	latest, bounded := LatestDate(in.Establishment.LatestBookingTime, today)

	first := time.Date(in.Year, in.Month, 1, 0, 0, 0, 0, loc)
	result := make([]DayAvailability, 0, 31)

	for d := first; d.Month() == in.Month; d = d.AddDate(0, 0, 1) {
		status, err := resolveMonthDay(in, d, today, earliest, latest, bounded)
		if err != nil {
			return nil, err
		}
		result = append(result, DayAvailability{Date: d, Status: status})
	}

	return result, nil
}

func resolveMonthDay(in MonthInput, d, today, earliest, latest time.Time, bounded bool) (domain.DayStatus, error) {
	if d.Before(today) || d.Before(earliest) {
		return domain.DayPast, nil
	}
	if (bounded && d.After(latest)) || IsDateBlocked(in.BlockedDates, d) {
		return domain.DayBlocked, nil
	}

	window, err := DayWindow(in.Establishment, d)
	if err != nil {
		return "", err
	}
	if !window.Open {
		return domain.DayClosed, nil
	}

	slots, err := ResolveDay(DayInput{
		Establishment:          in.Establishment,
		Date:                   d,
		ServiceDurationMinutes: in.ServiceDurationMinutes,
		StepMinutes:            in.StepMinutes,
		Now:                    in.Now,
		BlockedDates:           in.BlockedDates,
		BlockedTimes:           in.BlockedTimes,
		Appointments:           in.Appointments,
	})
	if err != nil {
		return "", err
	}

	for _, s := range slots {
		if s.IsAvailable() {
			return domain.DayAvailable, nil
		}
	}
	return domain.DayUnavailable, nil
}

// dayState holds what does not change between slots of one date
type dayState struct {
	in          DayInput
	loc         *time.Location
	dateBlocked bool
	capacity    int
}

func newDayState(in DayInput) *dayState {
	return &dayState{
		in:          in,
		loc:         in.Establishment.Location(),
		dateBlocked: IsDateBlocked(in.BlockedDates, in.Date),
		capacity:    in.Establishment.Capacity(),
	}
}

func (s *dayState) status(slot types.TimeString) (domain.SlotStatus, error) {
	from, err := slot.Minutes()
	if err != nil {
		return "", err
	}
	to := from + s.in.ServiceDurationMinutes

	startsAt, err := slot.OnDate(s.in.Date, s.loc)
	if err != nil {
		return "", err
	}

	switch {
	case !startsAt.After(s.in.Now):
		return domain.SlotPast, nil
	case s.dateBlocked:
		return domain.SlotBlocked, nil
	case overlapsBlockedMinutes(s.in.BlockedTimes, s.in.Date, from, to):
		return domain.SlotBlocked, nil
	case CountOverlapping(s.in.Appointments, s.in.Date, from, to) >= s.capacity:
		return domain.SlotOccupied, nil
	default:
		return domain.SlotAvailable, nil
	}
}

func stepOrDefault(step int) int {
	if step <= 0 {
		return domain.DefaultSlotStepMinutes
	}
	return step
}
