package availability

import (
	"time"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
)

// EarliestDate is the first bookable date for today under policy
func EarliestDate(policy domain.EarliestBookingPolicy, today time.Time) time.Time {
	today = domain.DateOnly(today)

	switch policy {
	case domain.EarliestPlus1Day:
		return today.AddDate(0, 0, 1)
	case domain.EarliestPlus2Days:
		return today.AddDate(0, 0, 2)
	case domain.EarliestPlus3Days:
		return today.AddDate(0, 0, 3)
	case domain.EarliestPlus7Days:
		return today.AddDate(0, 0, 7)
	case domain.EarliestPlus1Month:
		return today.AddDate(0, 1, 0)
	case domain.EarliestNextWeek:
		// ближайший понедельник строго после сегодняшнего дня
		days := (8 - int(today.Weekday())) % 7
		if days == 0 {
			days = 7
		}
		return today.AddDate(0, 0, days)
	case domain.EarliestNextMonth:
		return time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, today.Location())
	default:
		return today
	}
}

// LatestDate is the last bookable date; bounded is false for no_limit
func LatestDate(policy domain.LatestBookingPolicy, today time.Time) (latest time.Time, bounded bool) {
	today = domain.DateOnly(today)

	switch policy {
	case domain.LatestPlus1Week:
		return today.AddDate(0, 0, 7), true
	case domain.LatestPlus2Weeks:
		return today.AddDate(0, 0, 14), true
	case domain.LatestPlus1Month:
		return today.AddDate(0, 1, 0), true
	case domain.LatestPlus2Months:
		return today.AddDate(0, 2, 0), true
	case domain.LatestPlus3Months:
		return today.AddDate(0, 3, 0), true
	case domain.LatestPlus6Months:
		return today.AddDate(0, 6, 0), true
	default:
		return time.Time{}, false
	}
}

// HorizonPosition tells where a date falls relative to the booking horizon
type HorizonPosition int

const (
	HorizonWithin HorizonPosition = iota
	HorizonTooEarly
	HorizonTooLate
)

// LocateInHorizon compares date against [earliest, latest] in the establishment time zone
func LocateInHorizon(est *domain.Establishment, date, now time.Time) HorizonPosition {
	loc := est.Location()
	today := domain.DateOnly(now.In(loc))
	day := inLocation(date, loc)

	if day.Before(today) || day.Before(EarliestDate(est.EarliestBookingTime, today)) {
		return HorizonTooEarly
	}
	if latest, bounded := LatestDate(est.LatestBookingTime, today); bounded && day.After(latest) {
		return HorizonTooLate
	}
	return HorizonWithin
}

// WithinBookingHorizon is true when earliest <= date <= latest
func WithinBookingHorizon(est *domain.Establishment, date, now time.Time) bool {
	return LocateInHorizon(est, date, now) == HorizonWithin
}

// inLocation keeps the calendar date and moves it to midnight in loc
func inLocation(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
