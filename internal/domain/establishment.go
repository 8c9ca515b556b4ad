package domain

import (
	"strings"
	"time"
)

// Weekday is the lowercase english weekday name used as key in working hours
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays in calendar order starting from Monday
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf returns the weekday key of the given date
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToLower(date.Weekday().String()))
}

// IsValid reports whether w is one of the seven known keys
func (w Weekday) IsValid() bool {
	for _, d := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// DaySchedule is one entry of the working hours map.
// Times are kept as stored ("HH:MM"); they are parsed when a day window is built.
type DaySchedule struct {
	IsOpen    bool   `json:"is_open"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

// WorkingHours maps weekday to schedule. A missing weekday means closed.
type WorkingHours map[Weekday]DaySchedule

// Establishment is a tenant: a business that accepts bookings
type Establishment struct {
	ID       int64
	Slug     string
	Name     string
	Timezone string // IANA name, empty means UTC

	OwnerUserID int64

	WorkingHours WorkingHours
	SlotsPerHour int

	EarliestBookingTime EarliestBookingPolicy
	LatestBookingTime   LatestBookingPolicy

	RequiredCustomerFields []CustomerField

	PlanID *int64

	RequireBookingFee bool
	BookingFeeAmount  float64
	PaymentConfigured bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingRules is the part of the establishment an admin edits to shape availability
type BookingRules struct {
	WorkingHours           WorkingHours
	SlotsPerHour           int
	EarliestBookingTime    EarliestBookingPolicy
	LatestBookingTime      LatestBookingPolicy
	RequiredCustomerFields []CustomerField
}

// Location returns the establishment time zone, UTC when unknown
func (e *Establishment) Location() *time.Location {
	if e.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LocalDate moves the calendar date of t to midnight in the establishment time zone
func (e *Establishment) LocalDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Location())
}

// Today is the current date in the establishment time zone
func (e *Establishment) Today(now time.Time) time.Time {
	return DateOnly(now.In(e.Location()))
}

// IsOwnedBy reports whether userID administers the establishment
func (e *Establishment) IsOwnedBy(userID int64) bool {
	return userID > 0 && e.OwnerUserID == userID
}

// Capacity is the number of appointments that may overlap one slot
func (e *Establishment) Capacity() int {
	if e.SlotsPerHour < MinSlotsPerHour {
		return DefaultSlotsPerHour
	}
	return e.SlotsPerHour
}

// RequiresBookingFee is true when a new appointment has to wait for payment
func (e *Establishment) RequiresBookingFee() bool {
	return e.RequireBookingFee && e.PaymentConfigured && e.BookingFeeAmount > 0
}

// DateOnly truncates t to midnight keeping its location
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate compares calendar dates ignoring time and location
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
