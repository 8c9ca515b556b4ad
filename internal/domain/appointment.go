package domain

import (
	"fmt"
	"time"

	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending        AppointmentStatus = "pending"
	StatusPendingPayment AppointmentStatus = "pending_payment"
	StatusConfirmed      AppointmentStatus = "confirmed"
	StatusStarted        AppointmentStatus = "started"
	StatusCompleted      AppointmentStatus = "completed"
	StatusCancelled      AppointmentStatus = "cancelled"
)

// AppointmentEvent is an action applied to an appointment
type AppointmentEvent string

const (
	EventConfirm        AppointmentEvent = "confirm"
	EventConfirmPayment AppointmentEvent = "confirm_payment"
	EventStart          AppointmentEvent = "start"
	EventComplete       AppointmentEvent = "complete"
	EventCancel         AppointmentEvent = "cancel"
)

// appointmentTransitions is the full (from, event) -> to table.
// Any pair not listed here is rejected.
var appointmentTransitions = map[AppointmentStatus]map[AppointmentEvent]AppointmentStatus{
	StatusPending: {
		EventConfirm: StatusConfirmed,
		EventCancel:  StatusCancelled,
	},
	StatusPendingPayment: {
		EventConfirmPayment: StatusConfirmed,
		EventCancel:         StatusCancelled,
	},
	StatusConfirmed: {
		EventStart:  StatusStarted,
		EventCancel: StatusCancelled,
	},
	StatusStarted: {
		EventComplete: StatusCompleted,
		EventCancel:   StatusCancelled,
	},
}

// InactiveStatuses do not occupy capacity
var InactiveStatuses = []AppointmentStatus{StatusCancelled}

// NextAppointmentStatus resolves the target status of a transition
func NextAppointmentStatus(from AppointmentStatus, event AppointmentEvent) (AppointmentStatus, error) {
	to, ok := appointmentTransitions[from][event]
	if !ok {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, event)
	}
	return to, nil
}

// ParseAppointmentEvent validates an event name coming from the API
func ParseAppointmentEvent(s string) (AppointmentEvent, error) {
	switch e := AppointmentEvent(s); e {
	case EventConfirm, EventConfirmPayment, EventStart, EventComplete, EventCancel:
		return e, nil
	default:
		return "", NewValidationError("event", "unknown event %q", s)
	}
}

// IsTerminal is true when no further transition is possible
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// Appointment is a booked service at a given date and time
type Appointment struct {
	ID              int64
	EstablishmentID int64
	CustomerID      int64
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeString
	Status          AppointmentStatus

	// Snapshot of the service at booking time
	DurationMinutes int
	Price           float64
	DiscountAmount  float64
	TotalPrice      float64
	CouponID        *int64

	Notes       *string
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies capacity
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// Interval returns [start, end) in minutes from midnight
func (a *Appointment) Interval() (start, end int, err error) {
	start, err = a.StartTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return start, start + a.DurationMinutes, nil
}

// Overlaps reports whether the appointment intersects [start, end) minutes.
// Touching intervals do not overlap.
func (a *Appointment) Overlaps(start, end int) bool {
	aStart, aEnd, err := a.Interval()
	if err != nil {
		return false
	}
	return aStart < end && aEnd > start
}
