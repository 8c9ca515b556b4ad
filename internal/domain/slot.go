package domain

import "github.com/emer5om/horaly-pro-sub000/pkg/types"

// SlotStatus is the state of one candidate start time
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotOccupied  SlotStatus = "occupied"
	SlotPast      SlotStatus = "past"
	SlotBlocked   SlotStatus = "blocked"
)

// DayStatus is the state of a calendar day in the month view
type DayStatus string

const (
	DayPast        DayStatus = "past"
	DayClosed      DayStatus = "closed"
	DayBlocked     DayStatus = "blocked"
	DayAvailable   DayStatus = "available"
	DayUnavailable DayStatus = "unavailable"
)

// SlotAvailability represents a start time with its resolved status
type SlotAvailability struct {
	Time   types.TimeString
	Status SlotStatus
}

// IsAvailable returns true if the slot can be booked
func (s SlotAvailability) IsAvailable() bool {
	return s.Status == SlotAvailable
}
