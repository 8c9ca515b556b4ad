package domain

// Default configuration values
const (
	DefaultSlotStepMinutes = 30
	DefaultSlotsPerHour    = 1
)

// Business validation constants
const (
	MinSlotsPerHour        = 1
	MaxSlotsPerHour        = 100
	MaxNotesLength         = 500
	MaxCustomerNameLength  = 255
	MinPhoneDigits         = 8
	MaxPhoneDigits         = 15
	MaxServiceDurationMins = 24 * 60
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
