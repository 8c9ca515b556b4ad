package domain

import "strings"

// EarliestBookingPolicy bounds how soon a customer may book
type EarliestBookingPolicy string

const (
	EarliestSameDay    EarliestBookingPolicy = "same_day"
	EarliestPlus1Day   EarliestBookingPolicy = "+1 day"
	EarliestPlus2Days  EarliestBookingPolicy = "+2 days"
	EarliestPlus3Days  EarliestBookingPolicy = "+3 days"
	EarliestPlus7Days  EarliestBookingPolicy = "+7 days"
	EarliestPlus1Month EarliestBookingPolicy = "+1 month"
	EarliestNextWeek   EarliestBookingPolicy = "next_week"
	EarliestNextMonth  EarliestBookingPolicy = "next_month"
)

var earliestPolicies = []EarliestBookingPolicy{
	EarliestSameDay,
	EarliestPlus1Day,
	EarliestPlus2Days,
	EarliestPlus3Days,
	EarliestPlus7Days,
	EarliestPlus1Month,
	EarliestNextWeek,
	EarliestNextMonth,
}

// LatestBookingPolicy bounds how far ahead a customer may book
type LatestBookingPolicy string

const (
	LatestNoLimit     LatestBookingPolicy = "no_limit"
	LatestPlus1Week   LatestBookingPolicy = "+1 week"
	LatestPlus2Weeks  LatestBookingPolicy = "+2 weeks"
	LatestPlus1Month  LatestBookingPolicy = "+1 month"
	LatestPlus2Months LatestBookingPolicy = "+2 months"
	LatestPlus3Months LatestBookingPolicy = "+3 months"
	LatestPlus6Months LatestBookingPolicy = "+6 months"
)

var latestPolicies = []LatestBookingPolicy{
	LatestNoLimit,
	LatestPlus1Week,
	LatestPlus2Weeks,
	LatestPlus1Month,
	LatestPlus2Months,
	LatestPlus3Months,
	LatestPlus6Months,
}

// ParseEarliestBookingPolicy accepts only known values. Used when rules are saved.
func ParseEarliestBookingPolicy(s string) (EarliestBookingPolicy, error) {
	s = strings.TrimSpace(s)
	for _, p := range earliestPolicies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", NewValidationError("earliest_booking_time", "unknown policy %q", s)
}

// EarliestBookingPolicyOrDefault is the read-path variant: stored rows with an
// unknown value fall back to same_day. ok is false when the fallback was used.
func EarliestBookingPolicyOrDefault(s string) (policy EarliestBookingPolicy, ok bool) {
	p, err := ParseEarliestBookingPolicy(s)
	if err != nil {
		return EarliestSameDay, false
	}
	return p, true
}

// ParseLatestBookingPolicy accepts only known values. Used when rules are saved.
func ParseLatestBookingPolicy(s string) (LatestBookingPolicy, error) {
	s = strings.TrimSpace(s)
	for _, p := range latestPolicies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", NewValidationError("latest_booking_time", "unknown policy %q", s)
}

// LatestBookingPolicyOrDefault falls back to no_limit for unknown stored values
func LatestBookingPolicyOrDefault(s string) (policy LatestBookingPolicy, ok bool) {
	p, err := ParseLatestBookingPolicy(s)
	if err != nil {
		return LatestNoLimit, false
	}
	return p, true
}
