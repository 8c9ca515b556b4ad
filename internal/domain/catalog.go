package domain

import (
	"math"
	"time"

	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// Service is something an establishment sells with a fixed duration
type Service struct {
	ID              int64
	EstablishmentID int64
	Name            string
	DurationMinutes int
	Price           float64
	FinalPrice      float64
	IsActive        bool
}

// BlockedDate closes a whole day. Recurring entries repeat every year on the same month and day.
type BlockedDate struct {
	ID              int64
	EstablishmentID int64
	Date            time.Time
	IsRecurring     bool
	Reason          *string
}

// BlockedTime closes [StartTime, EndTime) on a single date
type BlockedTime struct {
	ID              int64
	EstablishmentID int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Reason          *string
}

// Plan is the subscription of an establishment
type Plan struct {
	ID                      int64
	Name                    string
	MonthlyAppointmentLimit *int
	UnlimitedAppointments   bool
}

// MonthlyLimit returns the limit and whether it applies
func (p *Plan) MonthlyLimit() (int, bool) {
	if p == nil || p.UnlimitedAppointments || p.MonthlyAppointmentLimit == nil {
		return 0, false
	}
	return *p.MonthlyAppointmentLimit, true
}

// DiscountType of a coupon
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon gives a discount on the service price
type Coupon struct {
	ID              int64
	EstablishmentID int64
	Code            string
	DiscountType    DiscountType
	DiscountValue   float64
	IsActive        bool
	ValidFrom       *time.Time
	ValidUntil      *time.Time
	UsageLimit      *int
	UsedCount       int
}

// IsValid checks activity, validity window and usage limit
func (c *Coupon) IsValid(now time.Time) bool {
	if c == nil || !c.IsActive || c.DiscountValue <= 0 {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}

// Discount computes the discount for price, never more than the price itself
func (c *Coupon) Discount(price float64) float64 {
	if c == nil || price <= 0 {
		return 0
	}

	var discount float64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = price * math.Min(c.DiscountValue, 100) / 100
	case DiscountFixed:
		discount = c.DiscountValue
	default:
		return 0
	}

	return roundCents(math.Min(discount, price))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
