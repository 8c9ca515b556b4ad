package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode"
)

// Customer is identified globally by phone and linked to the establishments it booked with
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     *string
	BirthDate *time.Time
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CustomerInput is what the booking form submits
type CustomerInput struct {
	Name      string
	Phone     string
	Email     *string
	BirthDate *time.Time
	Notes     *string
}

// CustomerField is a form field an establishment may mark as required
type CustomerField string

const (
	FieldName      CustomerField = "name"
	FieldEmail     CustomerField = "email"
	FieldBirthDate CustomerField = "birth_date"
	FieldNotes     CustomerField = "notes"
)

// DefaultRequiredCustomerFields is used when the establishment did not configure the list
var DefaultRequiredCustomerFields = []CustomerField{FieldName}

type customerFieldRule struct {
	field    CustomerField
	present  func(in *CustomerInput) bool
	validate func(in *CustomerInput) string
}

// customerFieldRules: presence check plus format check applied whenever the value is given
var customerFieldRules = []customerFieldRule{
	{
		field:   FieldName,
		present: func(in *CustomerInput) bool { return strings.TrimSpace(in.Name) != "" },
		validate: func(in *CustomerInput) string {
			if len(in.Name) > MaxCustomerNameLength {
				return "is too long"
			}
			return ""
		},
	},
	{
		field:   FieldEmail,
		present: func(in *CustomerInput) bool { return in.Email != nil && strings.TrimSpace(*in.Email) != "" },
		validate: func(in *CustomerInput) string {
			if _, err := mail.ParseAddress(strings.TrimSpace(*in.Email)); err != nil {
				return "is not a valid email address"
			}
			return ""
		},
	},
	{
		field:   FieldBirthDate,
		present: func(in *CustomerInput) bool { return in.BirthDate != nil && !in.BirthDate.IsZero() },
		validate: func(in *CustomerInput) string {
			if in.BirthDate.After(time.Now()) {
				return "must be in the past"
			}
			return ""
		},
	},
	{
		field:   FieldNotes,
		present: func(in *CustomerInput) bool { return in.Notes != nil && strings.TrimSpace(*in.Notes) != "" },
		validate: func(in *CustomerInput) string {
			if len(*in.Notes) > MaxNotesLength {
				return "is too long"
			}
			return ""
		},
	},
}

// ParseCustomerField validates a field name
func ParseCustomerField(s string) (CustomerField, error) {
	for _, rule := range customerFieldRules {
		if string(rule.field) == s {
			return rule.field, nil
		}
	}
	return "", NewValidationError("required_customer_fields", "unknown field %q", s)
}

// ValidateCustomerInput checks the phone, the fields the establishment requires
// and the format of every optional field that was filled in
func ValidateCustomerInput(in *CustomerInput, required []CustomerField) error {
	digits := NormalizePhone(in.Phone)
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return NewValidationError("phone", "must contain %d to %d digits", MinPhoneDigits, MaxPhoneDigits)
	}

	if required == nil {
		required = DefaultRequiredCustomerFields
	}

	for _, rule := range customerFieldRules {
		if !rule.present(in) {
			if containsField(required, rule.field) {
				return NewValidationError(string(rule.field), "is required")
			}
			continue
		}
		if msg := rule.validate(in); msg != "" {
			return NewValidationError(string(rule.field), "%s", msg)
		}
	}

	return nil
}

// NormalizePhone keeps only digits so the same number always maps to one customer
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsField(fields []CustomerField, f CustomerField) bool {
	for _, x := range fields {
		if x == f {
			return true
		}
	}
	return false
}
