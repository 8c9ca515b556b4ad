package update_booking_rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/emer5om/horaly-pro-sub000/internal/domain"
	"github.com/emer5om/horaly-pro-sub000/pkg/types"
)

// buildRules строго проверяет запрос и собирает правила для сохранения.
// Неизвестные значения политик и полей отклоняются здесь, а не при чтении.
func buildRules(req *Request) (domain.BookingRules, error) {
	var rules domain.BookingRules

	if req.EstablishmentID <= 0 {
		return rules, domain.NewValidationError("establishmentId", "must be positive")
	}

	if req.SlotsPerHour < domain.MinSlotsPerHour || req.SlotsPerHour > domain.MaxSlotsPerHour {
		return rules, domain.NewValidationError("slots_per_hour", "must be in %d..%d", domain.MinSlotsPerHour, domain.MaxSlotsPerHour)
	}
	rules.SlotsPerHour = req.SlotsPerHour

	earliest, err := domain.ParseEarliestBookingPolicy(req.EarliestBookingTime)
	if err != nil {
		return rules, err
	}
	rules.EarliestBookingTime = earliest

	latest, err := domain.ParseLatestBookingPolicy(req.LatestBookingTime)
	if err != nil {
		return rules, err
	}
	rules.LatestBookingTime = latest

	hours, err := buildWorkingHours(req.WorkingHours)
	if err != nil {
		return rules, err
	}
	rules.WorkingHours = hours

	fields, err := buildRequiredFields(req.RequiredCustomerFields)
	if err != nil {
		return rules, err
	}
	rules.RequiredCustomerFields = fields

	return rules, nil
}

// buildWorkingHours сохраняет все семь дней: отсутствующий день закрыт
func buildWorkingHours(in map[string]DayScheduleInput) (domain.WorkingHours, error) {
	byDay := make(map[domain.Weekday]DayScheduleInput, len(in))
	for key, schedule := range in {
		day := domain.Weekday(strings.ToLower(strings.TrimSpace(key)))
		if !day.IsValid() {
			return nil, domain.NewValidationError("working_hours", "unknown weekday %q", key)
		}
		byDay[day] = schedule
	}

	hours := make(domain.WorkingHours, len(domain.Weekdays))
	for _, day := range domain.Weekdays {
		schedule, ok := byDay[day]
		if !ok || !schedule.IsOpen {
			hours[day] = domain.DaySchedule{IsOpen: false}
			continue
		}

		field := fmt.Sprintf("working_hours.%s", day)

		start, err := types.NewTimeStringFromString(strings.TrimSpace(schedule.StartTime))
		if err != nil {
			return nil, domain.NewValidationError(field, "start_time must be HH:MM")
		}
		end, err := types.NewTimeStringFromString(strings.TrimSpace(schedule.EndTime))
		if err != nil {
			return nil, domain.NewValidationError(field, "end_time must be HH:MM")
		}
		if !start.IsBefore(end) {
			return nil, domain.NewValidationError(field, "start_time %s must be before end_time %s", start, end)
		}

		hours[day] = domain.DaySchedule{IsOpen: true, StartTime: start.String(), EndTime: end.String()}
	}

	return hours, nil
}

func buildRequiredFields(names []string) ([]domain.CustomerField, error) {
	if names == nil {
		return slices.Clone(domain.DefaultRequiredCustomerFields), nil
	}

	fields := make([]domain.CustomerField, 0, len(names))
	for _, name := range names {
		field, err := domain.ParseCustomerField(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		if !slices.Contains(fields, field) {
			fields = append(fields, field)
		}
	}
	return fields, nil
}
