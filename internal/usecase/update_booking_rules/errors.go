package update_booking_rules

import "errors"

var (
	// ErrEstablishmentNotFound возвращается, когда заведение не найдено
	ErrEstablishmentNotFound = errors.New("update_booking_rules: establishment not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец заведения
	ErrAccessDenied = errors.New("update_booking_rules: access denied")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking_rules: internal error")
)
