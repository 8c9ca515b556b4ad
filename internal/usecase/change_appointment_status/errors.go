package change_appointment_status

import "errors"

var (
	// ErrEstablishmentNotFound возвращается, когда заведение не найдено
	ErrEstablishmentNotFound = errors.New("change_appointment_status: establishment not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец заведения
	ErrAccessDenied = errors.New("change_appointment_status: access denied")

	// ErrAppointmentNotFound возвращается, когда запись не найдена в заведении
	ErrAppointmentNotFound = errors.New("change_appointment_status: appointment not found")

	// ErrConcurrentUpdate возвращается, когда запись одновременно меняет другой запрос.
	// Запрос можно повторить.
	ErrConcurrentUpdate = errors.New("change_appointment_status: concurrent update, retry the request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("change_appointment_status: internal error")
)
