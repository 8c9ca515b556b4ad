package rules

import "errors"

var (
	// ErrEstablishmentNotFound возвращается, когда заведение не найдено
	ErrEstablishmentNotFound = errors.New("rules: establishment not found")

	// ErrAccessDenied возвращается, когда пользователь не владелец заведения
	ErrAccessDenied = errors.New("rules: access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rules: internal error")
)
