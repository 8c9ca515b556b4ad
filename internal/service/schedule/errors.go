package schedule

import "errors"

var (
	// ErrEstablishmentNotFound возвращается, когда заведение с таким slug не найдено
	ErrEstablishmentNotFound = errors.New("schedule: establishment not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("schedule: internal error")
)
