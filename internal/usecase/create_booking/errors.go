package create_booking

import "errors"

var (
	// ErrEstablishmentNotFound возвращается, когда заведение не найдено
	ErrEstablishmentNotFound = errors.New("create_booking: establishment not found")

	// ErrConcurrentUpdate возвращается, когда транзакцию прерывали конкурирующие запросы
	// на всех попытках. Запрос можно повторить.
	ErrConcurrentUpdate = errors.New("create_booking: concurrent update, retry the request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
