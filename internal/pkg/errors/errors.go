package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись участника (или другой ресурс) не найдена.
	// Это штатный исход: вызывающая сторона предлагает участнику зарегистрироваться.
	ErrNotFound = errors.New("record not found")

	// ErrStorage используется, когда запись или чтение с диска не удались (права, место, I/O).
	// Операция прерывается, частичное состояние не фиксируется.
	ErrStorage = errors.New("storage failure")

	// ErrDeserialization используется, когда сохранённая запись повреждена или не проходит валидацию.
	ErrDeserialization = errors.New("record is corrupt or unreadable")

	// ErrUnauthorized используется для ошибок авторизации (нет сессии, неверный токен исследователя).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная отправка pre-test).
	ErrConflict = errors.New("resource state conflict")
)
