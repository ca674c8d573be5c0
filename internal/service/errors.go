// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrCDNNotConfigured — загрузка в CDN не настроена.
	ErrCDNNotConfigured = errors.New("CDN не настроен")
	// ErrNoFile — в запросе на загрузку нет файла.
	ErrNoFile = errors.New("отсутствует файл 'file'")
)

// CDNConfigError — незаданные переменные окружения CDN.
// errors.Is(err, ErrCDNNotConfigured) возвращает true.
type CDNConfigError struct {
	// Missing — имена незаданных переменных
	Missing []string
}

func (e *CDNConfigError) Error() string {
	return ErrCDNNotConfigured.Error() + ": " + strings.Join(e.Missing, ", ")
}

func (e *CDNConfigError) Unwrap() error {
	return ErrCDNNotConfigured
}
