// qrcode.go — генерация QR-кодов (PNG) для ссылок на экспонаты.
package service

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRService — генератор PNG-изображений QR-кодов.
type QRService struct {
	// scale — количество пикселей на модуль QR-кода
	scale int
}

// NewQRService создаёт генератор с указанным масштабом модуля.
func NewQRService(scale int) *QRService {
	if scale <= 0 {
		scale = 6
	}
	return &QRService{scale: scale}
}

// PNG кодирует text в QR-код (уровень коррекции Medium) и возвращает PNG.
// Пустой text — ErrValidation.
func (s *QRService) PNG(text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: параметр url обязателен", ErrValidation)
	}

	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("кодирование QR: %w", err)
	}

	// Отрицательный размер — фиксированное число пикселей на модуль.
	png, err := qr.PNG(-s.scale)
	if err != nil {
		return nil, fmt.Errorf("рендеринг QR: %w", err)
	}
	return png, nil
}
