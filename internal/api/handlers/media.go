// media.go — обработчики /api/qrcode и /api/upload.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/bigkaa/goartstore/catalog-module/internal/api/errors"
	"github.com/bigkaa/goartstore/catalog-module/internal/cdnclient"
	"github.com/bigkaa/goartstore/catalog-module/internal/service"
)

const (
	// multipartOverhead — запас на заголовки и поля multipart сверх размера файла.
	multipartOverhead = 1 << 20
	// multipartMemory — сколько данных формы держать в памяти, остальное во временных файлах.
	multipartMemory = 8 << 20
)

// QRCode — GET /api/qrcode?url=... PNG с QR-кодом ссылки.
// Результат зависит только от url, поэтому кэшируется бессрочно.
func (h *APIHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("url")
	if text == "" {
		apierrors.ValidationError(w, "Параметр url обязателен")
		return
	}

	png, err := h.qr.PNG(text)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.internalError(w, "Ошибка генерации QR-кода", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// Upload — POST /api/upload (multipart/form-data).
// Поля: file — содержимое, kind — категория, filename — желаемое имя.
func (h *APIHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Конфигурация проверяется до чтения тела
	if err := h.upload.CheckConfigured(); err != nil {
		h.writeUploadError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.PayloadTooLarge(w, "Файл превышает допустимый размер")
			return
		}
		apierrors.ValidationError(w, "Некорректная multipart-форма: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeUploadError(w, service.ErrNoFile)
		return
	}
	defer file.Close()

	if header.Size > h.uploadMaxBytes {
		apierrors.PayloadTooLarge(w, "Файл превышает допустимый размер")
		return
	}

	filename := r.FormValue("filename")
	if filename == "" {
		filename = header.Filename
	}

	result, err := h.upload.Upload(r.Context(), service.UploadInput{
		Kind:        r.FormValue("kind"),
		Filename:    filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Size:        header.Size,
	})
	if err != nil {
		h.writeUploadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeUploadError отображает ошибки загрузки в HTTP-ответы.
func (h *APIHandler) writeUploadError(w http.ResponseWriter, err error) {
	var cfgErr *service.CDNConfigError
	switch {
	case errors.As(err, &cfgErr):
		apierrors.CDNNotConfigured(w, cfgErr.Missing)
	case errors.Is(err, service.ErrNoFile):
		apierrors.ValidationError(w, "Отсутствует файл 'file'")
	default:
		if remote, ok := cdnclient.AsRemoteError(err); ok {
			apierrors.CDNRejected(w, remote.StatusCode, remote.Body)
			return
		}
		h.logger.Error("Ошибка загрузки в CDN", slog.String("error", err.Error()))
		apierrors.CDNUnavailable(w, "CDN недоступен")
	}
}
