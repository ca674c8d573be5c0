// Пакет errors — конструкторы стандартных ошибок Catalog API.
// Единый формат: {"error": {"code": "...", "message": "...", "details": {...}}}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок API.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeAdminDisabled    = "ADMIN_DISABLED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeCDNNotConfigured = "CDN_NOT_CONFIGURED"
	CodeCDNRejected      = "CDN_REJECTED"
	CodeCDNUnavailable   = "CDN_UNAVAILABLE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки.
type errorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	WriteErrorDetails(w, statusCode, code, message, nil)
}

// WriteErrorDetails — WriteError с дополнительными полями в details.
func WriteErrorDetails(w http.ResponseWriter, statusCode int, code, message string, details map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Unauthorized — 401 требуется аутентификация.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden — 403 недостаточно прав.
func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

// AdminDisabled — 501 административный токен не настроен.
func AdminDisabled(w http.ResponseWriter) {
	WriteError(w, http.StatusNotImplemented, CodeAdminDisabled, "Административный доступ отключён: CM_ADMIN_TOKEN не задан")
}

// PayloadTooLarge — 413 превышен размер тела запроса.
func PayloadTooLarge(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, message)
}

// CDNNotConfigured — 500 не заданы переменные окружения CDN.
func CDNNotConfigured(w http.ResponseWriter, missing []string) {
	WriteErrorDetails(w, http.StatusInternalServerError, CodeCDNNotConfigured,
		"CDN не настроен", map[string]any{"missing": missing})
}

// CDNRejected — CDN отклонил загрузку. Статус ответа совпадает со статусом CDN,
// если это 4xx/5xx, иначе 502.
func CDNRejected(w http.ResponseWriter, bunnyStatus int, bunnyBody string) {
	status := bunnyStatus
	if status < 400 || status > 599 {
		status = http.StatusBadGateway
	}
	WriteErrorDetails(w, status, CodeCDNRejected, "CDN отклонил загрузку",
		map[string]any{"bunnyStatus": bunnyStatus, "bunnyBody": bunnyBody})
}

// CDNUnavailable — 502 CDN недоступен.
func CDNUnavailable(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeCDNUnavailable, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
