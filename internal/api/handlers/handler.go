// handler.go — основной обработчик API Catalog Module.
// Объединяет health, записи каталога, QR-коды и загрузку медиафайлов.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/goartstore/catalog-module/internal/service"
)

// APIHandler — основной обработчик API Catalog Module.
// Делегирует запросы в сервисный слой.
type APIHandler struct {
	health         *HealthHandler
	catalog        *service.CatalogService
	qr             *service.QRService
	upload         *service.UploadService
	uploadMaxBytes int64
	logger         *slog.Logger
}

// NewAPIHandler создаёт основной обработчик API.
// uploadMaxBytes — ограничение размера файла в /api/upload.
func NewAPIHandler(
	health *HealthHandler,
	catalog *service.CatalogService,
	qr *service.QRService,
	upload *service.UploadService,
	uploadMaxBytes int64,
	logger *slog.Logger,
) *APIHandler {
	return &APIHandler{
		health:         health,
		catalog:        catalog,
		qr:             qr,
		upload:         upload,
		uploadMaxBytes: uploadMaxBytes,
		logger:         logger.With(slog.String("component", "api_handler")),
	}
}

// --- Health endpoints (делегируются в HealthHandler) ---

// HealthLive — liveness probe.
func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

// HealthReady — readiness probe.
func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

// GetMetrics — Prometheus метрики.
func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

// Root — GET /. Текстовый ответ для проверки доступности.
func (h *APIHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK Catalog API"))
}

// --- Вспомогательные функции ---

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// noStore запрещает кэширование ответа клиентом и прокси.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}
