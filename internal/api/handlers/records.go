// records.go — обработчики /api/records и /api/export.
// Чтение открыто, запись и выгрузка — под административным токеном (см. server).
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/bigkaa/goartstore/catalog-module/internal/api/errors"
	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
	"github.com/bigkaa/goartstore/catalog-module/internal/service"
)

// maxRecordBody — ограничение размера JSON-тела записи.
const maxRecordBody = 1 << 20

// ListRecords — GET /api/records. Все записи, отсортированные по id.
func (h *APIHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.catalog.List(r.Context())
	if err != nil {
		h.internalError(w, "Ошибка получения списка записей", err)
		return
	}
	noStore(w)
	writeJSON(w, http.StatusOK, records)
}

// GetRecord — GET /api/records/{id}.
func (h *APIHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, "Запись не найдена")
			return
		}
		h.internalError(w, "Ошибка получения записи", err)
		return
	}
	noStore(w)
	writeJSON(w, http.StatusOK, rec)
}

// CreateRecord — POST /api/records. Upsert по id из тела.
func (h *APIHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	h.upsertRecord(w, r, nil)
}

// ReplaceRecord — PUT /api/records/{id}. id из пути заменяет id из тела.
func (h *APIHandler) ReplaceRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.upsertRecord(w, r, &id)
}

// DeleteRecord — DELETE /api/records/{id}. Отсутствие записи — removed: 0.
func (h *APIHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.catalog.Remove(r.Context(), id)
	if err != nil {
		h.internalError(w, "Ошибка удаления записи", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "removed": removed})
}

// ExportRecords — GET /api/export. Полная выгрузка записей.
func (h *APIHandler) ExportRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.catalog.ExportAll(r.Context())
	if err != nil {
		h.internalError(w, "Ошибка выгрузки записей", err)
		return
	}
	noStore(w)
	writeJSON(w, http.StatusOK, records)
}

// upsertRecord декодирует тело как произвольный JSON-объект и передаёт его в сервис.
// pathID != nil — замена по id из пути.
func (h *APIHandler) upsertRecord(w http.ResponseWriter, r *http.Request, pathID *string) {
	var raw map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordBody)).Decode(&raw); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			apierrors.PayloadTooLarge(w, "Тело запроса слишком большое")
			return
		}
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}

	var rec *model.Record
	var err error
	if pathID != nil {
		rec, err = h.catalog.Replace(r.Context(), *pathID, raw)
	} else {
		rec, err = h.catalog.Upsert(r.Context(), raw)
	}
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, err.Error())
			return
		}
		h.internalError(w, "Ошибка сохранения записи", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// internalError логирует причину и отвечает 500.
func (h *APIHandler) internalError(w http.ResponseWriter, message string, err error) {
	h.logger.Error(message, slog.String("error", err.Error()))
	apierrors.InternalError(w, message)
}
