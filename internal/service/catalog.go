// catalog.go — сервис каталога экспонатов.
// Фасад над активным хранилищем: нормализация, валидация, LRU-кэш и метрики.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
	"github.com/bigkaa/goartstore/catalog-module/internal/repository"
)

// Prometheus-метрики каталога.
var (
	recordUpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cm_records_upserts_total",
		Help: "Общее количество сохранённых записей (по типу хранилища).",
	}, []string{"backend"})

	recordsRemovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cm_records_removed_total",
		Help: "Общее количество удалённых записей (по типу хранилища).",
	}, []string{"backend"})

	validationErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cm_validation_errors_total",
		Help: "Количество записей, отклонённых валидацией.",
	})

	backendInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cm_backend_info",
		Help: "Активное хранилище записей (1 — выбрано).",
	}, []string{"backend"})
)

// CatalogService — сервис записей каталога.
// Хранилище привязывается один раз при создании.
type CatalogService struct {
	backend repository.Backend
	kind    repository.Kind
	cache   *CacheService
	logger  *slog.Logger
}

// NewCatalogService создаёт сервис каталога.
// cache может быть nil (кэш отключён).
func NewCatalogService(
	backend repository.Backend,
	kind repository.Kind,
	cache *CacheService,
	logger *slog.Logger,
) *CatalogService {
	backendInfo.WithLabelValues(string(kind)).Set(1)

	return &CatalogService{
		backend: backend,
		kind:    kind,
		cache:   cache,
		logger:  logger.With(slog.String("component", "catalog_service")),
	}
}

// Kind возвращает тип активного хранилища.
func (s *CatalogService) Kind() repository.Kind {
	return s.kind
}

// Upsert нормализует raw и сохраняет запись по id из тела.
// Пустые id или title после нормализации — ErrValidation, хранилище не вызывается.
func (s *CatalogService) Upsert(ctx context.Context, raw map[string]any) (*model.Record, error) {
	return s.save(ctx, model.Normalize(raw))
}

// Replace сохраняет запись под id из пути. id из тела игнорируется,
// даже если id из пути после обрезки пробелов пуст (тогда ErrValidation).
func (s *CatalogService) Replace(ctx context.Context, id string, raw map[string]any) (*model.Record, error) {
	rec := model.Normalize(raw)
	rec.ID = strings.TrimSpace(id)
	return s.save(ctx, rec)
}

func (s *CatalogService) save(ctx context.Context, rec model.Record) (*model.Record, error) {
	if err := validate(rec); err != nil {
		validationErrorsTotal.Inc()
		return nil, err
	}

	stored, err := s.backend.Upsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("сохранение записи: %w", err)
	}

	recordUpsertsTotal.WithLabelValues(string(s.kind)).Inc()
	// Кэш заполняется только при чтении
	s.cache.Delete(stored.ID)

	s.logger.Debug("Запись сохранена",
		slog.String("id", stored.ID),
		slog.String("backend", string(s.kind)),
	)
	return stored, nil
}

// Get возвращает запись по id. Сначала проверяется LRU-кэш.
// Прочитанная из хранилища запись кэшируется, только если за время чтения
// запись не изменялась и не удалялась.
func (s *CatalogService) Get(ctx context.Context, id string) (*model.Record, error) {
	if rec, ok := s.cache.Get(id); ok {
		return rec, nil
	}

	gen := s.cache.Generation()
	rec, err := s.backend.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение записи: %w", err)
	}

	s.cache.SetIfCurrent(rec, gen)
	return rec, nil
}

// List возвращает все записи, отсортированные по id.
func (s *CatalogService) List(ctx context.Context) ([]model.Record, error) {
	records, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение списка записей: %w", err)
	}
	return records, nil
}

// Remove удаляет запись и возвращает количество удалённых.
// Отсутствие записи не является ошибкой (возвращается 0).
func (s *CatalogService) Remove(ctx context.Context, id string) (int64, error) {
	removed, err := s.backend.Remove(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("удаление записи: %w", err)
	}
	s.cache.Delete(id)

	if removed > 0 {
		recordsRemovedTotal.WithLabelValues(string(s.kind)).Add(float64(removed))
		s.logger.Debug("Запись удалена",
			slog.String("id", id),
			slog.Int64("removed", removed),
		)
	}
	return removed, nil
}

// ExportAll возвращает все записи для выгрузки.
func (s *CatalogService) ExportAll(ctx context.Context) ([]model.Record, error) {
	records, err := s.backend.ExportAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("выгрузка записей: %w", err)
	}
	return records, nil
}

// validate проверяет обязательные поля.
func validate(rec model.Record) error {
	switch {
	case rec.ID == "" && rec.Title == "":
		return fmt.Errorf("%w: id и title обязательны", ErrValidation)
	case rec.ID == "":
		return fmt.Errorf("%w: id обязателен", ErrValidation)
	case rec.Title == "":
		return fmt.Errorf("%w: title обязателен", ErrValidation)
	}
	return nil
}
