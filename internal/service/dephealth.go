// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Catalog Module мониторит:
//   - PostgreSQL — SQL checker через существующий pgxpool (только для durable хранилища, critical)
//   - Bunny Storage — HTTP checker к storage API (только если CDN настроен, non-critical)
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // регистрация HTTP checker factory
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoDependencies — нечего мониторить (in-memory хранилище и CDN не настроен).
var ErrNoDependencies = errors.New("нет зависимостей для мониторинга")

// DephealthOptions — параметры мониторинга зависимостей.
type DephealthOptions struct {
	// ServiceID — имя вершины графа текущего приложения
	ServiceID string
	// Group — имя группы в метриках (CM_DEPHEALTH_GROUP)
	Group string
	// DB — *sql.DB из pgxpool (stdlib.OpenDBFromPool), nil для in-memory хранилища
	DB *sql.DB
	// PostgresURL — URL PostgreSQL (для лейблов, не для подключения)
	PostgresURL string
	// CDNURL — адрес storage API, пусто — CDN не мониторится
	CDNURL string
	// CheckInterval — интервал проверки (CM_DEPHEALTH_CHECK_INTERVAL)
	CheckInterval time.Duration
	// Registerer — Prometheus registerer, nil — глобальный
	Registerer prometheus.Registerer
}

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Если ни одной зависимости нет, возвращает ErrNoDependencies.
//
// Для PostgreSQL используется connection pool mode: проверка идёт через
// *sql.DB поверх существующего pgxpool.
func NewDephealthService(opts DephealthOptions, logger *slog.Logger) (*DephealthService, error) {
	dhOpts := []dephealth.Option{dephealth.WithLogger(logger)}
	if opts.Registerer != nil {
		dhOpts = append(dhOpts, dephealth.WithRegisterer(opts.Registerer))
	}

	deps := 0
	if opts.DB != nil {
		dhOpts = append(dhOpts, dephealth.AddDependency("postgresql", dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(opts.DB)),
			dephealth.FromURL(opts.PostgresURL),
			dephealth.CheckInterval(opts.CheckInterval),
			dephealth.Critical(true),
		))
		deps++
	}

	if opts.CDNURL != "" {
		cdnOpts := []dephealth.DependencyOption{
			dephealth.FromURL(opts.CDNURL),
			dephealth.WithHTTPHealthPath("/"),
			dephealth.CheckInterval(opts.CheckInterval),
			dephealth.Critical(false),
		}
		if parsed, err := url.Parse(opts.CDNURL); err == nil && parsed.Scheme == "https" {
			cdnOpts = append(cdnOpts, dephealth.WithHTTPTLSSkipVerify(false))
		}
		dhOpts = append(dhOpts, dephealth.HTTP("bunny-storage", cdnOpts...))
		deps++
	}

	if deps == 0 {
		return nil, ErrNoDependencies
	}

	dh, err := dephealth.New(opts.ServiceID, opts.Group, dhOpts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
