// main.go — точка входа Catalog Module.
// Порядок запуска: config → logger → хранилище (PostgreSQL или in-memory) →
// сервисы → dephealth → HTTP-сервер.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/bigkaa/goartstore/catalog-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/catalog-module/internal/api/middleware"
	"github.com/bigkaa/goartstore/catalog-module/internal/cdnclient"
	"github.com/bigkaa/goartstore/catalog-module/internal/config"
	"github.com/bigkaa/goartstore/catalog-module/internal/database"
	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
	"github.com/bigkaa/goartstore/catalog-module/internal/repository"
	"github.com/bigkaa/goartstore/catalog-module/internal/server"
	"github.com/bigkaa/goartstore/catalog-module/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Catalog Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Выбор хранилища: PostgreSQL или in-memory (без повторных попыток)
	var seed []model.Record
	if cfg.SeedSample {
		seed = model.SampleRecords()
	}
	storage := repository.Open(ctx, repository.OpenOptions{
		DatabaseURL:    cfg.DatabaseURL,
		ConnectTimeout: cfg.DBConnectTimeout,
		Seed:           seed,
	}, logger)
	defer storage.Close()

	logger.Info("Хранилище записей выбрано", slog.String("backend", string(storage.Kind)))

	// 4. Сервисы
	cache := service.NewCacheService(cfg.CacheSize, cfg.CacheTTL)
	catalog := service.NewCatalogService(storage.Backend, storage.Kind, cache, logger)
	qr := service.NewQRService(cfg.QRScale)

	cdnBaseURL := ""
	var store service.ObjectStore
	if cfg.CDNConfigured() {
		cdnBaseURL = "https://" + cfg.BunnyStorageHost
		store = cdnclient.New(cdnBaseURL, cfg.BunnyStorageZone, cfg.BunnyAPIKey, cfg.CDNTimeout, logger)
	} else {
		logger.Warn("CDN не настроен, /api/upload недоступен",
			slog.Any("missing", cfg.MissingCDNSettings()),
		)
	}
	upload := service.NewUploadService(store, cfg.BunnyPullZoneHost, cfg.MissingCDNSettings(), logger)

	// 5. Мониторинг зависимостей (необязательный: ошибка только логируется)
	var dbChecker handlers.ReadinessChecker
	dhOpts := service.DephealthOptions{
		ServiceID:     "catalog-module",
		Group:         cfg.DephealthGroup,
		CDNURL:        cdnBaseURL,
		CheckInterval: cfg.DephealthCheckInterval,
	}
	if storage.Pool != nil {
		dbChecker = database.NewReadinessChecker(storage.Pool)

		sqlDB := stdlib.OpenDBFromPool(storage.Pool)
		defer sqlDB.Close()
		dhOpts.DB = sqlDB
		dhOpts.PostgresURL = cfg.DatabaseURL
	}

	dh, err := service.NewDephealthService(dhOpts, logger)
	switch {
	case errors.Is(err, service.ErrNoDependencies):
		logger.Debug("Мониторинг зависимостей не требуется")
	case err != nil:
		logger.Warn("Мониторинг зависимостей не запущен", slog.String("error", err.Error()))
	default:
		if err := dh.Start(ctx); err != nil {
			logger.Warn("Ошибка запуска мониторинга зависимостей", slog.String("error", err.Error()))
		} else {
			defer dh.Stop()
		}
	}

	// 6. HTTP-обработчики
	healthHandler := handlers.NewHealthHandler(string(storage.Kind), dbChecker)
	apiHandler := handlers.NewAPIHandler(healthHandler, catalog, qr, upload, cfg.UploadMaxBytes, logger)

	// 7. HTTP-сервер: CORS → metrics → logging, админский токен на запись
	srv := server.New(cfg, logger, apiHandler,
		middleware.AdminToken(cfg.AdminToken, logger),
		middleware.CORS(cfg.AllowOrigins),
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	)
	if cfg.AdminToken == "" {
		logger.Warn("CM_ADMIN_TOKEN не задан, запись и выгрузка отключены (501)")
	}

	// 8. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		cancel()
		log.Fatalf("Сервер завершился с ошибкой: %v", err) //nolint:gocritic // defer-вызовы не критичны при аварийном выходе
	}

	logger.Info("Catalog Module остановлен")
}
