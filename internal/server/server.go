// Пакет server — HTTP-сервер Catalog Module с graceful shutdown.
// Без TLS — TLS termination на внешнем прокси.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bigkaa/goartstore/catalog-module/internal/api/handlers"
	"github.com/bigkaa/goartstore/catalog-module/internal/config"
)

// Server — HTTP-сервер Catalog Module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// admin — middleware административного доступа для записи и выгрузки.
// middlewares — общие middleware (CORS, metrics, logging), добавляются в порядке переданного среза.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	handler *handlers.APIHandler,
	admin func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(handler, admin, middlewares...),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter регистрирует маршруты API.
//
//	GET    /                     — текстовый ответ доступности
//	GET    /health/live, /health/ready, /metrics
//	GET    /api/records          — список (публично)
//	GET    /api/records/{id}     — запись (публично)
//	GET    /api/qrcode?url=      — PNG QR-кода (публично)
//	POST   /api/records          — upsert (admin)
//	PUT    /api/records/{id}     — замена по id (admin)
//	DELETE /api/records/{id}     — удаление (admin)
//	GET    /api/export           — выгрузка (admin)
//	POST   /api/upload           — загрузка файла в CDN (admin)
func NewRouter(
	handler *handlers.APIHandler,
	admin func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) http.Handler {
	router := chi.NewRouter()
	router.Use(chimw.RequestID, chimw.Recoverer)

	for _, mw := range middlewares {
		router.Use(mw)
	}

	router.Get("/", handler.Root)
	router.Get("/health/live", handler.HealthLive)
	router.Get("/health/ready", handler.HealthReady)
	router.Get("/metrics", handler.GetMetrics)

	router.Route("/api", func(r chi.Router) {
		r.Get("/records", handler.ListRecords)
		r.Get("/records/{id}", handler.GetRecord)
		r.Get("/qrcode", handler.QRCode)

		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/records", handler.CreateRecord)
			r.Put("/records/{id}", handler.ReplaceRecord)
			r.Delete("/records/{id}", handler.DeleteRecord)
			r.Get("/export", handler.ExportRecords)
			r.Post("/upload", handler.Upload)
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
