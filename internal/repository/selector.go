// selector.go — выбор хранилища при старте.
// PostgreSQL используется, только если URL имеет схему postgres:// и
// подключение с миграциями прошло успешно. Иначе — in-memory хранилище
// до конца жизни процесса, без повторных попыток.
package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bigkaa/goartstore/catalog-module/internal/database"
	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
)

// OpenOptions — параметры выбора хранилища.
type OpenOptions struct {
	// DatabaseURL — URL PostgreSQL (CM_DATABASE_URL)
	DatabaseURL string
	// ConnectTimeout — ограничение на подключение, ping и миграции
	ConnectTimeout time.Duration
	// Seed — начальные записи in-memory хранилища
	Seed []model.Record
}

// Selection — результат выбора хранилища.
type Selection struct {
	// Backend — активное хранилище, привязывается один раз
	Backend Backend
	// Kind — тип активного хранилища
	Kind Kind
	// Pool — пул подключений PostgreSQL (nil для in-memory)
	Pool *pgxpool.Pool
}

// Close освобождает пул подключений, если он был открыт.
func (s *Selection) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// Open выбирает хранилище. Никогда не возвращает ошибку: сбой подключения
// или миграций логируется, и возвращается in-memory хранилище.
func Open(ctx context.Context, opts OpenOptions, logger *slog.Logger) *Selection {
	if !database.IsPostgresURL(opts.DatabaseURL) {
		logger.Info("CM_DATABASE_URL не задан или не PostgreSQL, используется in-memory хранилище")
		return memorySelection(opts)
	}

	pool, err := openPostgres(ctx, opts, logger)
	if err != nil {
		logger.Warn("PostgreSQL недоступен, переключение на in-memory хранилище",
			slog.String("error", err.Error()),
		)
		return memorySelection(opts)
	}

	return &Selection{
		Backend: NewPostgresRepository(pool),
		Kind:    KindPostgres,
		Pool:    pool,
	}
}

// openPostgres подключается к PostgreSQL и применяет миграции.
// Подключение и миграции вместе ограничены ConnectTimeout.
// При ошибке миграций пул закрывается.
func openPostgres(ctx context.Context, opts OpenOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := database.Connect(probeCtx, opts.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(probeCtx, opts.DatabaseURL, logger); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func memorySelection(opts OpenOptions) *Selection {
	return &Selection{
		Backend: NewMemoryRepository(opts.Seed...),
		Kind:    KindMemory,
	}
}
