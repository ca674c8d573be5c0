// Пакет repository — слой доступа к записям каталога.
// Две взаимозаменяемые реализации Backend: PostgreSQL (чистый SQL через pgx, без ORM)
// и in-memory хранилище на время жизни процесса. Выбор выполняется один раз при старте (Open).
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
)

// Ошибки слоя репозиториев.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
)

// Kind — тип активного хранилища.
type Kind string

const (
	// KindPostgres — долговременное хранилище PostgreSQL.
	KindPostgres Kind = "postgres"
	// KindMemory — in-memory хранилище, теряется при рестарте.
	KindMemory Kind = "memory"
)

// Backend — хранилище записей каталога.
//
// Политика записи различается между реализациями:
// PostgreSQL всегда перезаписывает все столбцы, in-memory накладывает
// присутствующие поля поверх существующей записи.
type Backend interface {
	// List возвращает все записи, отсортированные по id.
	List(ctx context.Context) ([]model.Record, error)
	// Get возвращает запись по id или ErrNotFound.
	Get(ctx context.Context, id string) (*model.Record, error)
	// Upsert создаёт или обновляет запись и возвращает сохранённое значение
	// с обновлённым UpdatedAt.
	Upsert(ctx context.Context, rec model.Record) (*model.Record, error)
	// Remove удаляет запись и возвращает количество удалённых (отсутствие — не ошибка).
	Remove(ctx context.Context, id string) (int64, error)
	// ExportAll возвращает все записи для выгрузки.
	ExportAll(ctx context.Context) ([]model.Record, error)
}

// DBTX — интерфейс для выполнения SQL-запросов.
// Реализуется как *pgxpool.Pool, так и pgx.Tx, что позволяет
// использовать репозитории как внутри, так и вне транзакций.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
