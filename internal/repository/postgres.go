package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
)

// recordColumns — список столбцов catalog_records для SELECT и RETURNING.
// NULL в текстовых столбцах (строки, созданные вне сервиса) читаются как "".
const recordColumns = `id, title, COALESCE(description, ''), COALESCE(image_ref, ''),
	COALESCE(audio_ref, ''), COALESCE(video_ref, ''), COALESCE(auto_play, FALSE),
	COALESCE(tags, '{}'), COALESCE(updated_at, now())`

// postgresRepo — реализация Backend через pgx.
type postgresRepo struct {
	db DBTX
}

// NewPostgresRepository создаёт репозиторий записей поверх PostgreSQL.
func NewPostgresRepository(db DBTX) Backend {
	return &postgresRepo{db: db}
}

// List возвращает все записи, отсортированные по id.
// COLLATE "C" — побайтовое сравнение, как у in-memory хранилища.
func (r *postgresRepo) List(ctx context.Context) ([]model.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_records ORDER BY id COLLATE "C" ASC`, recordColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка записей: %w", err)
	}
	defer rows.Close()

	records := []model.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования записи: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка итерации результатов: %w", err)
	}
	return records, nil
}

// Get возвращает запись по id или ErrNotFound.
func (r *postgresRepo) Get(ctx context.Context, id string) (*model.Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM catalog_records WHERE id = $1 LIMIT 1`, recordColumns)

	rec, err := scanRecord(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи %s: %w", id, err)
	}
	return rec, nil
}

// Upsert вставляет запись или перезаписывает все столбцы существующей
// (INSERT ... ON CONFLICT DO UPDATE одним запросом). Частичные записи
// не поддерживаются: отсутствующие поля будут записаны пустыми значениями.
func (r *postgresRepo) Upsert(ctx context.Context, rec model.Record) (*model.Record, error) {
	query := fmt.Sprintf(`
		INSERT INTO catalog_records
			(id, title, description, image_ref, audio_ref, video_ref, auto_play, tags, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title,
			description = EXCLUDED.description,
			image_ref = EXCLUDED.image_ref,
			audio_ref = EXCLUDED.audio_ref,
			video_ref = EXCLUDED.video_ref,
			auto_play = EXCLUDED.auto_play,
			tags = EXCLUDED.tags,
			updated_at = now()
		RETURNING %s`, recordColumns)

	tags := rec.Tags
	if tags == nil {
		tags = []string{}
	}

	stored, err := scanRecord(r.db.QueryRow(ctx, query,
		rec.ID, rec.Title, rec.Description,
		rec.ImageRef, rec.AudioRef, rec.VideoRef,
		rec.AutoPlay, tags,
	))
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения записи %s: %w", rec.ID, err)
	}
	return stored, nil
}

// Remove удаляет запись и возвращает количество удалённых строк (0 или 1).
func (r *postgresRepo) Remove(ctx context.Context, id string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM catalog_records WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления записи %s: %w", id, err)
	}
	return tag.RowsAffected(), nil
}

// ExportAll совпадает с List.
func (r *postgresRepo) ExportAll(ctx context.Context) ([]model.Record, error) {
	return r.List(ctx)
}

// scanRecord читает одну строку в порядке recordColumns.
func scanRecord(row pgx.Row) (*model.Record, error) {
	rec := &model.Record{}
	if err := row.Scan(
		&rec.ID, &rec.Title, &rec.Description,
		&rec.ImageRef, &rec.AudioRef, &rec.VideoRef,
		&rec.AutoPlay, &rec.Tags, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, nil
}
