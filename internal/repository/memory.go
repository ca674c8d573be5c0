package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
)

// memoryRepo — in-memory реализация Backend.
// Записи хранятся в порядке вставки, доступ защищён мьютексом.
type memoryRepo struct {
	mu      sync.RWMutex
	records []model.Record
	now     func() time.Time
}

// NewMemoryRepository создаёт in-memory хранилище.
// seed — начальные записи (UpdatedAt выставляется в момент создания).
func NewMemoryRepository(seed ...model.Record) Backend {
	r := &memoryRepo{now: time.Now}
	stamp := r.now().UTC()
	for _, rec := range seed {
		rec = rec.Clone()
		rec.UpdatedAt = stamp
		r.records = append(r.records, rec)
	}
	return r
}

// List возвращает копию записей, отсортированную по id.
// Порядок хранения не меняется.
func (r *memoryRepo) List(_ context.Context) ([]model.Record, error) {
	r.mu.RLock()
	out := r.snapshot()
	r.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b model.Record) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Get возвращает первую запись с указанным id или ErrNotFound.
func (r *memoryRepo) Get(_ context.Context, id string) (*model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.records {
		if r.records[i].ID == id {
			rec := r.records[i].Clone()
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}

// Upsert накладывает присутствующие поля rec поверх существующей записи
// (поля, отсутствующие в rec, сохраняются) или добавляет rec в конец.
// UpdatedAt выставляется в текущее время в обоих случаях.
func (r *memoryRepo) Upsert(_ context.Context, rec model.Record) (*model.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stamp := r.now().UTC()

	idx := slices.IndexFunc(r.records, func(x model.Record) bool { return x.ID == rec.ID })
	var out model.Record
	if idx >= 0 {
		out = rec.MergeOver(r.records[idx])
		out.UpdatedAt = stamp
		r.records[idx] = out
	} else {
		out = rec.Clone()
		if out.Tags == nil {
			out.Tags = []string{}
		}
		out.UpdatedAt = stamp
		r.records = append(r.records, out)
	}

	result := out.Clone()
	return &result, nil
}

// Remove удаляет все записи с указанным id и возвращает их количество.
func (r *memoryRepo) Remove(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.records)
	r.records = slices.DeleteFunc(r.records, func(x model.Record) bool { return x.ID == id })
	return int64(before - len(r.records)), nil
}

// ExportAll возвращает все записи в порядке вставки, без сортировки.
func (r *memoryRepo) ExportAll(_ context.Context) ([]model.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot(), nil
}

// snapshot копирует записи. Вызывается под блокировкой.
func (r *memoryRepo) snapshot() []model.Record {
	out := make([]model.Record, len(r.records))
	for i := range r.records {
		out[i] = r.records[i].Clone()
	}
	return out
}
