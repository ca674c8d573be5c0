package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/bigkaa/goartstore/catalog-module/internal/domain/model"
)

// clockSkew — допуск на расхождение часов теста и PostgreSQL в контейнере.
const clockSkew = 2 * time.Second

// runBackendContract проверяет общий контракт Backend.
// Одинаковые проверки выполняются для in-memory и PostgreSQL реализаций.
func runBackendContract(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Helper()

	t.Run("upsert затем get возвращает те же поля", func(t *testing.T) {
		repo := newBackend(t)
		ctx := context.Background()

		rec := model.Normalize(map[string]any{
			"id":          "001",
			"title":       "Pata de vaca",
			"description": "Árbol ornamental",
			"imageRef":    "https://cdn.example.org/media/img/pata.jpg",
			"audioRef":    "https://cdn.example.org/media/audio/pata.mp3",
			"autoPlay":    true,
			"tags":        "botánica, árbol",
		})

		before := time.Now()
		stored, err := repo.Upsert(ctx, rec)
		if err != nil {
			t.Fatalf("Upsert() ошибка: %v", err)
		}
		if stored.UpdatedAt.Before(before.Add(-clockSkew)) {
			t.Errorf("UpdatedAt = %v, ожидается >= %v", stored.UpdatedAt, before)
		}

		got, err := repo.Get(ctx, "001")
		if err != nil {
			t.Fatalf("Get() ошибка: %v", err)
		}
		assertSameFields(t, got, &rec)
		if !got.UpdatedAt.Equal(stored.UpdatedAt) {
			t.Errorf("Get().UpdatedAt = %v, Upsert вернул %v", got.UpdatedAt, stored.UpdatedAt)
		}
	})

	t.Run("get отсутствующей записи возвращает ErrNotFound", func(t *testing.T) {
		repo := newBackend(t)
		if _, err := repo.Get(context.Background(), "missing"); err != ErrNotFound {
			t.Errorf("Get() ошибка = %v, ожидается ErrNotFound", err)
		}
	})

	t.Run("remove возвращает 1, затем 0", func(t *testing.T) {
		repo := newBackend(t)
		ctx := context.Background()

		if _, err := repo.Upsert(ctx, model.Normalize(map[string]any{"id": "r1", "title": "T"})); err != nil {
			t.Fatalf("Upsert() ошибка: %v", err)
		}

		n, err := repo.Remove(ctx, "r1")
		if err != nil || n != 1 {
			t.Fatalf("Remove() = %d, %v; ожидается 1, nil", n, err)
		}
		if _, err := repo.Get(ctx, "r1"); err != ErrNotFound {
			t.Errorf("после Remove ожидался ErrNotFound, получено: %v", err)
		}

		n, err = repo.Remove(ctx, "r1")
		if err != nil || n != 0 {
			t.Errorf("повторный Remove() = %d, %v; ожидается 0, nil", n, err)
		}
	})

	t.Run("list отсортирован по id при любом порядке вставки", func(t *testing.T) {
		repo := newBackend(t)
		ctx := context.Background()

		for _, id := range []string{"010", "002", "b", "001", "A"} {
			if _, err := repo.Upsert(ctx, model.Normalize(map[string]any{"id": id, "title": "T-" + id})); err != nil {
				t.Fatalf("Upsert(%s) ошибка: %v", id, err)
			}
		}

		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() ошибка: %v", err)
		}
		want := []string{"001", "002", "010", "A", "b"}
		if got := ids(list); !reflect.DeepEqual(got, want) {
			t.Errorf("List() ids = %v, ожидается %v", got, want)
		}

		exported, err := repo.ExportAll(ctx)
		if err != nil {
			t.Fatalf("ExportAll() ошибка: %v", err)
		}
		if len(exported) != len(want) {
			t.Errorf("ExportAll() вернул %d записей, ожидается %d", len(exported), len(want))
		}
	})

	t.Run("повторный upsert оставляет одну запись", func(t *testing.T) {
		repo := newBackend(t)
		ctx := context.Background()
		rec := model.Normalize(map[string]any{"id": "dup", "title": "Same"})

		first, err := repo.Upsert(ctx, rec)
		if err != nil {
			t.Fatalf("Upsert() ошибка: %v", err)
		}
		second, err := repo.Upsert(ctx, rec)
		if err != nil {
			t.Fatalf("повторный Upsert() ошибка: %v", err)
		}
		if second.UpdatedAt.Before(first.UpdatedAt) {
			t.Errorf("UpdatedAt уменьшился: %v < %v", second.UpdatedAt, first.UpdatedAt)
		}

		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List() ошибка: %v", err)
		}
		if len(list) != 1 || list[0].ID != "dup" {
			t.Errorf("List() = %v, ожидается одна запись dup", ids(list))
		}
	})

	t.Run("чтение не меняет UpdatedAt", func(t *testing.T) {
		repo := newBackend(t)
		ctx := context.Background()

		stored, err := repo.Upsert(ctx, model.Normalize(map[string]any{"id": "ro", "title": "T"}))
		if err != nil {
			t.Fatalf("Upsert() ошибка: %v", err)
		}
		for range 3 {
			got, err := repo.Get(ctx, "ro")
			if err != nil {
				t.Fatalf("Get() ошибка: %v", err)
			}
			if !got.UpdatedAt.Equal(stored.UpdatedAt) {
				t.Fatalf("Get() изменил UpdatedAt: %v != %v", got.UpdatedAt, stored.UpdatedAt)
			}
		}
	})

	t.Run("сценарий 001 Pata de vaca", func(t *testing.T) {
		repo := newBackend(t)
		ctx := context.Background()

		rec := model.Normalize(map[string]any{"id": "001", "title": "Pata de vaca", "tags": "botánica"})
		if _, err := repo.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert() ошибка: %v", err)
		}

		got, err := repo.Get(ctx, "001")
		if err != nil {
			t.Fatalf("Get() ошибка: %v", err)
		}
		want := &model.Record{ID: "001", Title: "Pata de vaca", Tags: []string{"botánica"}}
		assertSameFields(t, got, want)
		if time.Since(got.UpdatedAt) > time.Minute+clockSkew {
			t.Errorf("UpdatedAt = %v, ожидается недавнее время", got.UpdatedAt)
		}
	})
}

// assertSameFields сравнивает все поля записи, кроме UpdatedAt и Fields.
func assertSameFields(t *testing.T, got, want *model.Record) {
	t.Helper()
	g, w := *got, *want
	g.UpdatedAt, w.UpdatedAt = time.Time{}, time.Time{}
	g.Fields, w.Fields = 0, 0
	if len(g.Tags) == 0 && len(w.Tags) == 0 {
		g.Tags, w.Tags = nil, nil
	}
	if !reflect.DeepEqual(g, w) {
		t.Errorf("запись = %#v, ожидается %#v", g, w)
	}
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
