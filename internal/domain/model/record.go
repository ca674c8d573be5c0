// Пакет model — доменные модели Catalog Module.
// Record — карточка музейного экспоната (таблица catalog_records).
package model

import (
	"slices"
	"time"
)

// Field — битовый флаг поля Record, используется для частичных записей.
type Field uint16

// Поля Record, кроме ID (ID присутствует всегда).
const (
	FieldTitle Field = 1 << iota
	FieldDescription
	FieldImageRef
	FieldAudioRef
	FieldVideoRef
	FieldAutoPlay
	FieldTags

	// AllFields — полная запись.
	AllFields = FieldTitle | FieldDescription | FieldImageRef | FieldAudioRef |
		FieldVideoRef | FieldAutoPlay | FieldTags
)

// Record — карточка экспоната.
type Record struct {
	// ID — уникальный идентификатор (первичный ключ)
	ID string `json:"id"`
	// Title — название, обязательное
	Title string `json:"title"`
	// Description — описание, может быть пустым
	Description string `json:"description"`
	// ImageRef — ссылка на изображение (URL или пусто)
	ImageRef string `json:"imageRef"`
	// AudioRef — ссылка на аудиогид
	AudioRef string `json:"audioRef"`
	// VideoRef — ссылка на видео
	VideoRef string `json:"videoRef"`
	// AutoPlay — автоматическое воспроизведение аудио
	AutoPlay bool `json:"autoPlay"`
	// Tags — упорядоченный список тегов
	Tags []string `json:"tags"`
	// UpdatedAt — время последней записи, выставляется хранилищем
	UpdatedAt time.Time `json:"updatedAt"`

	// Fields — какие поля переданы в записи. Ноль означает полную запись.
	// Учитывается только in-memory хранилищем при слиянии.
	Fields Field `json:"-"`
}

// Has сообщает, присутствует ли поле в записи.
func (r Record) Has(f Field) bool {
	return r.Fields == 0 || r.Fields&f != 0
}

// MergeOver накладывает присутствующие поля r поверх копии existing.
// ID берётся из r, UpdatedAt не трогается.
func (r Record) MergeOver(existing Record) Record {
	out := existing.Clone()
	out.ID = r.ID
	if r.Has(FieldTitle) {
		out.Title = r.Title
	}
	if r.Has(FieldDescription) {
		out.Description = r.Description
	}
	if r.Has(FieldImageRef) {
		out.ImageRef = r.ImageRef
	}
	if r.Has(FieldAudioRef) {
		out.AudioRef = r.AudioRef
	}
	if r.Has(FieldVideoRef) {
		out.VideoRef = r.VideoRef
	}
	if r.Has(FieldAutoPlay) {
		out.AutoPlay = r.AutoPlay
	}
	if r.Has(FieldTags) {
		out.Tags = slices.Clone(r.Tags)
	}
	out.Fields = existing.Fields | r.Fields
	if existing.Fields == 0 || r.Fields == 0 {
		out.Fields = 0
	}
	return out
}

// Clone возвращает копию записи с собственным срезом тегов.
func (r Record) Clone() Record {
	out := r
	if r.Tags != nil {
		out.Tags = slices.Clone(r.Tags)
	}
	return out
}

// SampleRecords — демонстрационные экспонаты для пустого in-memory хранилища.
func SampleRecords() []Record {
	return []Record{
		{
			ID:          "001",
			Title:       "Pata de vaca",
			Description: "Árbol ornamental…",
			AutoPlay:    true,
			Tags:        []string{"botánica"},
		},
		{
			ID:          "002",
			Title:       "Lapacho amarillo",
			Description: "Floración intensa…",
			Tags:        []string{"botánica"},
		},
	}
}
