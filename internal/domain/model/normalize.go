package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ключи входных данных. Второй ключ — имя поля из исходного front-end на испанском.
var (
	keysID          = []string{"id"}
	keysTitle       = []string{"title", "titulo"}
	keysDescription = []string{"description", "descripcion"}
	keysImageRef    = []string{"imageRef", "img"}
	keysAudioRef    = []string{"audioRef", "audio"}
	keysVideoRef    = []string{"videoRef", "video"}
	keysAutoPlay    = []string{"autoPlay", "lectura_auto"}
	keysTags        = []string{"tags", "etiquetas"}
)

// Normalize приводит произвольные входные данные к канонической записи.
// Никогда не возвращает ошибку: некорректные значения приводятся,
// обязательность id и title проверяет сервисный слой.
func Normalize(raw map[string]any) Record {
	return Record{
		ID:          strings.TrimSpace(stringOf(lookup(raw, keysID))),
		Title:       strings.TrimSpace(stringOf(lookup(raw, keysTitle))),
		Description: strings.TrimSpace(stringOf(lookup(raw, keysDescription))),
		ImageRef:    stringOf(lookup(raw, keysImageRef)),
		AudioRef:    stringOf(lookup(raw, keysAudioRef)),
		VideoRef:    stringOf(lookup(raw, keysVideoRef)),
		AutoPlay:    truthy(lookup(raw, keysAutoPlay)),
		Tags:        normalizeTags(lookup(raw, keysTags)),
		Fields:      AllFields,
	}
}

// lookup возвращает первое найденное значение по списку ключей.
func lookup(raw map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// normalizeTags принимает массив как есть, иначе делит строку по запятым,
// обрезает пробелы и отбрасывает пустые элементы.
func normalizeTags(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, plainString(item))
		}
		return out
	}

	out := []string{}
	for _, part := range strings.Split(stringOf(v), ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// stringOf — строковое представление значения; ложные значения дают "".
func stringOf(v any) string {
	if !truthy(v) {
		return ""
	}
	return plainString(v)
}

// plainString — строковое представление без учёта истинности.
func plainString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = plainString(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}

// truthy — истинность значения: nil, false, 0, NaN и "" ложны, остальное истинно.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	default:
		return true
	}
}
