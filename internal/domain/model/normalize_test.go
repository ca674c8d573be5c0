package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalize_Tags(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want []string
	}{
		{name: "строка через запятую", raw: map[string]any{"tags": "a, b ,c"}, want: []string{"a", "b", "c"}},
		{name: "массив без изменений", raw: map[string]any{"tags": []any{"x", "y"}}, want: []string{"x", "y"}},
		{name: "массив строк без изменений", raw: map[string]any{"tags": []string{" x", "y "}}, want: []string{" x", "y "}},
		{name: "пустые элементы отбрасываются", raw: map[string]any{"tags": ",a,, ,b,"}, want: []string{"a", "b"}},
		{name: "порядок и дубликаты сохраняются", raw: map[string]any{"tags": "b,a,b"}, want: []string{"b", "a", "b"}},
		{name: "отсутствуют", raw: map[string]any{}, want: []string{}},
		{name: "null", raw: map[string]any{"tags": nil}, want: []string{}},
		{name: "число", raw: map[string]any{"tags": float64(42)}, want: []string{"42"}},
		{name: "испанский ключ", raw: map[string]any{"etiquetas": "botánica"}, want: []string{"botánica"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw).Tags
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags = %#v, ожидается %#v", got, tt.want)
			}
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	got := Normalize(map[string]any{})

	want := Record{Tags: []string{}, Fields: AllFields}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize({}) = %#v, ожидается %#v", got, want)
	}

	if nilRec := Normalize(nil); nilRec.ID != "" || nilRec.Title != "" || len(nilRec.Tags) != 0 {
		t.Errorf("Normalize(nil) = %#v, ожидается пустая запись", nilRec)
	}
}

func TestNormalize_Strings(t *testing.T) {
	got := Normalize(map[string]any{
		"id":          "  001 ",
		"title":       "\tPata de vaca\n",
		"description": "  Árbol ornamental  ",
		"imageRef":    " https://cdn.example.org/img.jpg ",
		"audioRef":    false,
		"videoRef":    nil,
	})

	if got.ID != "001" {
		t.Errorf("ID = %q, ожидается 001", got.ID)
	}
	if got.Title != "Pata de vaca" {
		t.Errorf("Title = %q, ожидается обрезанное название", got.Title)
	}
	if got.Description != "Árbol ornamental" {
		t.Errorf("Description = %q", got.Description)
	}
	// Ссылки не обрезаются и не валидируются
	if got.ImageRef != " https://cdn.example.org/img.jpg " {
		t.Errorf("ImageRef = %q, ожидается значение без изменений", got.ImageRef)
	}
	if got.AudioRef != "" || got.VideoRef != "" {
		t.Errorf("AudioRef = %q, VideoRef = %q, ожидаются пустые строки", got.AudioRef, got.VideoRef)
	}
}

func TestNormalize_Coercion(t *testing.T) {
	tests := []struct {
		name      string
		raw       map[string]any
		wantID    string
		wantTitle string
	}{
		{name: "числовой id", raw: map[string]any{"id": float64(7), "title": "X"}, wantID: "7", wantTitle: "X"},
		{name: "дробный id", raw: map[string]any{"id": 1.5}, wantID: "1.5"},
		{name: "нулевой id ложен", raw: map[string]any{"id": float64(0)}, wantID: ""},
		{name: "json.Number", raw: map[string]any{"id": json.Number("12")}, wantID: "12"},
		{name: "булев title", raw: map[string]any{"title": true}, wantTitle: "true"},
		{name: "испанский title", raw: map[string]any{"titulo": " Lapacho "}, wantTitle: "Lapacho"},
		{name: "английский ключ приоритетнее", raw: map[string]any{"title": "A", "titulo": "B"}, wantTitle: "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got.ID != tt.wantID {
				t.Errorf("ID = %q, ожидается %q", got.ID, tt.wantID)
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, ожидается %q", got.Title, tt.wantTitle)
			}
		})
	}
}

func TestNormalize_AutoPlay(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want bool
	}{
		{name: "отсутствует", val: nil, want: false},
		{name: "true", val: true, want: true},
		{name: "false", val: false, want: false},
		{name: "единица", val: float64(1), want: true},
		{name: "ноль", val: float64(0), want: false},
		{name: "непустая строка", val: "false", want: true},
		{name: "пустая строка", val: "", want: false},
		{name: "объект", val: map[string]any{}, want: true},
		{name: "пустой массив", val: []any{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(map[string]any{"autoPlay": tt.val}).AutoPlay
			if got != tt.want {
				t.Errorf("AutoPlay(%v) = %v, ожидается %v", tt.val, got, tt.want)
			}
		})
	}

	if !Normalize(map[string]any{"lectura_auto": 1.0}).AutoPlay {
		t.Error("lectura_auto должен поддерживаться как синоним autoPlay")
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := map[string]any{"id": "a", "title": "b", "tags": "x,y"}
	first := Normalize(raw)
	second := Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("повторная нормализация дала другой результат: %#v != %#v", first, second)
	}
	if _, ok := raw["tags"].(string); !ok {
		t.Error("Normalize не должен изменять входные данные")
	}
}
