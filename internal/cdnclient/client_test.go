package cdnclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// TestPut_Success проверяет формат запроса загрузки.
func TestPut_Success(t *testing.T) {
	var (
		gotMethod, gotPath, gotKey, gotType string
		gotBody                             []byte
		gotLength                           int64
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("AccessKey")
		gotType = r.Header.Get("Content-Type")
		gotLength = r.ContentLength
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"HttpCode":201,"Message":"File uploaded."}`))
	}))
	defer server.Close()

	client := New(server.URL+"/", "museo", "secret-key", 5*time.Second, testLogger())

	err := client.Put(context.Background(), "media/img/pata.jpg", strings.NewReader("jpeg-bytes"), 10)
	if err != nil {
		t.Fatalf("Put() ошибка: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("метод = %s, ожидается PUT", gotMethod)
	}
	if gotPath != "/museo/media/img/pata.jpg" {
		t.Errorf("путь = %q, ожидается /museo/media/img/pata.jpg", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("AccessKey = %q, ожидается secret-key", gotKey)
	}
	if gotType != "application/octet-stream" {
		t.Errorf("Content-Type = %q, ожидается application/octet-stream", gotType)
	}
	if gotLength != 10 {
		t.Errorf("Content-Length = %d, ожидается 10", gotLength)
	}
	if string(gotBody) != "jpeg-bytes" {
		t.Errorf("тело = %q, ожидается jpeg-bytes", gotBody)
	}
}

// TestPut_RemoteError проверяет ошибку с кодом и обрезанным телом ответа.
func TestPut_RemoteError(t *testing.T) {
	longBody := strings.Repeat("x", 1000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(longBody))
	}))
	defer server.Close()

	client := New(server.URL, "museo", "bad-key", 5*time.Second, testLogger())

	err := client.Put(context.Background(), "media/img/a.jpg", strings.NewReader("x"), 1)
	remote, ok := AsRemoteError(err)
	if !ok {
		t.Fatalf("ожидался *RemoteError, получено: %v", err)
	}
	if remote.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, ожидается 401", remote.StatusCode)
	}
	if len(remote.Body) != maxRemoteBody {
		t.Errorf("длина Body = %d, ожидается %d", len(remote.Body), maxRemoteBody)
	}
}

// TestPut_ConnectionError проверяет ошибку сети (не RemoteError).
func TestPut_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(url, "museo", "key", time.Second, testLogger())

	err := client.Put(context.Background(), "media/img/a.jpg", strings.NewReader("x"), 1)
	if err == nil {
		t.Fatal("ожидалась ошибка подключения")
	}
	if _, ok := AsRemoteError(err); ok {
		t.Error("ошибка подключения не должна быть RemoteError")
	}
}

// TestNormalizeURL проверяет удаление trailing slash.
func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://storage.bunnycdn.com/", "https://storage.bunnycdn.com"},
		{"https://storage.bunnycdn.com", "https://storage.bunnycdn.com"},
		{"http://localhost:8080//", "http://localhost:8080"},
	}

	for _, tt := range tests {
		if got := normalizeURL(tt.input); got != tt.want {
			t.Errorf("normalizeURL(%q) = %q, ожидается %q", tt.input, got, tt.want)
		}
	}
}
