// upload.go — загрузка медиафайлов экспонатов в CDN.
// Файл кладётся в storage zone по пути media/{kind}/{name},
// в ответ возвращается публичный URL через pull zone.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/goartstore/catalog-module/internal/cdnclient"
)

// defaultKind — категория медиафайла по умолчанию.
const defaultKind = "img"

var (
	kindDisallowed     = regexp.MustCompile(`[^a-z]`)
	filenameDisallowed = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// Prometheus-метрики загрузок.
var cdnUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cm_cdn_uploads_total",
	Help: "Общее количество загрузок в CDN (по статусу).",
}, []string{"status"})

// ObjectStore — хранилище объектов CDN. Реализуется cdnclient.Client.
type ObjectStore interface {
	Put(ctx context.Context, objectPath string, body io.Reader, size int64) error
}

// UploadInput — параметры загрузки.
type UploadInput struct {
	// Kind — категория (img, audio, video ...), пусто — img
	Kind string
	// Filename — желаемое имя файла, пусто — сгенерированное
	Filename string
	// ContentType — MIME-тип файла, источник расширения для имени без точки
	ContentType string
	// Body — содержимое файла
	Body io.Reader
	// Size — размер в байтах (-1, если неизвестен)
	Size int64
}

// UploadResult — результат загрузки (JSON-ответ API).
type UploadResult struct {
	OK     bool   `json:"ok"`
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	CDNURL string `json:"cdnUrl"`
}

// UploadService — сервис загрузки файлов в CDN.
type UploadService struct {
	store        ObjectStore
	pullZoneHost string
	missing      []string
	newName      func() string
	logger       *slog.Logger
}

// NewUploadService создаёт сервис загрузки.
// missing — незаданные переменные окружения CDN; если список не пуст,
// любая загрузка завершается CDNConfigError, store может быть nil.
func NewUploadService(store ObjectStore, pullZoneHost string, missing []string, logger *slog.Logger) *UploadService {
	return &UploadService{
		store:        store,
		pullZoneHost: strings.TrimRight(pullZoneHost, "/"),
		missing:      missing,
		newName:      func() string { return uuid.NewString() },
		logger:       logger.With(slog.String("component", "upload_service")),
	}
}

// CheckConfigured возвращает *CDNConfigError, если CDN не настроен.
func (s *UploadService) CheckConfigured() error {
	if len(s.missing) > 0 || s.store == nil {
		return &CDNConfigError{Missing: s.missing}
	}
	return nil
}

// Upload загружает файл в CDN.
// Ошибка отказа CDN (*cdnclient.RemoteError) возвращается в цепочке без изменений.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if err := s.CheckConfigured(); err != nil {
		return nil, err
	}
	if in.Body == nil {
		return nil, ErrNoFile
	}

	kind := SanitizeKind(in.Kind)
	name := s.objectName(in.Filename, in.ContentType)
	objectPath := "media/" + kind + "/" + name

	if err := s.store.Put(ctx, objectPath, in.Body, in.Size); err != nil {
		status := "error"
		if _, ok := cdnclient.AsRemoteError(err); ok {
			status = "rejected"
		}
		cdnUploadsTotal.WithLabelValues(status).Inc()
		return nil, fmt.Errorf("загрузка %s в CDN: %w", objectPath, err)
	}
	cdnUploadsTotal.WithLabelValues("ok").Inc()

	s.logger.Info("Файл загружен",
		slog.String("path", objectPath),
		slog.Int64("size", in.Size),
	)

	return &UploadResult{
		OK:     true,
		Kind:   kind,
		Path:   objectPath,
		CDNURL: "https://" + s.pullZoneHost + "/" + objectPath,
	}, nil
}

// objectName очищает имя файла и при отсутствии точки добавляет расширение из MIME-типа.
func (s *UploadService) objectName(filename, contentType string) string {
	name := SanitizeFilename(filename)
	if name == "" {
		name = s.newName()
	}
	if !strings.Contains(name, ".") {
		if ext := extFromContentType(contentType); ext != "" {
			name += "." + ext
		}
	}
	return name
}

// SanitizeKind оставляет в категории только a-z. Пустой результат — img.
func SanitizeKind(kind string) string {
	kind = kindDisallowed.ReplaceAllString(kind, "")
	if kind == "" {
		return defaultKind
	}
	return kind
}

// SanitizeFilename заменяет символы вне [a-zA-Z0-9._-] на "_".
// Имена "." и ".." считаются пустыми.
func SanitizeFilename(filename string) string {
	name := filenameDisallowed.ReplaceAllString(strings.TrimSpace(filename), "_")
	if name == "." || name == ".." {
		return ""
	}
	return name
}

// extFromContentType возвращает подтип MIME без параметров: "image/jpeg; q=1" → "jpeg".
func extFromContentType(contentType string) string {
	_, subtype, ok := strings.Cut(contentType, "/")
	if !ok {
		return ""
	}
	subtype, _, _ = strings.Cut(subtype, ";")
	return filenameDisallowed.ReplaceAllString(strings.TrimSpace(subtype), "_")
}
