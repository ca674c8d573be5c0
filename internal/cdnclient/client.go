// Пакет cdnclient — HTTP-клиент Bunny Storage API для загрузки медиафайлов.
// Файл отправляется одним PUT-запросом с заголовком AccessKey.
package cdnclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxRemoteBody — сколько байт тела ответа сохраняется в RemoteError.
const maxRemoteBody = 400

// RemoteError — CDN отклонил загрузку (статус не 2xx).
type RemoteError struct {
	// StatusCode — HTTP-статус ответа CDN
	StatusCode int
	// Body — начало тела ответа (не более 400 байт)
	Body string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("CDN вернул статус %d: %s", e.StatusCode, e.Body)
}

// Client — HTTP-клиент Bunny Storage.
type Client struct {
	httpClient *http.Client
	baseURL    string
	zone       string
	accessKey  string //nolint:gosec // G101: поле структуры, не содержит секрет напрямую
	logger     *slog.Logger
}

// New создаёт клиент CDN.
// baseURL — адрес storage API (например, https://storage.bunnycdn.com).
// zone — имя storage zone, accessKey — ключ доступа к зоне.
// timeout — таймаут HTTP-запросов (CM_CDN_TIMEOUT).
func New(baseURL, zone, accessKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    normalizeURL(baseURL),
		zone:       zone,
		accessKey:  accessKey,
		logger:     logger.With(slog.String("component", "cdn_client")),
	}
}

// BaseURL возвращает адрес storage API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Put загружает body по пути objectPath внутри storage zone.
// size — длина body в байтах (-1, если неизвестна).
//
// Формат запроса: PUT {baseURL}/{zone}/{objectPath}
// При статусе не 2xx возвращается *RemoteError.
func (c *Client) Put(ctx context.Context, objectPath string, body io.Reader, size int64) error {
	reqURL := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(c.zone), strings.TrimLeft(objectPath, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, body)
	if err != nil {
		return fmt.Errorf("создание запроса Put: %w", err)
	}
	req.Header.Set("AccessKey", c.accessKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	if size >= 0 {
		req.ContentLength = size
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации CDN
	if err != nil {
		return fmt.Errorf("запрос Put к CDN: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
		c.logger.Error("CDN отклонил загрузку",
			slog.String("path", objectPath),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("Файл загружен в CDN",
		slog.String("path", objectPath),
		slog.Int64("size", size),
	)
	return nil
}

// AsRemoteError извлекает *RemoteError из цепочки ошибок.
func AsRemoteError(err error) (*RemoteError, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote, true
	}
	return nil, false
}

// normalizeURL убирает trailing slash из URL.
func normalizeURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
