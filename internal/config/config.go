// Пакет config — загрузка и валидация конфигурации Catalog Module
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// DevOrigin — origin локального front-end, всегда добавляется в CORS allow-list.
const DevOrigin = "http://localhost:5500"

// Config содержит все параметры конфигурации Catalog Module.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	// Таймаут чтения HTTP-сервера (по умолчанию 30s)
	HTTPReadTimeout time.Duration
	// Таймаут записи HTTP-сервера (по умолчанию 60s)
	HTTPWriteTimeout time.Duration
	// Таймаут простоя HTTP-сервера (по умолчанию 120s)
	HTTPIdleTimeout time.Duration

	// --- Хранилище записей ---

	// URL PostgreSQL. Если не начинается с postgres:// или postgresql:// —
	// используется in-memory хранилище.
	DatabaseURL string
	// Таймаут подключения и миграций при старте
	DBConnectTimeout time.Duration
	// Заполнить in-memory хранилище демонстрационными записями
	SeedSample bool

	// --- Кэш чтения ---

	// Максимальное количество записей в LRU-кэше (0 — кэш отключён)
	CacheSize int
	// Время жизни записи в кэше
	CacheTTL time.Duration

	// --- Доступ ---

	// Bearer-токен администратора. Пустой — админские endpoints отключены (501).
	AdminToken string
	// Разрешённые CORS origins (без завершающего слеша)
	AllowOrigins []string

	// --- QR ---

	// Размер модуля QR-кода в пикселях
	QRScale int

	// --- CDN (Bunny Storage) ---

	// Имя storage zone
	BunnyStorageZone string
	// Хост Storage API (без схемы)
	BunnyStorageHost string
	// AccessKey для Storage API
	BunnyAPIKey string
	// Хост pull zone для публичных ссылок (без схемы и завершающего слеша)
	BunnyPullZoneHost string
	// Максимальный размер загружаемого файла в байтах
	UploadMaxBytes int64
	// Таймаут HTTP-запросов к CDN
	CDNTimeout time.Duration

	// --- topologymetrics ---

	// Группа в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown (по умолчанию 5s)
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// CM_PORT — порт HTTP-сервера (по умолчанию 3000)
	cfg.Port, err = getEnvInt("CM_PORT", 3000)
	if err != nil {
		return nil, fmt.Errorf("CM_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("CM_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// CM_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("CM_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("CM_LOG_LEVEL: %w", err)
	}

	// CM_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("CM_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CM_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("CM_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CM_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("CM_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CM_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("CM_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CM_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Хранилище записей ---

	// CM_DATABASE_URL — необязательный, без него работаем в памяти
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("CM_DATABASE_URL"))

	// CM_DB_CONNECT_TIMEOUT — ограничение на подключение при старте (по умолчанию 5s)
	cfg.DBConnectTimeout, err = getEnvDurationPositive("CM_DB_CONNECT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CM_DB_CONNECT_TIMEOUT: %w", err)
	}

	cfg.SeedSample, err = getEnvBool("CM_SEED_SAMPLE", false)
	if err != nil {
		return nil, fmt.Errorf("CM_SEED_SAMPLE: %w", err)
	}

	// --- Кэш чтения ---

	cfg.CacheSize, err = getEnvInt("CM_CACHE_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("CM_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("CM_CACHE_SIZE: значение должно быть >= 0")
	}
	cfg.CacheTTL, err = getEnvDurationPositive("CM_CACHE_TTL", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("CM_CACHE_TTL: %w", err)
	}

	// --- Доступ ---

	cfg.AdminToken = os.Getenv("CM_ADMIN_TOKEN")
	cfg.AllowOrigins = parseOrigins(os.Getenv("CM_ALLOW_ORIGINS"))

	// --- QR ---

	cfg.QRScale, err = getEnvInt("CM_QR_SCALE", 6)
	if err != nil {
		return nil, fmt.Errorf("CM_QR_SCALE: %w", err)
	}
	if cfg.QRScale < 1 || cfg.QRScale > 64 {
		return nil, fmt.Errorf("CM_QR_SCALE: значение %d вне допустимого диапазона 1-64", cfg.QRScale)
	}

	// --- CDN ---

	cfg.BunnyStorageZone = os.Getenv("CM_BUNNY_STORAGE_ZONE")
	cfg.BunnyStorageHost = stripScheme(getEnvDefault("CM_BUNNY_STORAGE_HOST", "storage.bunnycdn.com"))
	cfg.BunnyAPIKey = os.Getenv("CM_BUNNY_API_KEY")
	cfg.BunnyPullZoneHost = strings.TrimRight(stripScheme(os.Getenv("CM_BUNNY_PULLZONE_HOST")), "/")

	maxBytes, err := getEnvInt("CM_UPLOAD_MAX_BYTES", 50*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("CM_UPLOAD_MAX_BYTES: %w", err)
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("CM_UPLOAD_MAX_BYTES: значение должно быть > 0")
	}
	cfg.UploadMaxBytes = int64(maxBytes)

	cfg.CDNTimeout, err = getEnvDurationPositive("CM_CDN_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CM_CDN_TIMEOUT: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthGroup = getEnvDefault("CM_DEPHEALTH_GROUP", "catalog")
	cfg.DephealthCheckInterval, err = getEnvDurationPositive("CM_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CM_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("CM_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CM_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// CDNConfigured сообщает, заданы ли все параметры загрузки в CDN.
func (c *Config) CDNConfigured() bool {
	return len(c.MissingCDNSettings()) == 0
}

// MissingCDNSettings возвращает имена незаданных переменных CDN.
func (c *Config) MissingCDNSettings() []string {
	var missing []string
	if c.BunnyStorageZone == "" {
		missing = append(missing, "CM_BUNNY_STORAGE_ZONE")
	}
	if c.BunnyStorageHost == "" {
		missing = append(missing, "CM_BUNNY_STORAGE_HOST")
	}
	if c.BunnyAPIKey == "" {
		missing = append(missing, "CM_BUNNY_API_KEY")
	}
	if c.BunnyPullZoneHost == "" {
		missing = append(missing, "CM_BUNNY_PULLZONE_HOST")
	}
	return missing
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvDurationPositive — как getEnvDuration, но значение должно быть > 0.
func getEnvDurationPositive(key string, defaultVal time.Duration) (time.Duration, error) {
	d, err := getEnvDuration(key, defaultVal)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseOrigins разбирает список origins через запятую.
// Завершающий слеш отбрасывается, DevOrigin добавляется всегда.
func parseOrigins(raw string) []string {
	var origins []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		o := strings.TrimRight(strings.TrimSpace(part), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		origins = append(origins, o)
	}
	if !seen[DevOrigin] {
		origins = append(origins, DevOrigin)
	}
	return origins
}

// stripScheme убирает http:// или https:// в начале хоста.
func stripScheme(host string) string {
	host = strings.TrimSpace(host)
	for _, prefix := range []string{"https://", "http://"} {
		if len(host) >= len(prefix) && strings.EqualFold(host[:len(prefix)], prefix) {
			return host[len(prefix):]
		}
	}
	return host
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
