// auth.go — middleware административного доступа Catalog Module.
// Один общий токен из CM_ADMIN_TOKEN, передаётся как "Authorization: Bearer <token>".
//   - токен не настроен → 501 ADMIN_DISABLED
//   - нет заголовка или схема не Bearer → 401
//   - неверный токен → 403
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/bigkaa/goartstore/catalog-module/internal/api/errors"
)

const bearerPrefix = "Bearer "

// AdminToken возвращает middleware проверки административного токена.
// Сравнение токенов выполняется за постоянное время.
func AdminToken(token string, logger *slog.Logger) func(http.Handler) http.Handler {
	expected := []byte(token)
	log := logger.With(slog.String("component", "admin_auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expected) == 0 {
				apierrors.AdminDisabled(w)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				apierrors.Unauthorized(w, "Требуется заголовок Authorization: Bearer <token>")
				return
			}

			provided := []byte(header[len(bearerPrefix):])
			if subtle.ConstantTimeCompare(provided, expected) != 1 {
				log.Warn("Неверный административный токен",
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)
				apierrors.Forbidden(w, "Неверный токен")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
