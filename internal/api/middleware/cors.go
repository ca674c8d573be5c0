// cors.go — CORS middleware на базе go-chi/cors.
// Разрешённые origin берутся из CM_ALLOW_ORIGINS; "*" разрешает любой origin.
package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORS возвращает middleware с allow-list origin.
// Запросы без заголовка Origin проходят без изменений.
func CORS(allowOrigins []string) func(http.Handler) http.Handler {
	allowAny := slices.Contains(allowOrigins, "*")

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return allowAny || slices.Contains(allowOrigins, origin)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	})
}
