// Package middlewarectx содержит HTTP middleware приложения: CORS, ограничения
// на частоту и размер запросов, проверку логина в пути, метрики и журнал запросов.
package middlewarectx

import "net/http"

// CORS разрешает запросы с любого origin. Предварительный запрос OPTIONS
// на любой путь получает 204 без тела.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
