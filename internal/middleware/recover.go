package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/zhouzirui/mindful-journal/backend/pkg/utils"
)

// Recoverer turns a handler panic into a JSON 500 carrying the panic message.
func Recoverer(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Errorw("handler panic",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()))
				utils.RespondError(w, http.StatusInternalServerError, fmt.Sprintf("Server error: %v", rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
