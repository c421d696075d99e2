package middleware

import (
	"fmt"
	"net/http"

	"github.com/angelmondragon/spendwise-backend/api/responses"
	pkgerrors "github.com/angelmondragon/spendwise-backend/pkg/errors"
	"github.com/angelmondragon/spendwise-backend/pkg/logger"
)

// Recoverer turns handler panics into an internal error envelope.
// http.ErrAbortHandler is re-raised so the server aborts the response as intended.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
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
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":  rec,
						"method": r.Method,
						"path":   r.URL.Path,
					})
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
