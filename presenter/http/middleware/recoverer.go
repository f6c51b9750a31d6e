package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/omni/bridge-orchestrator/presenter/http/render"
)

// Recoverer turns a panic in a handler into a logged 500 JSON response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}
			if errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}
			render.Error(w, r, fmt.Errorf("recovered from handler panic: %w", err))
		}()
		next.ServeHTTP(w, r)
	})
}
