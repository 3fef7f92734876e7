package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/quickrest/items-api/pkg/utils"
)

// Recoverer converts handler panics into a JSON 500 response so the process
// keeps serving after a fault.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("[panic] %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
