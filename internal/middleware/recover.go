package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/websocket"
)

// Recover turns a handler panic into a 500 INTERNAL_ERROR envelope.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("[recover] %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
			// A hijacked websocket connection has no HTTP response left to write.
			if websocket.IsWebSocketUpgrade(r) {
				return
			}
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong", r)
		}()
		next.ServeHTTP(w, r)
	})
}
