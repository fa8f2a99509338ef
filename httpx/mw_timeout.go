// Timeout middleware.
//
// Timeout derives a request context with a deadline and passes it
// downstream. It is cooperative: it does not write a response body and does
// not start goroutines; downstream code must respect context cancellation.
//
// Minimal usage:
//
//	h := httpx.Chain(httpx.Timeout(2*time.Second)).Handler(finalHandler)
package httpx

import (
	"context"
	"net/http"
	"time"
)

// Timeout returns a middleware that derives a request context with a
// deadline of now+timeout.
//
// It never extends an existing deadline: if the incoming request context
// already has an earlier (or equal) deadline, the parent context is used
// unchanged. timeout <= 0 disables the middleware entirely (used by
// config.Config's idle_timeout default of "no timeout").
func Timeout(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			panic("httpx: nil next handler")
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			parent := r.Context()
			wantDeadline := time.Now().Add(timeout)

			if haveDeadline, ok := parent.Deadline(); ok && !wantDeadline.Before(haveDeadline) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithDeadline(parent, wantDeadline)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
