// Package httpx provides the small net/http handler-composition surface
// http_adapter.go's Engine.Adapt needs to wrap a decision.Controller in the
// Recover/Timeout middleware pair. It intentionally does not provide a
// router, nor the fuller option surface (per-request timeout overrides,
// panic/timeout observability hooks) nothing in this repo calls.
//
// # Middleware chain
//
// A middleware is a standard net/http wrapper:
//
//	type Middleware func(http.Handler) http.Handler
//
// Order: Chain(a, b, c).Handler(h) returns a(b(c(h))).
//
// # Built-in middlewares
//
//   - Recover: recovers panics from the net/http handler chain and reports
//     them to stderr. The decision engine isolates controller callback
//     panics separately via the safego package; this middleware is the
//     outer net/http-adapter-level backstop.
//   - Timeout: derives a request context with a deadline (cooperative; does
//     not write a response). Engine.Adapt applies config.Config's
//     IdleTimeout through it.
package httpx
