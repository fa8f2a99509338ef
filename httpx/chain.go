package httpx

import "net/http"

// Middleware is a standard net/http middleware.
//
// A middleware wraps the next handler and returns a new handler.
type Middleware func(http.Handler) http.Handler

// Middlewares is a middleware chain builder.
//
// Order: Chain(a, b, c).Handler(h) returns a(b(c(h))).
type Middlewares []Middleware

// Chain creates a middleware chain from the provided middlewares.
//
// Nil middlewares are ignored.
func Chain(mws ...Middleware) Middlewares {
	out := make([]Middleware, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Handler builds an http.Handler from the chain of middlewares, with h as
// the final handler.
//
// It panics if h is nil (a configuration/assembly error).
func (mws Middlewares) Handler(h http.Handler) http.Handler {
	if h == nil {
		panic("httpx: nil endpoint handler")
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
