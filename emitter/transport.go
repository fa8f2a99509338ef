package emitter

import "net/http"

// Transport is the minimal surface the emitter needs from the underlying
// HTTP server (§4.6 "External collaborators"): set response headers, commit
// a status line, and write body bytes. net/http.ResponseWriter satisfies
// this directly, so the one concrete Transport this repo ships
// (restmachine/http_adapter.go) needs no wrapper type.
type Transport interface {
	Header() http.Header
	WriteHeader(statusCode int)
	Write([]byte) (int, error)
}
