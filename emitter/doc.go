// Package emitter is the response emitter (§4.5): given a *rctx.Context
// whose decision engine run has already populated status, headers and body
// source, it streams exactly one correctly framed HTTP response to a
// Transport.
//
// It is grounded on the teacher's io.LimitedReader-based size-aware copying
// (httpx/client/io.go's ReadAllAndCloseLimit) and the http.MaxBytesReader
// idiom from httpx/mw_body_limit.go, generalized from "limit a request body"
// to "frame a response body" across the six rctx.Body variants and the
// disabled/in-process/offload sendfile modes from config.SendfileMode.
//
// Emitter code switches exhaustively on rctx.Kind (§9 "Body source
// variants"); its default case returns an error, so a future seventh
// variant is reported rather than silently swallowed.
package emitter
