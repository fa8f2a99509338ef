package rctx

import (
	"context"
	"net/http"
	"time"
)

// NoCharset is the sentinel charset value meaning "charset negotiation is
// disabled for this representation" (§4.2 "Charset short-circuit"): when a
// controller's charsets_provided returns this value, the engine skips
// Accept-Charset negotiation entirely and does not append "; charset=" to
// Content-Type.
const NoCharset = "\x00no-charset"

// NegotiationDimension identifies one of the four Accept* negotiation axes,
// used to compose the Vary header (§8 invariant 3).
type NegotiationDimension string

const (
	DimAccept         NegotiationDimension = "Accept"
	DimAcceptLanguage NegotiationDimension = "Accept-Language"
	DimAcceptCharset  NegotiationDimension = "Accept-Charset"
	DimAcceptEncoding NegotiationDimension = "Accept-Encoding"
)

// Context is the single mutable object threaded through the proxy front
// door, the decision engine, and the response emitter for one request. See
// the package doc for ownership rules.
type Context struct {
	// Std is the cancellation/deadline context for this request. It is
	// derived from the transport's request context and respected by every
	// suspension point (file reads, controller callbacks, writes).
	Std context.Context

	// --- immutable request facet ---

	// Method is the HTTP method, compared byte-exact uppercase ASCII (§4.2
	// "Method case").
	Method  string
	Version string
	RawPath string
	Query   string
	Header  http.Header

	PeerAddr string

	// Scheme, Host, Port, Remote, ViaProxy are populated by the proxy front
	// door (§4.1) before the decision engine runs.
	Scheme   string
	Host     string
	Port     string
	Remote   string
	ViaProxy bool

	// --- negotiation result ---

	ContentType      string
	Charset          string
	Language         string
	ContentEncoding  string
	TransferEncoding string

	// --- response accumulator ---

	Status     int
	RespHeader http.Header
	RespBody   *Body
	Cookies    []*http.Cookie

	// RangeOK defaults to true; a controller may disable it (§3 invariant:
	// read exactly once, before Range header parsing).
	RangeOK     bool
	rangeOKRead bool

	// Range is the parsed Range header, populated at most once by the
	// engine (nil if absent, unparsable, or RangeOK is false).
	Range any // *rangeio.Spec; kept as any to avoid an import cycle.

	// ControllerState is an opaque value the controller may evolve across
	// its own callbacks (§4.3).
	ControllerState any

	// Variances accumulates the Vary dimensions actually consulted during
	// negotiation (§4.2 "Vary header"). The controller's own variances()
	// list is not stored here; the engine appends it when it composes the
	// Vary header at the end of the run.
	Variances map[NegotiationDimension]bool

	// cached, read-once-per-request values (§4.2 "ETag / Last-Modified").
	etagCached         bool
	etag               string
	lastModifiedCached bool
	lastModified        time.Time
	lastModifiedIsZero bool
}

// New creates a Context for an incoming request. ContentEncoding defaults
// to "identity" and RangeOK defaults to true, per §3.
func New(std context.Context, method, version, rawPath, query string, header http.Header, peerAddr string) *Context {
	if std == nil {
		std = context.Background()
	}
	if header == nil {
		header = http.Header{}
	}
	return &Context{
		Std:             std,
		Method:          method,
		Version:         version,
		RawPath:         rawPath,
		Query:           query,
		Header:          header,
		PeerAddr:        peerAddr,
		ContentEncoding: "identity",
		RangeOK:         true,
		RespHeader:      http.Header{},
		Variances:       make(map[NegotiationDimension]bool),
	}
}

// Consult marks a negotiation dimension as actually having been evaluated,
// for later Vary composition.
func (c *Context) Consult(d NegotiationDimension) {
	if c.Variances == nil {
		c.Variances = make(map[NegotiationDimension]bool)
	}
	c.Variances[d] = true
}

// SetRangeOK applies the controller's range-ok decision exactly once; later
// calls are ignored (§3 invariant).
func (c *Context) SetRangeOK(ok bool) {
	if c.rangeOKRead {
		return
	}
	c.rangeOKRead = true
	c.RangeOK = ok
}

// RangeOKRead reports whether SetRangeOK has already been applied.
func (c *Context) RangeOKRead() bool { return c.rangeOKRead }

// CacheETag stores the controller's ETag for the remainder of the request.
func (c *Context) CacheETag(etag string) {
	c.etagCached = true
	c.etag = etag
}

// ETag returns the cached ETag and whether it has been computed yet.
func (c *Context) ETag() (string, bool) { return c.etag, c.etagCached }

// CacheLastModified stores the controller's Last-Modified for the remainder
// of the request. A zero Time means "controller has no opinion".
func (c *Context) CacheLastModified(t time.Time) {
	c.lastModifiedCached = true
	c.lastModified = t
	c.lastModifiedIsZero = t.IsZero()
}

// LastModified returns the cached Last-Modified, whether it is meaningful
// (non-zero), and whether it has been computed yet.
func (c *Context) LastModified() (t time.Time, isSet, cached bool) {
	return c.lastModified, c.lastModifiedCached && !c.lastModifiedIsZero, c.lastModifiedCached
}
