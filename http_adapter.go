package restmachine

import (
	"context"
	"net/http"

	"github.com/evan-idocoding/restmachine/decision"
	"github.com/evan-idocoding/restmachine/emitter"
	"github.com/evan-idocoding/restmachine/httpx"
	"github.com/evan-idocoding/restmachine/proxy"
	"github.com/evan-idocoding/restmachine/rctx"
)

// Adapt binds c to net/http, running it through the full pipeline (proxy
// trust resolution, the decision graph, the response emitter) for every
// request the returned handler receives. It is wrapped in the same
// Recover/Timeout middleware chain the rest of this codebase uses for
// panic isolation and cooperative cancellation (§4.6).
func (e *Engine) Adapt(c decision.Controller) http.Handler {
	base := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.serveHTTP(w, r, c)
	})
	chain := httpx.Chain(httpx.Recover(), httpx.Timeout(e.cfg.IdleTimeout()))
	return chain.Handler(base)
}

type requestContextKey struct{}

// RequestFromContext returns the original *http.Request for the request
// being processed, if the engine was entered via Adapt. Controllers that
// need to read a request body (outside this engine's scope, per §1
// "pluggable user-controller mechanism itself") use this to reach it.
func RequestFromContext(ctx context.Context) (*http.Request, bool) {
	r, ok := ctx.Value(requestContextKey{}).(*http.Request)
	return r, ok
}

func (e *Engine) serveHTTP(w http.ResponseWriter, r *http.Request, c decision.Controller) {
	std := context.WithValue(r.Context(), requestContextKey{}, r)

	rctxVal := rctx.New(std, r.Method, r.Proto, r.URL.EscapedPath(), r.URL.RawQuery, r.Header, r.RemoteAddr)

	directScheme := "http"
	if r.TLS != nil {
		directScheme = "https"
	}
	proxyCfg, err := e.cfg.ProxyTrust()
	if err != nil {
		e.cfg.Logger().Error("restmachine: invalid proxy_trust configuration", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	res := proxy.Resolve(r.RemoteAddr, r.Header, directScheme, proxyCfg)
	rctxVal.Scheme = res.Scheme
	rctxVal.Host = res.Host
	rctxVal.Port = res.Port
	rctxVal.Remote = res.Remote
	rctxVal.ViaProxy = res.ViaProxy

	e.run(rctxVal, c)

	if err := emitter.Emit(rctxVal, w, e.cfg); err != nil {
		// Headers/status may already be committed; nothing more to do than
		// let the transport see a short/aborted body, but the failure is
		// still worth a log line.
		e.cfg.Logger().Error("restmachine: emit failed", "method", r.Method, "path", r.URL.Path, "error", err)
		return
	}
}
