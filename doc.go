// Package restmachine is a webmachine-style HTTP/1.1 resource-processing
// engine: it sits between a transport (which parses requests and writes
// bytes) and a user-written resource controller (which answers domain
// questions such as "does this resource exist?" or "what representations
// are available?"), and runs a deterministic decision graph that negotiates
// content type, language, charset and encoding; checks authorization,
// preconditions and conflicts; dispatches reads/writes/creates/deletes to
// the controller; and emits a correctly-framed response.
//
// # Quick start
//
//	cfg, err := config.New(config.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	eng := restmachine.New(cfg)
//
//	mux := http.NewServeMux()
//	mux.Handle("/widgets/", eng.Adapt(myWidgetController{}))
//
//	_ = http.ListenAndServe(":8080", mux)
//
// # Building blocks
//
// restmachine assembles three subsystems, each independently usable:
//
//   - github.com/evan-idocoding/restmachine/proxy: reconstructs the
//     authoritative scheme/host/port/remote address from Forwarded /
//     X-Forwarded-* headers under a configurable trust policy.
//   - github.com/evan-idocoding/restmachine/decision: the decision graph
//     and the controller adapter (callback defaults).
//   - github.com/evan-idocoding/restmachine/rangeio: Range: header parsing,
//     normalization, and multipart/byteranges construction.
//   - github.com/evan-idocoding/restmachine/emitter: streams the chosen
//     response body source with correct framing.
//   - github.com/evan-idocoding/restmachine/rctx: the per-request context
//     and the body-source sum type threaded through all of the above.
//   - github.com/evan-idocoding/restmachine/config: typed, validated,
//     hot-reloadable engine configuration.
//   - github.com/evan-idocoding/restmachine/httpx: net/http middleware
//     chain helpers used by the bundled net/http Transport adapter.
//   - github.com/evan-idocoding/restmachine/rt/safego: panic-isolating
//     callback runner used to isolate controller callbacks from the engine.
//
// # Security model
//
// Proxy headers are untrusted by default (proxy.TrustNone): a deployment
// must opt in to proxy.TrustLocal, proxy.TrustIPList, or (not recommended
// off a public edge) proxy.TrustAny before Forwarded/X-Forwarded-* headers
// are allowed to influence scheme/host/port/remote.
package restmachine
