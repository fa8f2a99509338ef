// Package proxy is the proxy-trust front door (§4.1): it reconstructs the
// authoritative request scheme, host, port, and remote address from
// Forwarded / X-Forwarded-* headers under a configurable trust policy.
//
// It is grounded on the teacher's httpx.RealIP middleware (trusted-CIDR
// checking and a right-to-left X-Forwarded-For scan) and its
// AtomicIPAllowList CIDR/IP parsing, generalized from "extract one trusted
// IP" to the full RFC 7239 Forwarded grammar plus scheme/host/port
// reconstruction and the none/any/local/ip-list trust policy enum.
package proxy
