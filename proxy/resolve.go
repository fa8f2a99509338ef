package proxy

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// Result is the authoritative scheme/host/port/remote reconstructed by
// Resolve (§4.1).
type Result struct {
	Scheme   string
	Host     string
	Port     string
	Remote   string
	ViaProxy bool
}

// Resolve reconstructs the authoritative request scheme, host, port, and
// remote address for one request, applying cfg's trust policy.
//
// Precedence (§4.1 "Resolution order"): if the Forwarded header is present,
// it is used (the "modern" path); otherwise, if X-Forwarded-For (with
// X-Forwarded-Proto/Host) is present, it is used (the "legacy" path);
// otherwise the connection's own peer address and directScheme are used
// directly. If the peer address fails cfg's trust policy, proxy headers are
// silently ignored, the untrusted claim is logged at error level, and direct
// mode is used.
func Resolve(peerAddr string, header http.Header, directScheme string, cfg Config) Result {
	direct := Result{
		Scheme: directScheme,
		Host:   sanitizeHost(hostOnly(peerAddr)),
		Port:   portOrDefault(portOnly(peerAddr), directScheme),
		Remote: hostOnly(peerAddr),
	}

	peerIP := parsePeerIP(peerAddr)
	if !cfg.Trusted(peerIP) {
		if hasProxyHeaders(header) {
			slog.Error("proxy: untrusted peer supplied proxy headers, using direct mode",
				"peer", peerAddr, "policy", cfg.Policy.String())
		}
		return direct
	}

	if fwd := header.Get("Forwarded"); fwd != "" {
		if r, ok := resolveFromForwarded(fwd, directScheme); ok {
			if r.Remote == "" {
				r.Remote = direct.Remote
			}
			if r.Remote == "" {
				r.Remote = r.Host
			}
			r.ViaProxy = true
			return r
		}
	}

	if xff := header.Get("X-Forwarded-For"); xff != "" {
		r := resolveFromLegacy(xff, header, directScheme)
		if r.Remote == "" {
			r.Remote = direct.Remote
		}
		if r.Remote == "" {
			r.Remote = r.Host
		}
		r.ViaProxy = true
		return r
	}

	return direct
}

func hasProxyHeaders(h http.Header) bool {
	return h.Get("Forwarded") != "" || h.Get("X-Forwarded-For") != "" ||
		h.Get("X-Forwarded-Proto") != "" || h.Get("X-Forwarded-Host") != ""
}

// resolveFromForwarded implements the "modern" path: take the last
// forwarded-element and read for/proto/host/port from it.
func resolveFromForwarded(header string, directScheme string) (Result, bool) {
	elem, ok := lastForwardedElement(header)
	if !ok {
		return Result{}, false
	}

	scheme := directScheme
	if p := elem["proto"]; p != "" {
		scheme = strings.ToLower(p)
	}

	var host, port, remote string
	if hostField := elem["host"]; hostField != "" {
		host, port = splitHostPort(hostField)
	}
	if forField := elem["for"]; forField != "" {
		if ip, forPort, ok := parseForValue(forField); ok {
			if net.ParseIP(ip) != nil {
				remote = ip
			}
			if host == "" {
				host = ip
			}
			if port == "" {
				port = forPort
			}
		}
	}
	if p := elem["port"]; p != "" {
		port = p
	}
	if host == "" {
		return Result{}, false
	}

	return Result{
		Scheme: scheme,
		Host:   sanitizeHost(host),
		Port:   portOrDefault(port, scheme),
		Remote: remote,
	}, true
}

// resolveFromLegacy implements the "legacy" X-Forwarded-For path. The
// left-most X-Forwarded-For entry is taken as the original client, matching
// the common reverse-proxy convention of appending to the right; the chain
// is not scanned or validated. The client becomes Remote when it is an IP
// address, and the Host source unless X-Forwarded-Host is present.
func resolveFromLegacy(xff string, header http.Header, directScheme string) Result {
	parts := strings.Split(xff, ",")
	client := strings.TrimSpace(parts[0])

	var remote string
	if h, _ := splitHostPort(client); net.ParseIP(h) != nil {
		remote = h
	}

	scheme := directScheme
	if p := header.Get("X-Forwarded-Proto"); p != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(p, ",")[0]))
	}

	host := client
	if h := header.Get("X-Forwarded-Host"); h != "" {
		host = strings.TrimSpace(strings.Split(h, ",")[0])
	}

	hostOnly, port := splitHostPort(host)
	if hostOnly == "" {
		hostOnly = host
	}
	if p := header.Get("X-Forwarded-Port"); p != "" {
		port = strings.TrimSpace(strings.Split(p, ",")[0])
	}

	return Result{
		Scheme: scheme,
		Host:   sanitizeHost(hostOnly),
		Port:   portOrDefault(port, scheme),
		Remote: remote,
	}
}

// parseForValue parses a Forwarded "for" token: an IPv4 address, a bracketed
// IPv6 literal optionally followed by ":port", "unknown", or an obfuscated
// identifier. "unknown" and obfuscated identifiers report ok=false; a '['
// with no closing ']' is returned in sanitized printable form; any other
// value is returned as its host part without checking that it is an IP.
// resolveFromForwarded uses the result as Remote only when it is an IP, so
// an unparseable value leaves the peer address as Remote (§4.1 "`for` value
// parsing").
func parseForValue(v string) (ip string, port string, ok bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", "", false
	}
	if strings.EqualFold(v, "unknown") {
		return "", "", false
	}
	if strings.HasPrefix(v, "[") {
		end := strings.IndexByte(v, ']')
		if end < 0 {
			return sanitizePrintable(v), "", true
		}
		host := v[1:end]
		rest := v[end+1:]
		if strings.HasPrefix(rest, ":") {
			port = rest[1:]
		}
		return host, port, true
	}
	if strings.HasPrefix(v, "_") {
		// obfuscated identifier, not an address we can use as Host.
		return "", "", false
	}
	host, p := splitHostPort(v)
	if host == "" {
		host = v
	}
	return host, p, true
}

// splitHostPort splits "host:port" or a bracketed "[ipv6]:port" into parts.
// If there is no port, port is "". Never returns an error: malformed input
// is passed through as the host with an empty port.
func splitHostPort(hostport string) (host, port string) {
	h, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, ""
	}
	return h, p
}

func hostOnly(addr string) string {
	h, _ := splitHostPort(addr)
	return h
}

func portOnly(addr string) string {
	_, p := splitHostPort(addr)
	return p
}

func portOrDefault(port, scheme string) string {
	if port != "" {
		return port
	}
	if strings.EqualFold(scheme, "https") {
		return "443"
	}
	return "80"
}

func parsePeerIP(addr string) net.IP {
	h := hostOnly(addr)
	if h == "" {
		h = addr
	}
	return net.ParseIP(h)
}
