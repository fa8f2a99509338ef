package proxy

import (
	"fmt"
	"net"
	"strings"
)

// TrustPolicy enumerates the recognized proxy-trust policies (§4.1).
type TrustPolicy int

const (
	// TrustNone rejects all proxy claims; the engine always uses direct mode.
	TrustNone TrustPolicy = iota
	// TrustAny accepts proxy claims from any peer.
	TrustAny
	// TrustLocal accepts proxy claims when the peer is in a private/loopback/
	// link-local/ULA range.
	TrustLocal
	// TrustIPList accepts proxy claims when the peer matches a supplied CIDR list.
	TrustIPList
)

// String implements fmt.Stringer.
func (p TrustPolicy) String() string {
	switch p {
	case TrustNone:
		return "none"
	case TrustAny:
		return "any"
	case TrustLocal:
		return "local"
	case TrustIPList:
		return "ip-list"
	default:
		return "unknown"
	}
}

// ParseTrustPolicy parses the config.proxy_trust enum value.
func ParseTrustPolicy(s string) (TrustPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return TrustNone, nil
	case "any":
		return TrustAny, nil
	case "local":
		return TrustLocal, nil
	case "ip-list":
		return TrustIPList, nil
	default:
		return TrustNone, fmt.Errorf("proxy: invalid trust policy %q", s)
	}
}

// localRanges are the RFC1918/loopback/link-local/ULA ranges recognized by
// TrustLocal: 127/8, 10/8, 192.168/16, 172.16/12, 169.254/16, ::1, fd00::/8,
// fe80::/10 (§4.1 "Trust policy").
var localRanges = mustParseCIDRs(
	"127.0.0.0/8",
	"10.0.0.0/8",
	"192.168.0.0/16",
	"172.16.0.0/12",
	"169.254.0.0/16",
	"::1/128",
	"fd00::/8",
	"fe80::/10",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic("proxy: invalid built-in CIDR " + c + ": " + err.Error())
		}
		out = append(out, n)
	}
	return out
}

func isLocalPeer(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	for _, n := range localRanges {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Config holds the proxy-trust policy and, for TrustIPList, the parsed
// allowlist. Construct it with NewConfig; the zero Config is TrustNone and
// safe to use (always rejects proxy claims).
type Config struct {
	Policy TrustPolicy
	ipList []*net.IPNet
}

// NewConfig validates and builds a Config. For TrustIPList, every entry in
// ipList must be a valid CIDR or bare IP (treated as /32 or /128); an
// invalid entry is a construction error, matching the teacher's
// ParseTrustedProxies fail-fast-with-error idiom rather than silently
// ignoring bad config.
func NewConfig(policy TrustPolicy, ipList []string) (Config, error) {
	cfg := Config{Policy: policy}
	if policy != TrustIPList {
		return cfg, nil
	}
	nets, err := parseCIDRsOrIPs(ipList)
	if err != nil {
		return Config{}, err
	}
	if len(nets) == 0 {
		return Config{}, fmt.Errorf("proxy: ip-list trust policy requires at least one CIDR/IP")
	}
	cfg.ipList = nets
	return cfg, nil
}

func parseCIDRsOrIPs(in []string) ([]*net.IPNet, error) {
	out := make([]*net.IPNet, 0, len(in))
	for _, raw := range in {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		_, ipNet, err := net.ParseCIDR(s)
		if err == nil {
			if v4 := ipNet.IP.To4(); v4 != nil {
				ipNet.IP = v4
			}
			out = append(out, ipNet)
			continue
		}
		ip := net.ParseIP(s)
		if ip == nil {
			return nil, fmt.Errorf("proxy: invalid CIDR/IP entry %q", raw)
		}
		if v4 := ip.To4(); v4 != nil {
			out = append(out, &net.IPNet{IP: v4, Mask: net.CIDRMask(32, 32)})
		} else {
			out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)})
		}
	}
	return out, nil
}

// Trusted reports whether peer is allowed to supply proxy headers under cfg.
func (cfg Config) Trusted(peer net.IP) bool {
	switch cfg.Policy {
	case TrustAny:
		return true
	case TrustLocal:
		return isLocalPeer(peer)
	case TrustIPList:
		if peer == nil {
			return false
		}
		if v4 := peer.To4(); v4 != nil {
			peer = v4
		}
		for _, n := range cfg.ipList {
			if n.Contains(peer) {
				return true
			}
		}
		return false
	default: // TrustNone
		return false
	}
}
