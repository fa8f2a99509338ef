package proxy

import (
	"net"
	"testing"
)

func TestParseTrustPolicy(t *testing.T) {
	cases := map[string]TrustPolicy{
		"":        TrustNone,
		"none":    TrustNone,
		"any":     TrustAny,
		"local":   TrustLocal,
		"ip-list": TrustIPList,
		"IP-LIST": TrustIPList,
	}
	for in, want := range cases {
		got, err := ParseTrustPolicy(in)
		if err != nil {
			t.Errorf("ParseTrustPolicy(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Errorf("ParseTrustPolicy(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseTrustPolicy("bogus"); err == nil {
		t.Error("expected error for invalid trust policy")
	}
}

func TestNewConfigIPListRequiresEntries(t *testing.T) {
	if _, err := NewConfig(TrustIPList, nil); err == nil {
		t.Error("expected error for empty ip-list")
	}
	if _, err := NewConfig(TrustIPList, []string{"not-an-ip"}); err == nil {
		t.Error("expected error for invalid ip-list entry")
	}
	cfg, err := NewConfig(TrustIPList, []string{"203.0.113.0/24", "198.51.100.5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Trusted(net.ParseIP("203.0.113.7")) {
		t.Error("expected 203.0.113.7 to be trusted")
	}
	if !cfg.Trusted(net.ParseIP("198.51.100.5")) {
		t.Error("expected bare-IP entry to be trusted as /32")
	}
	if cfg.Trusted(net.ParseIP("198.51.100.6")) {
		t.Error("expected 198.51.100.6 to be untrusted")
	}
}

func TestTrustLocal(t *testing.T) {
	cfg, _ := NewConfig(TrustLocal, nil)
	for _, ip := range []string{"127.0.0.1", "10.0.0.5", "192.168.1.1", "172.16.0.1", "::1"} {
		if !cfg.Trusted(net.ParseIP(ip)) {
			t.Errorf("expected %s to be local-trusted", ip)
		}
	}
	for _, ip := range []string{"8.8.8.8", "203.0.113.5"} {
		if cfg.Trusted(net.ParseIP(ip)) {
			t.Errorf("expected %s not to be local-trusted", ip)
		}
	}
}

func TestTrustNoneZeroValue(t *testing.T) {
	var cfg Config
	if cfg.Trusted(net.ParseIP("127.0.0.1")) {
		t.Error("zero-value Config must reject all peers")
	}
}

func TestTrustAny(t *testing.T) {
	cfg, _ := NewConfig(TrustAny, nil)
	if !cfg.Trusted(net.ParseIP("8.8.8.8")) {
		t.Error("TrustAny must accept any peer")
	}
	if !cfg.Trusted(nil) {
		t.Error("TrustAny must accept even a nil peer")
	}
}
