package proxy

import (
	"net/http"
	"testing"
)

// Scenario 5: trusted local peer, Forwarded header fully populated.
func TestResolveScenario5TrustedProxy(t *testing.T) {
	cfg, err := NewConfig(TrustLocal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	header := http.Header{}
	header.Set("Forwarded", `for=203.0.113.7;proto=https;host=a.example;port=8443`)

	r := Resolve("10.0.0.5:54321", header, "http", cfg)

	if r.Remote != "203.0.113.7" {
		t.Errorf("Remote = %q, want %q", r.Remote, "203.0.113.7")
	}
	if r.Scheme != "https" {
		t.Errorf("Scheme = %q, want https", r.Scheme)
	}
	if r.Host != "a.example" {
		t.Errorf("Host = %q, want a.example", r.Host)
	}
	if r.Port != "8443" {
		t.Errorf("Port = %q, want 8443", r.Port)
	}
	if !r.ViaProxy {
		t.Error("expected ViaProxy = true")
	}
}

// Scenario 6 / invariant 9: untrusted peer, same header, policy local.
// The proxy front door must not mutate scheme/host/port/remote.
func TestResolveScenario6UntrustedProxy(t *testing.T) {
	cfg, err := NewConfig(TrustLocal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	header := http.Header{}
	header.Set("Forwarded", `for=203.0.113.7;proto=https;host=a.example;port=8443`)

	r := Resolve("203.0.113.9:1234", header, "http", cfg)

	if r.Remote != "203.0.113.9" {
		t.Errorf("Remote = %q, want %q (untrusted peer's own address)", r.Remote, "203.0.113.9")
	}
	if r.Scheme != "http" {
		t.Errorf("Scheme = %q, want peer's own scheme http", r.Scheme)
	}
	if r.Host != "203.0.113.9" {
		t.Errorf("Host = %q, want the peer address (no header applied)", r.Host)
	}
	if r.ViaProxy {
		t.Error("expected ViaProxy = false for untrusted peer")
	}
}

func TestResolveDirectNoProxyHeaders(t *testing.T) {
	cfg, _ := NewConfig(TrustAny, nil)
	r := Resolve("198.51.100.2:443", http.Header{}, "https", cfg)
	if r.ViaProxy {
		t.Error("expected ViaProxy = false with no proxy headers present")
	}
	if r.Scheme != "https" || r.Host != "198.51.100.2" || r.Port != "443" {
		t.Errorf("unexpected direct result: %+v", r)
	}
}

func TestResolveLegacyXForwardedFor(t *testing.T) {
	cfg, _ := NewConfig(TrustAny, nil)
	header := http.Header{}
	header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.5")
	header.Set("X-Forwarded-Proto", "https")
	header.Set("X-Forwarded-Host", "a.example")

	r := Resolve("10.0.0.5:54321", header, "http", cfg)

	if r.Scheme != "https" {
		t.Errorf("Scheme = %q, want https", r.Scheme)
	}
	if r.Host != "a.example" {
		t.Errorf("Host = %q, want a.example", r.Host)
	}
	if !r.ViaProxy {
		t.Error("expected ViaProxy = true")
	}
}

func TestResolveTrustNoneNeverMutates(t *testing.T) {
	var cfg Config // zero value: TrustNone
	header := http.Header{}
	header.Set("Forwarded", `for=203.0.113.7;proto=https;host=a.example;port=8443`)

	r := Resolve("10.0.0.5:1", header, "http", cfg)
	if r.ViaProxy || r.Scheme != "http" || r.Host != "10.0.0.5" {
		t.Errorf("TrustNone must ignore all proxy headers, got %+v", r)
	}
}
