package config

import (
	"log/slog"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.UseSendfile() != SendfileDisabled {
		t.Errorf("UseSendfile = %q, want disabled", c.UseSendfile())
	}
	if c.FileChunkSize() != DefaultFileChunkSize {
		t.Errorf("FileChunkSize = %d, want %d", c.FileChunkSize(), DefaultFileChunkSize)
	}
	if c.IdleTimeout() != 0 {
		t.Errorf("IdleTimeout = %v, want 0 (no timeout)", c.IdleTimeout())
	}
	pc, err := c.ProxyTrust()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.Policy.String() != "none" {
		t.Errorf("ProxyTrust policy = %v, want none", pc.Policy)
	}
}

func TestNewRejectsInvalidEnum(t *testing.T) {
	if _, err := New(Options{UseSendfile: "bogus"}); err == nil {
		t.Error("expected error for invalid use_sendfile")
	}
	if _, err := New(Options{ProxyTrust: "bogus"}); err == nil {
		t.Error("expected error for invalid proxy_trust")
	}
}

func TestNewRejectsInvalidIPList(t *testing.T) {
	if _, err := New(Options{ProxyTrust: "ip-list", ProxyIPList: []string{"not-an-ip"}}); err == nil {
		t.Error("expected error for invalid proxy_ip_list entry")
	}
}

func TestNewDefaultLogLevelIsInfo(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.LogLevel().Level(); got != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", got)
	}
	if c.Logger() == nil {
		t.Error("Logger() returned nil")
	}
}

func TestNewIPListTrustPolicy(t *testing.T) {
	c, err := New(Options{ProxyTrust: "ip-list", ProxyIPList: []string{"203.0.113.0/24"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pc, err := c.ProxyTrust()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pc.Policy.String() != "ip-list" {
		t.Errorf("Policy = %v, want ip-list", pc.Policy)
	}
}
