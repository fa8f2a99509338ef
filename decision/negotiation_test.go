package decision

import "testing"

func TestSelectContentTypeDefaultWildcard(t *testing.T) {
	provided := []ContentTypeHandler{{ContentType: "text/html"}}
	pick, ok := selectContentType("", provided)
	if !ok || pick.ContentType != "text/html" {
		t.Fatalf("got %+v, %v", pick, ok)
	}
}

func TestSelectContentTypeSpecificityWins(t *testing.T) {
	provided := []ContentTypeHandler{
		{ContentType: "application/json"},
		{ContentType: "text/html"},
	}
	pick, ok := selectContentType("text/*;q=0.5, application/json;q=0.5", provided)
	if !ok || pick.ContentType != "application/json" {
		t.Fatalf("expected application/json (more specific match), got %+v", pick)
	}
}

func TestSelectContentTypeNoMatch(t *testing.T) {
	provided := []ContentTypeHandler{{ContentType: "text/html"}}
	if _, ok := selectContentType("application/json", provided); ok {
		t.Error("expected no match")
	}
}

func TestSelectCharsetDefaultFirst(t *testing.T) {
	got, ok := selectCharset("", []string{"utf-8", "iso-8859-1"})
	if !ok || got != "utf-8" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestSelectCharsetCanonicalizes(t *testing.T) {
	got, ok := selectCharset("UTF8;q=1.0, iso-8859-1;q=0.5", []string{"utf-8", "iso-8859-1"})
	if !ok || got != "utf-8" {
		t.Fatalf("expected utf-8 to match canonicalized UTF8, got %q, %v", got, ok)
	}
}

func TestSelectCharsetRejectsQZero(t *testing.T) {
	if _, ok := selectCharset("utf-8;q=0", []string{"utf-8"}); ok {
		t.Error("expected q=0 to reject the only candidate")
	}
}

func TestSelectEncodingIdentityDefault(t *testing.T) {
	got, ok := selectEncoding("", []string{"gzip", "identity"})
	if !ok || got != "identity" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestSelectEncodingGzipPreferred(t *testing.T) {
	got, ok := selectEncoding("gzip;q=1.0, identity;q=0.1", []string{"gzip", "identity"})
	if !ok || got != "gzip" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestSelectEncodingIdentityImplicitWhenUnlisted(t *testing.T) {
	got, ok := selectEncoding("gzip;q=1.0", []string{"gzip"})
	if !ok || got != "gzip" {
		t.Fatalf("expected gzip to win on explicit q, got %q, %v", got, ok)
	}
	got, ok = selectEncoding("gzip;q=0", []string{"gzip"})
	if !ok || got != "identity" {
		t.Fatalf("expected implicit identity when gzip is refused, got %q, %v", got, ok)
	}
}

func TestAcceptLanguageCandidatesOrder(t *testing.T) {
	got := acceptLanguageCandidates("fr;q=0.3, en-US;q=0.9, de;q=0.9")
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %+v", got)
	}
	if got[0] != "en-US" && got[0] != "de" {
		t.Errorf("expected highest-q tag first, got %v", got)
	}
}
