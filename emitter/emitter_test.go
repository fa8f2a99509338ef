package emitter

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/evan-idocoding/restmachine/config"
	"github.com/evan-idocoding/restmachine/rangeio"
	"github.com/evan-idocoding/restmachine/rctx"
)

func newCtx(method string) *rctx.Context {
	return rctx.New(context.Background(), method, "HTTP/1.1", "/", "", http.Header{}, "127.0.0.1:1234")
}

func newCfg(t *testing.T) *config.Config {
	t.Helper()
	c, err := config.New(config.Options{})
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	return c
}

func TestEmitBytesFullBody(t *testing.T) {
	ctx := newCtx("GET")
	ctx.Status = 200
	ctx.ContentType = "text/plain"
	ctx.RespBody = rctx.NewBytesBody([]byte("hello world"))

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Length"); got != "11" {
		t.Errorf("Content-Length = %q, want 11", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", got)
	}
	if rec.Body.String() != "hello world" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if rec.Header().Get("Server") == "" {
		t.Error("Server header not defaulted")
	}
	if rec.Header().Get("Date") == "" {
		t.Error("Date header not defaulted")
	}
}

// Invariant 5: a HEAD response carries the same headers a GET would, but no
// body bytes.
func TestEmitHeadSuppressesBody(t *testing.T) {
	ctx := newCtx("HEAD")
	ctx.Status = 200
	ctx.ContentType = "text/plain"
	ctx.RespBody = rctx.NewBytesBody([]byte("hello world"))

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got := rec.Header().Get("Content-Length"); got != "11" {
		t.Errorf("Content-Length = %q, want 11", got)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body = %q, want empty", rec.Body.String())
	}
}

// Invariant 1, 2: 304 carries no Content-Length or Content-Type, even if the
// controller's headers tried to set one.
func TestEmit304StripsEntityHeaders(t *testing.T) {
	ctx := newCtx("GET")
	ctx.Status = 304
	ctx.ContentType = "text/plain"
	ctx.RespHeader.Set("ETag", `"v1"`)
	ctx.RespBody = rctx.NewBytesBody([]byte("stale"))

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if rec.Code != 304 {
		t.Errorf("status = %d, want 304", rec.Code)
	}
	if rec.Header().Get("Content-Length") != "" {
		t.Error("304 must not carry Content-Length")
	}
	if rec.Header().Get("Content-Type") != "" {
		t.Error("304 must not carry Content-Type")
	}
	if rec.Header().Get("ETag") != `"v1"` {
		t.Error("304 should still carry caching headers set by the controller")
	}
	if rec.Body.Len() != 0 {
		t.Error("304 must not carry a body")
	}
}

// Scenario 2 (§8): a single satisfiable byte range yields 206 with
// Content-Range and a sliced body.
func TestEmitSingleRange(t *testing.T) {
	ctx := newCtx("GET")
	ctx.Status = 200
	ctx.ContentType = "text/plain"
	ctx.RespBody = rctx.NewBytesBody([]byte("0123456789"))
	spec, ok := rangeio.Parse("bytes=2-5")
	if !ok {
		t.Fatal("range parse failed")
	}
	ctx.Range = &spec

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if rec.Code != 206 {
		t.Errorf("status = %d, want 206", rec.Code)
	}
	if got := rec.Header().Get("Content-Range"); got != "bytes 2-5/10" {
		t.Errorf("Content-Range = %q", got)
	}
	if got := rec.Header().Get("Content-Length"); got != "4" {
		t.Errorf("Content-Length = %q, want 4", got)
	}
	if rec.Body.String() != "2345" {
		t.Errorf("body = %q, want 2345", rec.Body.String())
	}
}

// Scenario 3 (§8) + invariant 8: a multi-range request yields 206 with an
// exact precomputed multipart/byteranges Content-Length.
func TestEmitMultipartRange(t *testing.T) {
	ctx := newCtx("GET")
	ctx.Status = 200
	ctx.ContentType = "text/plain"
	body := []byte("0123456789")
	ctx.RespBody = rctx.NewBytesBody(body)
	spec, ok := rangeio.Parse("bytes=0-1,4-5")
	if !ok {
		t.Fatal("range parse failed")
	}
	ctx.Range = &spec

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if rec.Code != 206 {
		t.Errorf("status = %d, want 206", rec.Code)
	}
	ct := rec.Header().Get("Content-Type")
	if ct == "" || ct[:20] != "multipart/byteranges"[:20] {
		t.Errorf("Content-Type = %q", ct)
	}
	wantLen := rec.Header().Get("Content-Length")
	if wantLen == "" {
		t.Fatal("multipart response must carry a precomputed Content-Length")
	}
	if rec.Body.Len() != atoi(t, wantLen) {
		t.Errorf("actual body length %d != declared Content-Length %s", rec.Body.Len(), wantLen)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("content-range: bytes 0-1/10")) {
		t.Error("missing first part's Content-Range in multipart body")
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("content-range: bytes 4-5/10")) {
		t.Error("missing second part's Content-Range in multipart body")
	}
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			t.Fatalf("not a number: %q", s)
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// §9 Open Question: every range unsatisfiable falls back to a full 200, not 416.
func TestEmitUnsatisfiableRangeFallsBackToFullBody(t *testing.T) {
	ctx := newCtx("GET")
	ctx.Status = 200
	ctx.ContentType = "text/plain"
	ctx.RespBody = rctx.NewBytesBody([]byte("0123456789"))
	spec, ok := rangeio.Parse("bytes=100-200")
	if !ok {
		t.Fatal("range parse failed")
	}
	ctx.Range = &spec

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "0123456789" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

// Invariant 10: the file handle is released once the body has been emitted.
func TestEmitFileHandleAlwaysClosed(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "emitter-*")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("file contents"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}

	closed := &closeTrackingHandle{FileHandle: f}

	ctx := newCtx("GET")
	ctx.Status = 200
	ctx.ContentType = "text/plain"
	ctx.RespBody = rctx.NewFileHandleBody(closed)

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !closed.closed {
		t.Error("file handle was not closed")
	}
	if rec.Body.String() != "file contents" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

type closeTrackingHandle struct {
	rctx.FileHandle
	closed bool
}

func (c *closeTrackingHandle) Close() error {
	c.closed = true
	return c.FileHandle.Close()
}

// Stream bodies are always chunked: no Content-Length, and empty chunks are
// silently dropped (§4.5 empty-chunk suppression).
func TestEmitStreamSuppressesEmptyChunks(t *testing.T) {
	chunks := []rctx.Chunk{
		rctx.BytesChunk([]byte("a")),
		rctx.BytesChunk(nil),
		rctx.BytesChunk([]byte("b")),
	}
	i := 0
	stream := rctx.StreamFunc(func(context.Context) (rctx.Chunk, error) {
		if i >= len(chunks) {
			return rctx.Chunk{}, rctx.ErrStreamDone
		}
		c := chunks[i]
		i++
		return c, nil
	})

	ctx := newCtx("GET")
	ctx.Status = 200
	ctx.ContentType = "text/plain"
	ctx.RespBody = rctx.NewStreamBody(stream)

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if rec.Header().Get("Content-Length") != "" {
		t.Error("stream body must not carry Content-Length")
	}
	if rec.Body.String() != "ab" {
		t.Errorf("body = %q, want ab", rec.Body.String())
	}
}

func TestEmitNoBodyNoEntity(t *testing.T) {
	ctx := newCtx("DELETE")
	ctx.Status = 204

	rec := httptest.NewRecorder()
	if err := Emit(ctx, rec, newCfg(t)); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if rec.Code != 204 {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("204 body must be empty")
	}
}
