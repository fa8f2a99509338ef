package emitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/evan-idocoding/restmachine/config"
	"github.com/evan-idocoding/restmachine/rangeio"
	"github.com/evan-idocoding/restmachine/rctx"
	"github.com/evan-idocoding/restmachine/rt/safego"
)

// Emit streams exactly one framed HTTP response for ctx to w, applying
// range slicing, multipart/byteranges construction, and sendfile policy
// from cfg. ctx must already have Status, RespHeader and (if any) RespBody
// populated by the decision engine.
func Emit(ctx *rctx.Context, w Transport, cfg *config.Config) error {
	header := w.Header()
	for k, values := range ctx.RespHeader {
		for _, v := range values {
			header.Add(k, v)
		}
	}

	// §4.5 "Headers always added (unless already present)".
	if header.Get("Server") == "" {
		header.Set("Server", cfg.ServerHeader())
	}
	if header.Get("Date") == "" {
		header.Set("Date", time.Now().UTC().Format(http1123))
	}

	status := ctx.Status
	if status == 0 {
		status = 200
	}
	isHead := ctx.Method == "HEAD"

	if status == 304 {
		// §8 invariant 1, 2: no Content-Length, no Content-Type on 304.
		header.Del("Content-Length")
		header.Del("Content-Type")
		w.WriteHeader(status)
		return nil
	}

	body := ctx.RespBody
	if body == nil {
		w.WriteHeader(status)
		return nil
	}

	if ctx.ContentType != "" && header.Get("Content-Type") == "" {
		header.Set("Content-Type", contentTypeHeader(ctx))
	}

	plan, err := planRanges(ctx, body, status)
	if err != nil {
		return err
	}
	if plan.newStatus != 0 {
		status = plan.newStatus
	}
	if plan.contentType != "" {
		header.Set("Content-Type", plan.contentType)
	}
	if plan.contentRange != "" {
		header.Set("Content-Range", plan.contentRange)
	}

	if isHead {
		if plan.contentLengthKnown {
			header.Set("Content-Length", strconv.FormatInt(plan.contentLength, 10))
		} else if k := body.Kind(); k == rctx.KindBytes || k == rctx.KindFile || k == rctx.KindFileHandle {
			if size, known := bodySize(body); known {
				header.Set("Content-Length", strconv.FormatInt(size, 10))
			}
		}
		w.WriteHeader(status)
		return nil
	}

	switch body.Kind() {
	case rctx.KindBytes:
		return emitBytes(w, header, status, body.Bytes(), plan)
	case rctx.KindFile:
		return emitFile(w, header, status, body.Path(), cfg, plan)
	case rctx.KindFileHandle:
		return emitFileHandle(w, header, status, body.Handle(), cfg, plan)
	case rctx.KindStream:
		w.WriteHeader(status)
		return drainStream(ctx.Std, w, body.StreamValue())
	case rctx.KindWriter:
		w.WriteHeader(status)
		return emitWriter(ctx.Std, w, body.Writer())
	case rctx.KindSizedStream:
		return emitSizedStream(ctx, w, header, status, body, plan)
	default:
		return fmt.Errorf("emitter: unknown body kind %v", body.Kind())
	}
}

const http1123 = "Mon, 02 Jan 2006 15:04:05 GMT"

func contentTypeHeader(ctx *rctx.Context) string {
	if ctx.Charset == "" || ctx.Charset == rctx.NoCharset {
		return ctx.ContentType
	}
	return ctx.ContentType + "; charset=" + ctx.Charset
}

// rangePlan is the outcome of range negotiation for one response: either no
// ranging happened (full body), a single 206 slice, or a multipart 206.
type rangePlan struct {
	newStatus          int
	contentType        string
	contentRange       string
	contentLength      int64
	contentLengthKnown bool

	single *rangeio.Part
	multi  *rangeio.MultipartPlan
}

func planRanges(ctx *rctx.Context, body *rctx.Body, status int) (rangePlan, error) {
	var plan rangePlan
	if status != 200 || !ctx.RangeOK {
		return plan, nil
	}
	spec, ok := ctx.Range.(*rangeio.Spec)
	if !ok || spec == nil {
		return plan, nil
	}

	size, known := bodySize(body)
	if !known {
		return plan, nil
	}

	parts := rangeio.Normalize(*spec, size)
	switch len(parts) {
	case 0:
		// §9 Open Question: serve 200 full body rather than 416.
		plan.contentLength = size
		plan.contentLengthKnown = true
		return plan, nil
	case 1:
		p := parts[0]
		plan.newStatus = 206
		plan.contentRange = fmt.Sprintf("bytes %d-%d/%d", p.Offset, p.End(), size)
		plan.contentLength = p.Length
		plan.contentLengthKnown = true
		plan.single = &p
		return plan, nil
	default:
		boundary := rangeio.NewBoundary()
		mp := rangeio.PlanMultipart(ctx.ContentType, parts, size, boundary)
		plan.newStatus = 206
		plan.contentType = mp.ContentType
		plan.contentLength = mp.TotalLength
		plan.contentLengthKnown = true
		plan.multi = &mp
		return plan, nil
	}
}

func bodySize(body *rctx.Body) (int64, bool) {
	switch body.Kind() {
	case rctx.KindBytes:
		return int64(len(body.Bytes())), true
	case rctx.KindFile:
		fi, err := os.Stat(body.Path())
		if err != nil {
			return 0, false
		}
		return fi.Size(), true
	case rctx.KindFileHandle:
		h := body.Handle()
		cur, err := h.Seek(0, io.SeekCurrent)
		if err != nil {
			return 0, false
		}
		end, err := h.Seek(0, io.SeekEnd)
		if err != nil {
			return 0, false
		}
		if _, err := h.Seek(cur, io.SeekStart); err != nil {
			return 0, false
		}
		return end, true
	case rctx.KindSizedStream:
		return body.SizedTotal(), true
	default:
		return 0, false
	}
}

func emitBytes(w Transport, header httpHeaderSetter, status int, data []byte, plan rangePlan) error {
	switch {
	case plan.multi != nil:
		header.Set("Content-Length", strconv.FormatInt(plan.contentLength, 10))
		w.WriteHeader(status)
		for _, part := range plan.multi.Parts {
			if _, err := w.Write(part.Preamble); err != nil {
				return err
			}
			end := part.Part.Offset + part.Part.Length
			if _, err := w.Write(data[part.Part.Offset:end]); err != nil {
				return err
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return err
			}
		}
		_, err := w.Write(plan.multi.Closing)
		return err
	case plan.single != nil:
		header.Set("Content-Length", strconv.FormatInt(plan.contentLength, 10))
		w.WriteHeader(status)
		p := *plan.single
		_, err := w.Write(data[p.Offset : p.Offset+p.Length])
		return err
	default:
		header.Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(status)
		if len(data) == 0 {
			return nil
		}
		_, err := w.Write(data)
		return err
	}
}

// httpHeaderSetter is the subset of http.Header Emit's helpers need; it
// lets emitBytes/emitFile take the already-fetched w.Header() value.
type httpHeaderSetter interface {
	Set(key, value string)
}

func openFileSource(path string) (*os.File, error) {
	return os.Open(path)
}

func emitFile(w Transport, header httpHeaderSetter, status int, path string, cfg *config.Config, plan rangePlan) error {
	f, err := openFileSource(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return emitSeekable(w, header, status, f, cfg, plan, true)
}

func emitFileHandle(w Transport, header httpHeaderSetter, status int, h rctx.FileHandle, cfg *config.Config, plan rangePlan) error {
	defer h.Close()
	return emitSeekable(w, header, status, h, cfg, plan, false)
}

// seekable is the common surface emitSeekable needs from either an *os.File
// (KindFile) or an rctx.FileHandle (KindFileHandle).
type seekable interface {
	io.Reader
	io.Seeker
}

func emitSeekable(w Transport, header httpHeaderSetter, status int, f seekable, cfg *config.Config, plan rangePlan, canOffload bool) error {
	switch {
	case plan.multi != nil:
		header.Set("Content-Length", strconv.FormatInt(plan.contentLength, 10))
		w.WriteHeader(status)
		for _, part := range plan.multi.Parts {
			if _, err := w.Write(part.Preamble); err != nil {
				return err
			}
			if _, err := f.Seek(part.Part.Offset, io.SeekStart); err != nil {
				return err
			}
			if _, err := io.CopyN(w, f, part.Part.Length); err != nil {
				return err
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return err
			}
		}
		_, err := w.Write(plan.multi.Closing)
		return err

	case plan.single != nil:
		header.Set("Content-Length", strconv.FormatInt(plan.contentLength, 10))
		w.WriteHeader(status)
		p := *plan.single
		if _, err := f.Seek(p.Offset, io.SeekStart); err != nil {
			return err
		}
		_, err := io.CopyN(w, f, p.Length)
		return err

	default:
		size, known := streamSize(f)
		if known {
			header.Set("Content-Length", strconv.FormatInt(size, 10))
		}

		mode := cfg.UseSendfile()
		if mode == config.SendfileOffload && canOffload {
			if path, ok := f.(*os.File); ok {
				header.Set("X-Sendfile", path.Name())
				w.WriteHeader(status)
				return nil
			}
		}
		w.WriteHeader(status)
		if mode == config.SendfileDisabled {
			return copyInChunks(w, f, cfg.FileChunkSize())
		}
		// in-process (and offload-without-a-path): io.Copy lets the
		// transport's ReadFrom (e.g. net/http's response writer against an
		// *os.File) perform a real sendfile(2) when available.
		_, err := io.Copy(w, f)
		return err
	}
}

func streamSize(f seekable) (int64, bool) {
	cur, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, false
	}
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, false
	}
	if _, err := f.Seek(cur, io.SeekStart); err != nil {
		return 0, false
	}
	return end, true
}

func copyInChunks(w Transport, r io.Reader, chunkSize int64) error {
	if chunkSize <= 0 {
		chunkSize = config.DefaultFileChunkSize
	}
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// drainStream pulls chunks from s until rctx.ErrStreamDone, splicing
// ChunkFile elements and silently consuming empty ChunkBytes (§4.5
// "Empty-chunk suppression").
func drainStream(ctx context.Context, w Transport, s rctx.Stream) error {
	if s == nil {
		return nil
	}
	for {
		chunk, err := s.Next(ctx)
		if err != nil {
			if errors.Is(err, rctx.ErrStreamDone) {
				return nil
			}
			return err
		}
		switch chunk.Kind {
		case rctx.ChunkBytes:
			if len(chunk.Data) == 0 {
				continue
			}
			if _, err := w.Write(chunk.Data); err != nil {
				return err
			}
		case rctx.ChunkFile:
			if err := spliceFile(w, chunk.Path, chunk.Offset, chunk.Length); err != nil {
				return err
			}
		default:
			return fmt.Errorf("emitter: unknown chunk kind %v", chunk.Kind)
		}
	}
}

func spliceFile(w Transport, path string, offset, length int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return err
		}
	}
	_, err = io.CopyN(w, f, length)
	return err
}

// emitWriter lets the controller drive its own emission through a sink
// function, isolated from panics the same way controller callbacks are
// elsewhere in this codebase (§4.3).
func emitWriter(ctx context.Context, w Transport, fn rctx.WriterFunc) error {
	var sinkErr error
	sink := func(p []byte, fin bool) error {
		if len(p) > 0 {
			if _, err := w.Write(p); err != nil {
				sinkErr = err
				return err
			}
		}
		return nil
	}

	var runErr error
	safego.Run(ctx, func(context.Context) {
		runErr = fn(sink)
	}, safego.WithName("emitter.writer_body"), safego.WithPanicHandler(func(_ context.Context, info safego.PanicInfo) {
		runErr = fmt.Errorf("emitter: writer body panicked: %v", info.Value)
	}))

	if sinkErr != nil {
		return sinkErr
	}
	return runErr
}

func emitSizedStream(ctx *rctx.Context, w Transport, header httpHeaderSetter, status int, body *rctx.Body, plan rangePlan) error {
	producer := body.SizedProducer()
	switch {
	case plan.multi != nil:
		header.Set("Content-Length", strconv.FormatInt(plan.contentLength, 10))
		w.WriteHeader(status)
		for _, part := range plan.multi.Parts {
			if _, err := w.Write(part.Preamble); err != nil {
				return err
			}
			s := producer(part.Part.Offset, part.Part.Offset+part.Part.Length)
			if err := drainStream(ctx.Std, w, s); err != nil {
				return err
			}
			if _, err := w.Write([]byte("\r\n")); err != nil {
				return err
			}
		}
		_, err := w.Write(plan.multi.Closing)
		return err
	case plan.single != nil:
		w.WriteHeader(status)
		p := *plan.single
		s := producer(p.Offset, p.Offset+p.Length)
		return drainStream(ctx.Std, w, s)
	default:
		w.WriteHeader(status)
		s := producer(0, body.SizedTotal())
		return drainStream(ctx.Std, w, s)
	}
}
