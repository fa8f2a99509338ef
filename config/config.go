package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/evan-idocoding/restmachine/proxy"
	"github.com/evan-idocoding/restmachine/rt/tuning"
	"github.com/evan-idocoding/restmachine/rt/tuning/tuningslog"
)

var logWriter = os.Stderr

// SendfileMode enumerates use_sendfile (§6, §4.5).
type SendfileMode string

const (
	SendfileDisabled SendfileMode = "disabled"
	SendfileInProcess SendfileMode = "in-process"
	SendfileOffload  SendfileMode = "offload"
)

// DefaultFileChunkSize is the file_chunk_size default (§6).
const DefaultFileChunkSize = 65536

// Options are the inputs to New; any zero-valued field takes the default
// listed in §6 (no explicit "is it set" bookkeeping is needed because every
// field's zero value is a valid sentinel for "use the default").
type Options struct {
	ServerHeader  string
	UseSendfile   string // "", "disabled", "in-process", "offload"
	ProxyTrust    string // "", "none", "any", "local", "ip-list"
	ProxyIPList   []string
	IdleTimeout   time.Duration // 0 means "no timeout" (§6 default ∞)
	FileChunkSize int64         // 0 means DefaultFileChunkSize
	LogLevel      slog.Level    // ambient logging verbosity, runtime-tunable
}

// Config is the validated, immutable configuration handed to the engine at
// construction (§9 "Global configuration reads": injected once, no hidden
// globals). It wraps an *rt/tuning.Tuning registry so the six keys remain
// individually runtime-tunable (e.g. via an ops surface) after construction,
// the same way every other tunable in this codebase is exposed.
type Config struct {
	t *tuning.Tuning

	serverHeader  *tuning.StringVar
	useSendfile   *tuning.EnumVar
	proxyTrust    *tuning.EnumVar
	fileChunkSize *tuning.Int64Var
	idleTimeout   *tuning.DurationVar
	logLevelVar   *tuning.EnumVar
	logLevel      *slog.LevelVar

	proxyIPList []string
	proxyCfg    proxy.Config
}

// New validates opts and builds a Config. It never panics; invalid enum
// values or an invalid proxy_ip_list are reported as an error.
func New(opts Options) (*Config, error) {
	serverHeader := opts.ServerHeader
	if serverHeader == "" {
		serverHeader = "restmachine/1"
	}
	useSendfile := opts.UseSendfile
	if useSendfile == "" {
		useSendfile = string(SendfileDisabled)
	}
	proxyTrust := opts.ProxyTrust
	if proxyTrust == "" {
		proxyTrust = "none"
	}
	chunkSize := opts.FileChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultFileChunkSize
	}

	policy, err := proxy.ParseTrustPolicy(proxyTrust)
	if err != nil {
		return nil, err
	}
	proxyCfg, err := proxy.NewConfig(policy, opts.ProxyIPList)
	if err != nil {
		return nil, err
	}

	t := tuning.New()

	serverHeaderVar, err := t.String("server_header", serverHeader)
	if err != nil {
		return nil, fmt.Errorf("config: server_header: %w", err)
	}
	useSendfileVar, err := t.Enum("use_sendfile", useSendfile,
		tuning.WithEnumAllowed(string(SendfileDisabled), string(SendfileInProcess), string(SendfileOffload)))
	if err != nil {
		return nil, fmt.Errorf("config: use_sendfile: %w", err)
	}
	proxyTrustVar, err := t.Enum("proxy_trust", proxyTrust,
		tuning.WithEnumAllowed("none", "any", "local", "ip-list"))
	if err != nil {
		return nil, fmt.Errorf("config: proxy_trust: %w", err)
	}
	fileChunkSizeVar, err := t.Int64("file_chunk_size", chunkSize, tuning.WithMinInt64(1))
	if err != nil {
		return nil, fmt.Errorf("config: file_chunk_size: %w", err)
	}
	idleTimeoutVar, err := t.Duration("idle_timeout", opts.IdleTimeout, tuning.WithMinDuration(0))
	if err != nil {
		return nil, fmt.Errorf("config: idle_timeout: %w", err)
	}
	logLevelVar, logLevel, err := tuningslog.LevelVar(t, "log_level", opts.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}

	return &Config{
		t:             t,
		serverHeader:  serverHeaderVar,
		useSendfile:   useSendfileVar,
		proxyTrust:    proxyTrustVar,
		fileChunkSize: fileChunkSizeVar,
		idleTimeout:   idleTimeoutVar,
		logLevelVar:   logLevelVar,
		logLevel:      logLevel,
		proxyIPList:   append([]string(nil), opts.ProxyIPList...),
		proxyCfg:      proxyCfg,
	}, nil
}

// ServerHeader is the value of the Server response header unless the
// transport already set one (§4.5 "Headers always added").
func (c *Config) ServerHeader() string { return c.serverHeader.Get() }

// UseSendfile is the sendfile mode the emitter should apply to file-backed
// bodies (§4.5 "Framing rules").
func (c *Config) UseSendfile() SendfileMode { return SendfileMode(c.useSendfile.Get()) }

// IdleTimeout is the deadline httpx.Timeout should apply per request; zero
// means no timeout.
func (c *Config) IdleTimeout() time.Duration { return c.idleTimeout.Get() }

// FileChunkSize is the emitter's chunk size for unsliced file/stream bodies
// (§4.5, §6 default 65536).
func (c *Config) FileChunkSize() int64 { return c.fileChunkSize.Get() }

// ProxyTrust is the parsed proxy-trust policy for the proxy front door
// (§4.1). Re-deriving it from the live tuning value (rather than caching the
// proxy.Config.Policy from construction) keeps the enum reconfigurable at
// runtime consistent with the rest of this registry; proxy_ip_list is not
// itself live-reloadable here since it requires re-parsing CIDRs.
func (c *Config) ProxyTrust() (proxy.Config, error) {
	current := c.proxyTrust.Get()
	if current == string(c.proxyCfg.Policy.String()) {
		return c.proxyCfg, nil
	}
	policy, err := proxy.ParseTrustPolicy(current)
	if err != nil {
		return proxy.Config{}, err
	}
	return proxy.NewConfig(policy, c.proxyIPList)
}

// LogLevel returns the live *slog.LevelVar backing the log_level tuning key,
// suitable for passing straight to slog.HandlerOptions.Level so ambient
// logging verbosity is reconfigurable without restarting the process.
func (c *Config) LogLevel() *slog.LevelVar { return c.logLevel }

// Logger builds a structured JSON logger at the current log_level, with
// every record tagged component=restmachine.
func (c *Config) Logger() *slog.Logger {
	h := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: c.logLevel})
	return slog.New(h).With("component", "restmachine")
}

// Tuning returns the underlying registry holding the six vars. The registry
// has no key lookup, so the vars themselves cannot be retrieved or Set
// through this value; it accepts registration of additional vars.
func (c *Config) Tuning() *tuning.Tuning { return c.t }
