// Package config exposes the six recognized configuration keys (§6
// "Configuration") as a small typed wrapper over the teacher's
// rt/tuning.Tuning registry: server_header, use_sendfile, proxy_trust,
// proxy_ip_list, idle_timeout, and file_chunk_size.
//
// Unlike most rt/tuning consumers in this codebase, Config never panics on
// invalid input — New returns an error, matching §9 "Global configuration
// reads": configuration is injected once at engine construction, not read
// from a hidden global at call sites.
package config
