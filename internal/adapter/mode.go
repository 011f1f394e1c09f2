package adapter

import (
	"net"
	"net/url"
	"strings"
)

// Mode selects which [BackendAdapter] implementation the client runs against.
// The decision is made once per process lifetime and never re-evaluated.
type Mode string

const (
	// ModeRemote talks to a real backend over HTTP.
	ModeRemote Mode = "remote"

	// ModeFallback operates self-contained against built-in demo data.
	ModeFallback Mode = "fallback"
)

// SelectMode decides the deployment mode from the configured backend base
// URL. An empty URL, an unparseable URL, or one pointing at a loopback host
// selects fallback mode. Pure; no error conditions.
func SelectMode(baseURL string) Mode {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return ModeFallback
	}

	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return ModeFallback
	}

	host := u.Hostname()
	if strings.EqualFold(host, "localhost") {
		return ModeFallback
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return ModeFallback
	}

	return ModeRemote
}
