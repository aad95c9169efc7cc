package utils

import (
	"os"
	"strconv"
	"time"
)

type UpstreamConfig struct {
	BaseURL   string
	MediaHost string
	Timeout   time.Duration
}

func LoadUpstreamConfig() UpstreamConfig {
	base := os.Getenv("CHINGUETTI_UPSTREAM_URL")
	if base == "" {
		// dev default; production points at the real catalog API
		base = "https://api.chinguetti-heritage.org/api"
	}

	media := os.Getenv("CHINGUETTI_MEDIA_HOST")
	if media == "" {
		media = "https://media.chinguetti-heritage.org"
	}

	// matches the 10s fetch race the listing pages were built around
	timeout := 10 * time.Second
	if s := os.Getenv("CHINGUETTI_UPSTREAM_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return UpstreamConfig{BaseURL: base, MediaHost: media, Timeout: timeout}
}

type SessionConfig struct {
	Secret   string
	Issuer   string
	Duration time.Duration

	// bcrypt hash of a local passphrase; when set, admin login can fall
	// back to it if the upstream auth endpoint is unreachable
	OfflinePassphraseHash string
}

func LoadSessionConfig() SessionConfig {
	secret := os.Getenv("CHINGUETTI_SESSION_SECRET")
	if secret == "" {
		// dev default (change for demo / production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("CHINGUETTI_SESSION_ISSUER")
	if issuer == "" {
		issuer = "chinguetti"
	}

	return SessionConfig{
		Secret:                secret,
		Issuer:                issuer,
		Duration:              24 * time.Hour,
		OfflinePassphraseHash: os.Getenv("CHINGUETTI_OFFLINE_ADMIN_HASH"),
	}
}

type ServerConfig struct {
	Addr string
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("CHINGUETTI_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return ServerConfig{Addr: addr}
}
