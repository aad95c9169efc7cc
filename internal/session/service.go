package session

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"chinguetti/internal/upstream"
)

// Service owns the admin session lifecycle: login against the upstream
// auth-token endpoint, logout, and token liveness checks.
type Service struct {
	Client *upstream.Client
	Tokens TokenService

	// bcrypt hash of a local passphrase; empty disables the offline path
	OfflineHash string
}

// LoginResult carries the signed gateway session and whether it was issued
// by the offline fallback rather than the upstream API.
type LoginResult struct {
	Session   string
	ExpiresAt time.Time
	Offline   bool
}

// Login authenticates against the upstream API. When the upstream endpoint
// is unreachable (not merely rejecting the credentials) and an offline
// passphrase hash is configured, the password is checked against it and a
// read-only offline session is issued instead, keeping the admin console
// reachable during outages the same way the public pages degrade to
// bundled data.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	err := s.Client.Login(ctx, username, password)
	if err == nil {
		sess, exp, signErr := s.Tokens.Sign(username, s.Client.Tokens.Load(), false)
		if signErr != nil {
			return nil, signErr
		}
		return &LoginResult{Session: sess, ExpiresAt: exp}, nil
	}

	if !unreachable(err) || s.OfflineHash == "" {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(s.OfflineHash), []byte(password)) != nil {
		return nil, err
	}

	sess, exp, signErr := s.Tokens.Sign(username, "", true)
	if signErr != nil {
		return nil, signErr
	}
	return &LoginResult{Session: sess, ExpiresAt: exp, Offline: true}, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.Client.Logout(ctx)
}

// ValidateToken is a lightweight liveness probe: any successful categories
// fetch means the stored token is still accepted.
func (s *Service) ValidateToken(ctx context.Context) bool {
	_, err := s.Client.Categories(ctx)
	return err == nil
}

// unreachable reports whether the error looks like the upstream could not
// be contacted at all, as opposed to rejecting the request. Any HTTP-level
// response, even a 401, means the server was reached.
func unreachable(err error) bool {
	var apiErr *upstream.APIError
	return !errors.As(err, &apiErr)
}
