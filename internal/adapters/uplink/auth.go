package uplink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/movetrack/tracksync/internal/ports"
)

const loginPath = "/login"

// StaticToken is a TokenProvider for pre-issued, long-lived tokens.
type StaticToken string

func (t StaticToken) Token(ctx context.Context) (string, error) {
	if t == "" {
		return "", ports.ErrAuthRequired
	}
	return string(t), nil
}

// LoginProvider fetches a fresh JWT from the collector's login route on
// every call. The collector returns the token in the Authorization
// response header.
type LoginProvider struct {
	client   *http.Client
	loginURL string
	username string
	password string
}

func NewLoginProvider(endpoint, username, password string, timeout time.Duration) *LoginProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LoginProvider{
		client:   &http.Client{Timeout: timeout},
		loginURL: strings.TrimSuffix(endpoint, "/") + loginPath,
		username: username,
		password: password,
	}
}

func (p *LoginProvider) Token(ctx context.Context) (string, error) {
	if p.username == "" {
		return "", ports.ErrAuthRequired
	}

	body, err := json.Marshal(map[string]string{
		"username": p.username,
		"password": p.password,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.loginURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: login timed out", ports.ErrAuthExpired)
		}
		return "", &ports.NetworkError{Cause: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to token extraction
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: login rejected with %s", ports.ErrUnauthorized, resp.Status)
	default:
		return "", &ports.TransmissionError{StatusCode: resp.StatusCode, Message: "login failed"}
	}

	token := strings.TrimPrefix(resp.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return "", &ports.ResponseParsingError{Cause: errors.New("login response carries no Authorization header")}
	}
	return token, nil
}

var (
	_ ports.TokenProvider = StaticToken("")
	_ ports.TokenProvider = (*LoginProvider)(nil)
)
