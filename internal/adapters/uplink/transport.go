package uplink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/movetrack/tracksync/internal/ports"
)

const measurementsPath = "/measurements/"

// maxErrorBodyLen bounds how much of an error response is kept for reporting.
const maxErrorBodyLen = 4 << 10

// HTTPTransport uploads measurement slices to a collector endpoint. One
// request per slice; the orchestrator owns retries and sequencing.
type HTTPTransport struct {
	client      *http.Client
	uploadURL   string
	contentType string
}

// NewHTTPTransport validates the endpoint URL and derives the upload route.
// The format decides the Content-Type: FormatBinary sends the packed
// container, everything else the legacy JSON payload.
func NewHTTPTransport(endpoint, format string, timeout time.Duration) (*HTTPTransport, error) {
	u, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint url %q: unsupported scheme %q", endpoint, u.Scheme)
	}

	contentType := "application/json"
	if format == ports.FormatBinary {
		contentType = "application/octet-stream"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPTransport{
		client:      &http.Client{Timeout: timeout},
		uploadURL:   u.String() + measurementsPath,
		contentType: contentType,
	}, nil
}

func (t *HTTPTransport) Send(ctx context.Context, token string, payload []byte) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uploadURL, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", t.contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, &ports.NetworkError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))
	if err != nil {
		return 0, &ports.ResponseParsingError{Cause: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return int64(len(payload)), nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return 0, fmt.Errorf("%w: server answered %s", ports.ErrUnauthorized, resp.Status)
	case resp.StatusCode == http.StatusBadRequest:
		return 0, &ports.BadRequestError{Message: strings.TrimSpace(string(body))}
	default:
		return 0, &ports.TransmissionError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
}

var _ ports.Transport = (*HTTPTransport)(nil)
