package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

var _ ports.Backend = (*Client)(nil)

const defaultTimeout = 30 * time.Second

// Environments the backend can be reached in.
const (
	EnvProduction = "production"
	EnvLocal      = "local"
	EnvNgrok      = "ngrok"
)

// Observer is told about every backend request once it completes. status is
// zero when no response was received.
type Observer func(endpoint string, status int, elapsed time.Duration)

// Config configures the backend client.
type Config struct {
	BaseURL  string
	Env      string
	Timeout  time.Duration
	Observer Observer
}

// Client talks to the QuoteMate backend API. It never retries.
type Client struct {
	http     *resty.Client
	observer Observer
	log      zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Env == EnvNgrok {
		rc.SetHeader("ngrok-skip-browser-warning", "true")
	}
	return &Client{http: rc, observer: cfg.Observer, log: log}
}

// do sends the request and returns the body of any HTTP response. Non-2xx
// responses come back as *domain.BackendError; transport failures wrap
// domain.ErrBackendUnavailable.
func (c *Client) do(ctx context.Context, req *resty.Request, method, endpoint string) ([]byte, int, error) {
	start := time.Now()
	resp, err := req.SetContext(ctx).Execute(method, endpoint)
	elapsed := time.Since(start)

	status := 0
	if resp != nil && resp.RawResponse != nil {
		status = resp.StatusCode()
	}
	if c.observer != nil {
		c.observer(endpoint, status, elapsed)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, 0, err
		}
		c.log.Warn().Err(err).Str("endpoint", endpoint).Dur("elapsed", elapsed).Msg("backend unreachable")
		return nil, 0, fmt.Errorf("%s: %w: %v", endpoint, domain.ErrBackendUnavailable, err)
	}

	body := resp.Body()
	if !resp.IsSuccess() {
		c.log.Debug().Str("endpoint", endpoint).Int("status", status).Msg("backend rejected request")
		return body, status, &domain.BackendError{Endpoint: endpoint, Status: status, Message: errorMessage(body)}
	}
	return body, status, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	req := c.http.R().
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	body, _, err := c.do(ctx, req, http.MethodPost, endpoint)
	return body, err
}

// errorMessage pulls a human readable message out of an error body. FastAPI
// uses "detail"; the account endpoints use "message".
func errorMessage(body []byte) string {
	var env struct {
		Message string          `json:"message"`
		Error   string          `json:"error"`
		Detail  json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &env) != nil {
		return ""
	}
	switch {
	case env.Message != "":
		return env.Message
	case env.Error != "":
		return env.Error
	case len(env.Detail) > 0:
		var s string
		if json.Unmarshal(env.Detail, &s) == nil {
			return s
		}
	}
	return ""
}

// requireJSON checks that body is a JSON document before it is passed on.
func requireJSON(endpoint string, body []byte) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s returned invalid JSON", domain.ErrBackendContract, endpoint)
	}
	return json.RawMessage(body), nil
}
