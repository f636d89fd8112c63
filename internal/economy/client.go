package economy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keshon/coinbridge/internal/metrics"
)

const (
	DefaultCallTimeout  = 5 * time.Second
	DefaultProbeTimeout = 2 * time.Second

	// maxBodySize caps how much of a response is read.
	maxBodySize = 1 << 20
)

type Options struct {
	BaseURL      string
	APIKey       string
	CallTimeout  time.Duration
	ProbeTimeout time.Duration
	HTTPClient   *http.Client
	Logger       zerolog.Logger
}

// Client is safe for concurrent use; it holds one shared http.Client and the
// header set sent with every request.
type Client struct {
	baseURL      string
	apiKey       string
	callTimeout  time.Duration
	probeTimeout time.Duration
	http         *http.Client
	log          zerolog.Logger
}

func NewClient(opts Options) *Client {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = DefaultProbeTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		apiKey:       opts.APIKey,
		callTimeout:  opts.CallTimeout,
		probeTimeout: opts.ProbeTimeout,
		http:         opts.HTTPClient,
		log:          opts.Logger,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Call performs one POST <base>/<action> with payload as the JSON body.
//
// A nil error means the API answered: check Response.OK and Response.Err.
// Network failures return *ConnError (errors.Is(err, ErrUnavailable)); any
// other error is unexpected.
func (c *Client) Call(ctx context.Context, action Action, payload any) (*Response, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: encode payload: %w", action, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(action), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", action, err)
	}
	requestID := uuid.NewString()
	c.setHeaders(req, requestID)

	logger := c.log.With().Str("action", action.String()).Str("request_id", requestID).Logger()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPICall(action.String(), "unreachable", time.Since(start))
		logger.Debug().Err(err).Dur("took", time.Since(start)).Msg("economy api unreachable")
		return nil, &ConnError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		metrics.ObserveAPICall(action.String(), "unreachable", time.Since(start))
		if isNetworkError(ctx, err) {
			return nil, &ConnError{Action: action, Err: err}
		}
		return nil, fmt.Errorf("%s: read response: %w", action, err)
	}

	out := &Response{Action: action, Status: resp.StatusCode}
	if resp.StatusCode == http.StatusOK {
		out.Body = raw
		// The plugin occasionally reports failures with a 200 and an error field.
		if msg, ok := errorField(raw); ok && msg != "" {
			out.Err = msg
		}
	} else {
		out.Err = errorMessage(resp.StatusCode, raw)
	}

	result := "ok"
	if out.Err != "" {
		result = "error"
	}
	metrics.ObserveAPICall(action.String(), result, time.Since(start))
	logger.Debug().Int("status", resp.StatusCode).Dur("took", time.Since(start)).Str("error", out.Err).Msg("economy api call")

	return out, nil
}

// Probe reports whether the API answers at all. Any status below 500 counts as
// available, including 4xx; network failures and timeouts do not.
func (c *Client) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(ActionBalance), nil)
	if err != nil {
		return false
	}
	c.setHeaders(req, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Msg("availability probe failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	return resp.StatusCode < http.StatusInternalServerError
}

func (c *Client) endpoint(action Action) string {
	return c.baseURL + "/" + string(action)
}

func (c *Client) setHeaders(req *http.Request, requestID string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("X-Request-ID", requestID)
}

// errorMessage extracts {"error": "..."} from a non-200 body, or synthesizes
// a message from the status code and raw text.
func errorMessage(status int, raw []byte) string {
	msg, ok := errorField(raw)
	if !ok {
		return fmt.Sprintf("HTTP error %d: %s", status, strings.TrimSpace(string(raw)))
	}
	if msg == "" {
		return "unknown error"
	}
	return msg
}

// errorField reports the "error" string of a JSON object body. ok is false
// when the body is not a JSON object.
func errorField(raw []byte) (string, bool) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", false
	}
	field, exists := body["error"]
	if !exists {
		return "", true
	}
	var msg string
	if err := json.Unmarshal(field, &msg); err != nil {
		return strings.Trim(string(field), `"`), true
	}
	return msg, true
}

func isNetworkError(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
