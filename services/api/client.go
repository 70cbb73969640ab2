// Package api is the typed HTTP client for the AcademyOS backend.
// The backend stays an opaque REST/JSON collaborator; this package
// only shapes requests, decodes responses and maps failures onto the
// app error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/Kwesikendy/academyos/core"
	"github.com/Kwesikendy/academyos/core/session"
)

// TokenSource supplies the current bearer token; empty string means
// unauthenticated. The session store is the usual implementation.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	logger  core.Logger

	authRejectHook func()
}

func NewClient(conf core.APIConfig, tokens TokenSource, logger core.Logger) *Client {
	rps := conf.RequestsPerS
	if rps <= 0 {
		rps = 20
	}
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Timeout},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		logger:  logger,
	}
}

// StaticToken is a fixed TokenSource for request-scoped clients.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// WithToken returns a shallow copy of the client reading its bearer
// token from tokens; transport, limiter and hooks stay shared.
func (c *Client) WithToken(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

// OnAuthReject registers fn to run whenever any call comes back 401.
// The session store hooks itself here so a rejected token anywhere
// clears the session.
func (c *Client) OnAuthReject(fn func()) {
	c.authRejectHook = fn
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "waiting for rate limiter")
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// transport failures (timeouts included) are transient, never auth
		return &TransientError{Err: err}
	}
	//goland:noinspection GoUnhandledErrorResult
	defer resp.Body.Close()

	if err = c.checkResponse(resp); err != nil {
		return err
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decoding response body")
	}
	return nil
}

// getBytes fetches a raw (non-JSON) resource, e.g. a profile image.
// Returns the body and its content type.
func (c *Client) getBytes(ctx context.Context, path string) ([]byte, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, "", errors.Wrap(err, "waiting for rate limiter")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", errors.Wrap(err, "building request")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &TransientError{Err: err}
	}
	//goland:noinspection GoUnhandledErrorResult
	defer resp.Body.Close()
	if err = c.checkResponse(resp); err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.Wrap(err, "reading response body")
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// errorBody is the backend's error envelope. Field-level detail, when
// present, is preserved so forms can render errors inline.
type errorBody struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

func (c *Client) checkResponse(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body) // best effort
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if c.authRejectHook != nil {
			c.authRejectHook()
		}
		return errors.Wrap(session.ErrAuthRejected, msg)
	case resp.StatusCode == http.StatusForbidden:
		return errors.Wrap(ErrForbidden, msg)
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrap(ErrNotFound, msg)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		flds := make([]core.FieldError, 0, len(body.Errors))
		for field, fmsg := range body.Errors {
			flds = append(flds, core.FieldError{Field: field, Error: fmsg})
		}
		return core.NewValidationError(errors.New(msg), flds...)
	default: // 5xx and anything unexpected
		return &TransientError{Status: resp.StatusCode, Err: errors.New(msg)}
	}
}
