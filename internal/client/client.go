package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// ErrUnauthorized reports a 401 response. The stored token has already
// been cleared by the time the caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is any non-2xx response other than 401, carrying the server's
// detail message when one was provided.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client issues requests against the API. It is the sole point where raw
// transport and status errors become uniform failure values.
type Client struct {
	BaseURL string
	Tokens  TokenStore
	HTTP    *http.Client
}

// New builds a client against baseURL, falling back to the TM_API_URL
// environment variable and then to the local development address.
func New(baseURL string, tokens TokenStore) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("TM_API_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/v1"
	}
	if tokens == nil {
		tokens = &MemoryStore{}
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Tokens:  tokens,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Request performs one API call. A non-nil body is JSON-encoded. On 2xx
// the response body is decoded as JSON when it parses, otherwise returned
// as raw text. On 401 the token is cleared and ErrUnauthorized returned;
// any other non-2xx becomes an *APIError with the body's "detail" field
// when present, else "message", else a generic one.
func (c *Client) Request(ctx context.Context, method, path string, body any) (any, error) {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return string(raw), nil
	}
	return parsed, nil
}

// Call performs one API call and decodes the 2xx JSON body into out.
// A nil out discards the body.
func (c *Client) Call(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.Tokens.Clear()
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(raw, resp.StatusCode)}
	}
	return raw, nil
}

// errorMessage extracts detail, then message, then falls back to a
// generic status line.
func errorMessage(raw []byte, status int) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fmt.Sprintf("API error: %d", status)
}
