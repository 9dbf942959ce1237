package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Client talks to the challenge backend.
//
// There is deliberately no retry policy anywhere on this surface: polling
// callers fire again on the next tick, and trade submissions must not be
// duplicated behind the user's back.
type Client struct {
	http *resty.Client
}

// BackendError carries a backend-supplied error message. The message is
// surfaced to the user verbatim.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}

// NewClient creates a backend client. baseURL is the backend root, e.g.
// http://127.0.0.1:5000.
func NewClient(baseURL string) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: http}
}

// StartChallenge resets the challenge ledger. The response body is ignored
// beyond the status code.
func (c *Client) StartChallenge(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/api/start_challenge")
	if err != nil {
		return errors.Wrap(err, "start challenge")
	}
	if !resp.IsSuccess() {
		return backendError(resp)
	}
	return nil
}

// Account fetches the current account snapshot. A null or empty body means
// "no challenge yet" and yields (nil, nil) so callers keep their last value.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/account")
	if err != nil {
		return nil, errors.Wrap(err, "fetch account")
	}
	if !resp.IsSuccess() {
		return nil, backendError(resp)
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}

	var account *Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, errors.Wrap(err, "decode account")
	}
	return account, nil
}

// Price fetches the latest quote for one ticker.
func (c *Client) Price(ctx context.Context, ticker string) (*Quote, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/price/" + url.PathEscape(ticker))
	if err != nil {
		return nil, errors.Wrapf(err, "fetch price %s", ticker)
	}
	if !resp.IsSuccess() {
		return nil, backendError(resp)
	}

	var quote Quote
	if err := json.Unmarshal(resp.Body(), &quote); err != nil {
		return nil, errors.Wrapf(err, "decode price %s", ticker)
	}
	return &quote, nil
}

// Trade submits one fixed-notional order. Success is a 2xx status; on
// failure the returned error carries the backend's error field verbatim.
func (c *Client) Trade(ctx context.Context, ticker string, side Side, amount int) (*TradeResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(TradeRequest{Ticker: ticker, Type: side, Amount: amount}).
		Post("/api/trade")
	if err != nil {
		return nil, errors.Wrapf(err, "submit trade %s %s", side, ticker)
	}
	if !resp.IsSuccess() {
		return nil, backendError(resp)
	}

	var result TradeResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, errors.Wrap(err, "decode trade result")
	}
	return &result, nil
}

// backendError extracts the {"error": "..."} body from a non-2xx response.
func backendError(resp *resty.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(resp.Body(), &body)
	if body.Error == "" {
		body.Error = fmt.Sprintf("backend returned %s", resp.Status())
	}
	return &BackendError{StatusCode: resp.StatusCode(), Message: body.Error}
}
