package wildlens

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wildlens_tours/internal/adapters/observability"
	"wildlens_tours/internal/domain"
)

// Client talks to the WildLens Tours API. All requests are rate limited
// client-side; transient failures (429/5xx, network errors) are retried with
// jittered exponential backoff, honoring Retry-After when the server sends
// one. Non-transient HTTP failures surface as domain.TransportError and
// contract violations as domain.ProtocolError.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) FetchTours(ctx context.Context) ([]domain.Tour, error) {
	var out []domain.Tour
	if err := c.do(ctx, http.MethodGet, "/tour/alltours", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddReview(ctx context.Context, token, tourID string, rating int, content string) (domain.ReviewAck, error) {
	body := map[string]any{"tourId": tourID, "rating": rating, "content": content}
	var ack domain.ReviewAck
	if err := c.do(ctx, http.MethodPost, "/tour/addreview", token, body, &ack); err != nil {
		return domain.ReviewAck{}, err
	}
	return ack, nil
}

func (c *Client) CreateOrder(ctx context.Context, amount float64) (domain.Order, error) {
	body := map[string]any{"amount": amount}
	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/tour/create-order", "", body, &order); err != nil {
		return domain.Order{}, err
	}
	if order.ID == "" {
		return domain.Order{}, &domain.ProtocolError{Op: "create-order", Detail: "empty or id-less response body"}
	}
	return order, nil
}

func (c *Client) ActivateAccount(ctx context.Context, token string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/user/activateaccount", token, map[string]any{}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ---- Internals ----

// do performs one API call with rate limiting, retries, and JSON decode into
// out. Retries on 429 and transient 5xx. A bearer token, when non-empty, is
// sent as an Authorization header.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return err
		}
	}

	url := c.base + path
	start := time.Now()
	var lastErr error
	for i := 0; i < 4; i++ {
		// fresh request each attempt
		var rd io.Reader
		if payload != nil {
			rd = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "wildlens-tours/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return &domain.TransportError{Op: path, Err: ctx.Err()}
			}
			lastErr = &domain.TransportError{Op: path, Err: err}
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return &domain.TransportError{Op: path, Err: ctx.Err()}
			}
			observability.ObserveExternal("wildlens", path, 0, time.Since(start))
			return lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			observability.ObserveExternal("wildlens", path, resp.StatusCode, time.Since(start))
			if err := decodeBody(resp.Body, out); err != nil {
				resp.Body.Close()
				return &domain.ProtocolError{Op: path, Detail: err.Error()}
			}
			resp.Body.Close()
			return nil

		case http.StatusNoContent:
			// contract requires a body on every success path
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			observability.ObserveExternal("wildlens", path, resp.StatusCode, time.Since(start))
			return &domain.ProtocolError{Op: path, Detail: "missing response body"}

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.TransportError{Op: path, Status: resp.StatusCode}
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return &domain.TransportError{Op: path, Err: ctx.Err()}
			}
			observability.ObserveExternal("wildlens", path, resp.StatusCode, time.Since(start))
			return lastErr

		default:
			// read a small error body; the server may carry an explicit
			// rejection message worth surfacing
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			observability.ObserveExternal("wildlens", path, resp.StatusCode, time.Since(start))
			if msg := serverMessage(b); msg != "" {
				return &domain.BusinessRejection{Op: path, Message: msg}
			}
			return &domain.TransportError{Op: path, Status: resp.StatusCode}
		}
	}

	return lastErr
}

// decodeBody decodes a required JSON body into out; an empty body is a
// contract violation, not a success.
func decodeBody(r io.Reader, out any) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return errors.New("missing response body")
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(b, out)
}

// serverMessage pulls a {"message": ...} out of an error body, if present.
func serverMessage(b []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &e) == nil {
		return e.Message
	}
	return ""
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	// seconds form
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	// HTTP-date form
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0                  // 0..1
	j := time.Duration(0.5 * f * float64(base)) // up to +50%
	return base + j
}
