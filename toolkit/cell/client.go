package cell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/markusylisiurunen/wavetracker/internal/logger"
)

const (
	DefaultBaseURL = "https://opencellid.org/cell/get"
	DefaultTimeout = 15 * time.Second

	maxBodySize = 1 << 20
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Lookuper interface {
	Lookup(ctx context.Context, q Query) (Record, error)
}

var _ Lookuper = (*Client)(nil)

type ClientOption func(*Client)

func WithDoer(doer Doer) ClientOption {
	return func(c *Client) { c.doer = doer }
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.timeout = timeout }
}

// Client queries the tower database. It holds no mutable state and is safe to
// share between goroutines.
type Client struct {
	logger  logger.Logger
	key     string
	baseURL string
	timeout time.Duration
	doer    Doer
}

func NewClient(logger logger.Logger, key, baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		logger:  logger,
		key:     key,
		baseURL: baseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: c.timeout}
	}
	return c
}

// Lookup issues exactly one request. A non-nil error is always a *LookupError.
func (c *Client) Lookup(ctx context.Context, q Query) (Record, error) {
	log := logger.With(c.logger, "request_id", uuid.NewString())
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Record{}, &LookupError{Kind: KindTransport, Message: fmt.Sprintf("invalid base url: %v", err), Err: err}
	}
	params := q.Values(c.key)
	for k, vs := range u.Query() {
		if !params.Has(k) {
			params[k] = vs
		}
	}
	u.RawQuery = params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Record{}, &LookupError{Kind: KindTransport, Message: fmt.Sprintf("error creating request: %v", err), Err: err}
	}
	log.Debug("looking up cell mcc=%d mnc=%d lac=%d cellid=%d", q.MCC, q.MNC, q.LAC, q.CellID)
	resp, err := c.doer.Do(req)
	if err != nil {
		log.Error("error calling tower database: %v", err)
		return Record{}, &LookupError{Kind: KindTransport, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		log.Error("non-ok status (%d) from tower database", resp.StatusCode)
		return Record{}, &LookupError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Error("error reading response body: %v", err)
		return Record{}, &LookupError{Kind: KindTransport, Message: transportMessage(err), Err: err}
	}
	log.Debugj("tower database response", body)
	record, err := Parse(body)
	if err != nil {
		log.Info("lookup failed: %v", err)
		return Record{}, err
	}
	return record, nil
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	return fmt.Sprintf("request failed: %v", err)
}
