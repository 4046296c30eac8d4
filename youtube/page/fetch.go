package page

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/kokiebisu/sonus/config"
	"github.com/kokiebisu/sonus/httputil"
)

const defaultRetryBase = 500 * time.Millisecond

// TransportError is a failed fetch: either the request did not complete (Err
// is set) or the server answered with a non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
	// Body holds the start of a non-2xx response body.
	Body []byte
}

func (e *TransportError) Error() string {
	if nil != e.Err {
		return "fetch " + e.URL + ": " + e.Err.Error()
	}

	return "fetch " + e.URL + ": unexpected status code " + strconv.Itoa(e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) retryable() bool {
	if nil != e.Err {
		return !errors.Is(e.Err, context.Canceled)
	}

	return httputil.IsRetryableStatus(e.StatusCode)
}

type Fetcher struct {
	client    *http.Client
	conf      config.Fetcher
	retryBase time.Duration
}

type Option func(*Fetcher)

func WithRetryBase(d time.Duration) Option {
	return func(f *Fetcher) { f.retryBase = d }
}

func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

func NewFetcher(conf config.Fetcher, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: conf.Timeout.Duration}, //nolint:exhaustruct
		conf:      conf,
		retryBase: defaultRetryBase,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch returns the body of url as text.
func (f *Fetcher) Fetch(ctx context.Context, logger zerolog.Logger, url string) (string, error) {
	b, err := f.FetchBytes(ctx, logger, url)
	if nil != err {
		return "", err
	}

	return string(b), nil
}

// FetchBytes GETs url, retrying timeouts, 429 and 5xx responses with
// Fibonacci backoff. Every failure is a *TransportError.
func (f *Fetcher) FetchBytes(ctx context.Context, logger zerolog.Logger, url string) ([]byte, error) {
	url = Normalize(url)
	logger = logger.With().Str("url", url).Logger()

	var (
		body    []byte
		attempt int
	)
	backoff := retry.WithMaxRetries(uint64(f.conf.Retries()), retry.NewFibonacci(f.retryBase)) //nolint:gosec
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		b, err := f.get(ctx, url)
		if nil != err {
			var terr *TransportError
			if errors.As(err, &terr) && terr.retryable() {
				logger.Debug().Err(err).Int("attempt", attempt).Msg("Retrying page fetch")
				return retry.RetryableError(err)
			}

			return err
		}
		body = b

		return nil
	})
	if nil != err {
		var terr *TransportError
		if !errors.As(err, &terr) {
			terr = &TransportError{URL: url, Err: err}
		}
		logger.Debug().
			Err(terr).
			Int("attempts", attempt).
			Bytes("response_body", terr.Body).
			Msg("Page fetch failed")

		return nil, terr
	}

	return body, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (b []byte, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if nil != err {
		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to create request: %v", err)}
	}

	req.Header.Set("User-Agent", f.conf.UserAgent)
	req.Header.Set("Accept-Language", f.conf.AcceptLanguage)

	resp, err := f.client.Do(req)
	if nil != err {
		if errors.Is(err, context.Canceled) {
			return nil, &TransportError{URL: url, Err: context.Canceled}
		}

		return nil, &TransportError{URL: url, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); nil != closeErr {
			err = errors.Join(err, &TransportError{URL: url, Err: fmt.Errorf("failed to close response body: %v", closeErr)})
		}
	}()

	if code := resp.StatusCode; !httputil.IsSuccessStatus(code) {
		return nil, &TransportError{URL: url, StatusCode: code, Body: httputil.ErrorBodySnippet(resp)}
	}

	b, err = httputil.ReadResponseBody(resp)
	if nil != err {
		return nil, &TransportError{URL: url, Err: err}
	}

	return b, nil
}

// Normalize adds the https scheme to scheme-less URLs such as
// "www.youtube.com/watch?v=id".
func Normalize(url string) string {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}

	return "https://" + strings.TrimPrefix(url, "//")
}
