package githubsource

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/ramate-io/roadline-go/internal/circuitbreaker"
	"github.com/ramate-io/roadline-go/internal/retry"
)

const defaultTimeout = 30 * time.Second

// Client fetches roadmap markdown content from GitHub.
type Client struct {
	httpClient *http.Client
	token      string
	retry      *retry.Executor
	breaker    *circuitbreaker.CircuitBreaker
}

// NewClient constructs an unauthenticated Client. Requests retry every
// failure, error statuses included, with exponential backoff and trip a circuit breaker once a host
// fails consistently, so one unreachable source can't stall every caller
// sharing the Client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		retry:      retry.NewExecutor(retry.DefaultConfig()),
		breaker:    circuitbreaker.New(circuitbreaker.DefaultConfig()),
	}
}

// WithToken returns a copy of the Client that authenticates requests with
// a personal access token.
func (c *Client) WithToken(token string) *Client {
	return &Client{httpClient: c.httpClient, token: token, retry: c.retry, breaker: c.breaker}
}

// FetchResult is the outcome of a conditional fetch: the document's
// content (empty when the server reported 304 Not Modified) and the ETag
// to present on the next conditional fetch.
type FetchResult struct {
	Content    string
	ETag       string
	NotModified bool
}

// FetchContent fetches a document's raw content, unconditionally.
func (c *Client) FetchContent(ctx context.Context, url URL) (string, error) {
	result, err := c.fetchRaw(ctx, url.ToRawURL(), "")
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// FetchWithETag performs a conditional GET: if etag is non-empty and the
// server reports the content unchanged, the result carries NotModified
// and an empty Content. Pass the returned ETag back in on the next call.
func (c *Client) FetchWithETag(ctx context.Context, url URL, etag string) (FetchResult, error) {
	return c.fetchRaw(ctx, url.ToRawURL(), etag)
}

func (c *Client) fetchRaw(ctx context.Context, rawURL, etag string) (FetchResult, error) {
	var result FetchResult

	breakerErr := c.breaker.Execute(ctx, func() error {
		return c.retry.Execute(ctx, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
			if err != nil {
				return newError(FetchError, err.Error())
			}
			if c.token != "" {
				req.Header.Set("Authorization", fmt.Sprintf("token %s", c.token))
			}
			if etag != "" {
				req.Header.Set("If-None-Match", etag)
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return newError(FetchError, fmt.Sprintf("request to %s failed: %v", rawURL, err))
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotModified {
				log.Printf("githubsource: %s not modified (etag %s)", rawURL, etag)
				result = FetchResult{ETag: etag, NotModified: true}
				return nil
			}
			if resp.StatusCode >= 400 {
				return newError(FetchError, fmt.Sprintf("%s returned status %d", rawURL, resp.StatusCode))
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return newError(FetchError, fmt.Sprintf("reading response from %s: %v", rawURL, err))
			}

			result = FetchResult{Content: string(body), ETag: resp.Header.Get("ETag")}
			return nil
		})
	})
	if breakerErr != nil {
		return FetchResult{}, breakerErr
	}

	return result, nil
}
