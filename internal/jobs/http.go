package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	requestTimeout = 5 * time.Second
	retryBackoff   = 250 * time.Millisecond
)

// HTTPClient talks to the provider's REST API. Each call gets its own
// deadline and one retry on timeout or 5xx.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient constructs a provider client for baseURL.
func NewHTTPClient(baseURL, apiKey string) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("JOB_PROVIDER_URL is required")
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

func (c *HTTPClient) GetJob(ctx context.Context, jobID string) (Job, error) {
	var job Job
	endpoint := c.baseURL + "/jobs/" + url.PathEscape(jobID)
	if err := c.doWithRetry(ctx, http.MethodGet, endpoint, nil, &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

func (c *HTTPClient) PrepareApplication(ctx context.Context, app Application) (Receipt, error) {
	body, err := json.Marshal(app)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode application: %w", err)
	}
	var receipt Receipt
	endpoint := c.baseURL + "/jobs/" + url.PathEscape(app.JobID) + "/applications"
	if err := c.doWithRetry(ctx, http.MethodPost, endpoint, body, &receipt); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// doWithRetry performs the request, retrying once when the provider timed
// out or answered 5xx. 4xx answers are terminal.
func (c *HTTPClient) doWithRetry(ctx context.Context, method, endpoint string, body []byte, out any) error {
	err := c.do(ctx, method, endpoint, body, out)
	if err == nil || !retryable(err) {
		return err
	}

	select {
	case <-ctx.Done():
		return translateCtx(ctx.Err())
	case <-time.After(retryBackoff):
	}
	return c.do(ctx, method, endpoint, body, out)
}

func retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrUpstream)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return ErrTimeout
		}
		return fmt.Errorf("job provider request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	case resp.StatusCode >= 400:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("job provider rejected request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode job provider response: %w", err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func translateCtx(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

var _ Client = (*HTTPClient)(nil)
