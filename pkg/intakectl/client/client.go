package client

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Submission mirrors the admin API representation of a stored submission.
type Submission struct {
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	SourceIP  string    `json:"sourceIP,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionList is the admin listing payload.
type SubmissionList struct {
	Submissions []Submission `json:"submissions"`
	Total       int64        `json:"total"`
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
}

// Health is the service health payload.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type apiError struct {
	Error string `json:"error"`
}

// Client talks to the contact-intake admin API.
type Client struct {
	rest *resty.Client
}

type Option func(*Client)

// WithTimeout overrides the default 30s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.rest.SetTimeout(d)
	}
}

// WithInsecureTLS disables certificate verification, for lab setups only.
func WithInsecureTLS() Option {
	return func(c *Client) {
		c.rest.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) // #nosec G402
	}
}

// New builds a client for the given server base URL. The token is attached
// as a bearer token on every request; it may be empty for health checks.
func New(server, token string, opts ...Option) (*Client, error) {
	if server == "" {
		return nil, errors.New("server is required")
	}
	rest := resty.New().
		SetBaseURL(strings.TrimRight(server, "/")).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "intakectl")
	if token != "" {
		rest.SetAuthToken(token)
	}

	c := &Client{rest: rest}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListSubmissions fetches a page of stored submissions.
func (c *Client) ListSubmissions(ctx context.Context, limit, offset int) (*SubmissionList, error) {
	var (
		list   SubmissionList
		apiErr apiError
	)
	resp, err := c.rest.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetQueryParam("offset", strconv.Itoa(offset)).
		SetResult(&list).
		SetError(&apiErr).
		Get("/contact/submissions")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, httpError(resp, apiErr)
	}
	return &list, nil
}

// GetSubmission fetches a single submission by reference.
func (c *Client) GetSubmission(ctx context.Context, reference string) (*Submission, error) {
	if reference == "" {
		return nil, errors.New("reference is required")
	}
	var (
		sub    Submission
		apiErr apiError
	)
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&sub).
		SetError(&apiErr).
		Get("/contact/submissions/" + reference)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, httpError(resp, apiErr)
	}
	return &sub, nil
}

// GetHealth fetches the service health endpoint.
func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	var health Health
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&health).
		Get("/healthz")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, httpError(resp, apiError{})
	}
	return &health, nil
}

// HTTPError carries the API status code and message for failed requests.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
}

func httpError(resp *resty.Response, apiErr apiError) error {
	msg := strings.TrimSpace(apiErr.Error)
	if msg == "" {
		msg = strings.TrimSpace(string(resp.Body()))
	}
	if msg == "" {
		msg = resp.Status()
	}
	return &HTTPError{StatusCode: resp.StatusCode(), Message: msg}
}
