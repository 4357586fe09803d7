package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client is a REST client for the remote progression backend with Bearer auth,
// a base URL, and retries on 429 and 5xx responses.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
}

// APIError represents a non-2xx HTTP response
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
	retryAfter string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior
type Option func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetries sets the retry budget and the base delay of the exponential backoff
func WithRetries(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// New creates a Client for baseURL authenticated with token
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterRequest is the body of POST /users/register
type RegisterRequest struct {
	ExtensionUserID string `json:"extensionUserId"`
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
}

// User is a registered backend user
type User struct {
	ID              string `json:"id"`
	ExtensionUserID string `json:"extensionUserId"`
	Username        string `json:"username"`
}

// CategoryScore is one category attached to a synced comment
type CategoryScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// CommentRequest is the body of POST /comments
type CommentRequest struct {
	ExtensionUserID string          `json:"extensionUserId"`
	CommentText     string          `json:"commentText"`
	Platform        string          `json:"platform"`
	Sentiment       string          `json:"sentiment"`
	ToxicityScore   float64         `json:"toxicityScore"`
	Categories      []CategoryScore `json:"categories"`
}

// CreatedComment is the backend's acknowledgement of a stored comment
type CreatedComment struct {
	ID string `json:"id"`
}

// UserRankResponse is returned by GET /leaderboard/user/{id}
type UserRankResponse struct {
	Rank int `json:"rank"`
}

// RegisterUser registers the local user with the backend
func (c *Client) RegisterUser(ctx context.Context, req RegisterRequest) (User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPost, PathRegister, req, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// CreateComment stores one comment record in the backend
func (c *Client) CreateComment(ctx context.Context, req CommentRequest) (CreatedComment, error) {
	if req.Categories == nil {
		req.Categories = []CategoryScore{}
	}
	var created CreatedComment
	if err := c.doJSON(ctx, http.MethodPost, PathComments, req, &created); err != nil {
		return CreatedComment{}, err
	}
	return created, nil
}

// GetUserRank returns the user's position on the weekly leaderboard
func (c *Client) GetUserRank(ctx context.Context, extensionUserID string) (int, error) {
	var resp UserRankResponse
	path := fmt.Sprintf(PathUserRankPattern, url.PathEscape(extensionUserID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Rank, nil
}

// doJSON sends body as JSON and decodes a 2xx response into dest.
// Returns *APIError for non-2xx responses once retries are exhausted.
func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	var lastErr *APIError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			t := time.NewTimer(c.backoffDelay(attempt, lastErr))
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if dest == nil || len(bytes.TrimSpace(respBody)) == 0 {
				return nil
			}
			return json.Unmarshal(respBody, dest)
		}

		bodyStr := string(respBody)
		if len(bodyStr) > maxErrorBody {
			bodyStr = bodyStr[:maxErrorBody]
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: bodyStr}

		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.retryAfter = resp.Header.Get("Retry-After")
			lastErr = apiErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = apiErr
			continue
		}

		return apiErr
	}

	return lastErr
}

// backoffDelay returns the wait before a retry: Retry-After for 429s, otherwise
// exponential from the configured base
func (c *Client) backoffDelay(attempt int, lastErr *APIError) time.Duration {
	if lastErr != nil && lastErr.StatusCode == http.StatusTooManyRequests && lastErr.retryAfter != "" {
		if secs, err := strconv.Atoi(lastErr.retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return c.backoff * time.Duration(1<<(attempt-1))
}
