package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Client is a cookie-aware JSON client for exercising the API end to end.
type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a JSON API client with a session cookie jar.
func NewClient(serverURL string) (*Client, error) {
	jar, err := newInsecureCookieJar()
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		client: &http.Client{Jar: jar}, //nolint:exhaustruct // default transport.
		url:    serverURL,
	}, nil
}

// insecureCookieJar strips the Secure attribute so that cookies flow over the
// plain-HTTP test server.
type insecureCookieJar struct {
	jar *cookiejar.Jar
}

func newInsecureCookieJar() (*insecureCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new cookie jar: %w", err)
	}
	return &insecureCookieJar{jar: jar}, nil
}

func (j *insecureCookieJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.jar.SetCookies(u, cookies)
}

func (j *insecureCookieJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

// WaitForReady polls the endpoint until it answers HTTP 200, the context is
// cancelled, or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+urlPath, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		resp, err := c.client.Do(req)
		if err == nil {
			closeErr := resp.Body.Close()
			if closeErr != nil {
				return fmt.Errorf("close response body: %w", closeErr)
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // poll interval.
		}
	}
}

// Response is a decoded API response.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// Decode unmarshals the response body into v.
func (r Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Get performs a GET request against the API.
func (c *Client) Get(ctx context.Context, urlPath string) (Response, error) {
	return c.do(ctx, http.MethodGet, urlPath, nil)
}

// Post performs a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, urlPath string, body any) (Response, error) {
	return c.do(ctx, http.MethodPost, urlPath, body)
}

// Login establishes a session for the athlete.
func (c *Client) Login(ctx context.Context, athleteID int64) error {
	resp, err := c.Post(ctx, fmt.Sprintf("/api/login/%d", athleteID), nil)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// Logout tears down the session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.Post(ctx, "/api/logout", nil)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, urlPath string, body any) (Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Response{}, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, reader)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Satisfies the cross-origin protection for non-browser clients.
	req.Header.Set("Sec-Fetch-Site", "none")

	resp, err := c.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%s %s: %w", method, urlPath, err)
	}
	defer resp.Body.Close() //nolint:errcheck // fully read below.

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Body: raw}, nil
}
