package http

import (
	"net/http"
	"time"
)

const DefaultTimeout = 15 * time.Second

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// AuthClient adds the catalog bearer token and JSON accept header to every
// request before handing it to the wrapped client. Failed requests are
// returned as is.
type AuthClient struct {
	client HTTPClient
	token  string
}

// ClientOption is a function that can be used to configure an AuthClient
type ClientOption func(*AuthClient)

// NewAuthClient creates an AuthClient that sends token as a bearer credential.
// An empty token sends no Authorization header.
func NewAuthClient(token string, opts ...ClientOption) *AuthClient {
	c := &AuthClient{
		client: &http.Client{Timeout: DefaultTimeout},
		token:  token,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithHTTPClient sets the http client requests are sent with
func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *AuthClient) {
		c.client = client
	}
}

// Do sends a copy of req carrying the auth headers.
func (c *AuthClient) Do(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if c.token != "" {
		out.Header.Set("Authorization", "Bearer "+c.token)
	}
	out.Header.Set("Accept", "application/json")

	return c.client.Do(out)
}
