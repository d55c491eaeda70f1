package transport

import (
	"context"
	"net/http"
)

// Authenticator attaches credentials to an outgoing request
type Authenticator interface {
	Authenticate(ctx context.Context, req *http.Request) error
}

// AuthFunc adapts a function to Authenticator
type AuthFunc func(ctx context.Context, req *http.Request) error

func (f AuthFunc) Authenticate(ctx context.Context, req *http.Request) error {
	return f(ctx, req)
}

// BasicAuth sends the API key as the username with an empty password
type BasicAuth struct {
	Username string
	Password string
}

func (a BasicAuth) Authenticate(_ context.Context, req *http.Request) error {
	req.SetBasicAuth(a.Username, a.Password)
	return nil
}

// BearerToken sends "Authorization: Bearer <token>"
type BearerToken string

func (t BearerToken) Authenticate(_ context.Context, req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+string(t))
	return nil
}

// HeaderAuth installs an arbitrary credential header, e.g. "Authorization: Zoho-oauthtoken <t>"
type HeaderAuth struct {
	Name   string
	Prefix string
	Value  string
}

func (h HeaderAuth) Authenticate(_ context.Context, req *http.Request) error {
	req.Header.Set(h.Name, h.Prefix+h.Value)
	return nil
}
