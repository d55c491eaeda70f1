package zohorecruit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/honeycarbs/atsbridge/pkg/atserr"
	"github.com/honeycarbs/atsbridge/pkg/logging"
	"github.com/honeycarbs/atsbridge/pkg/transport"
)

const (
	// tokens are refreshed this long before they expire
	tokenEarlyExpiry = 60 * time.Second

	// used when the token endpoint omits expires_in
	defaultTokenLifetime = 3600 * time.Second

	tokenRequestTimeout = 10 * time.Second
)

// refresher exchanges the long-lived refresh token for an access token on every call.
// Caching lives in the reuse source wrapped around it.
type refresher struct {
	conf         *oauth2.Config
	refreshToken string
	httpClient   *http.Client
	logger       *logging.Logger
	now          func() time.Time
}

// NewTokenSource returns a concurrency-safe source that refreshes only when the
// cached token is absent or within a minute of expiry
func NewTokenSource(conf *oauth2.Config, refreshToken string, httpClient *http.Client, logger *logging.Logger) oauth2.TokenSource {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: tokenRequestTimeout}
	}
	r := &refresher{
		conf:         conf,
		refreshToken: refreshToken,
		httpClient:   httpClient,
		logger:       logging.OrNop(logger),
		now:          time.Now,
	}
	return oauth2.ReuseTokenSourceWithExpiry(nil, r, tokenEarlyExpiry)
}

func (r *refresher) Token() (*oauth2.Token, error) {
	r.logger.Info("refreshing Zoho access token")

	// Detached from any request: the refreshed token is shared by every caller
	ctx, cancel := context.WithTimeout(context.Background(), tokenRequestTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)

	tok, err := r.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: r.refreshToken}).Token()
	if err != nil {
		return nil, r.classify(err)
	}
	if tok.AccessToken == "" {
		return nil, atserr.Authentication("Invalid response from Zoho token endpoint")
	}
	if tok.Expiry.IsZero() {
		tok.Expiry = r.now().Add(defaultTokenLifetime)
	}
	return tok, nil
}

func (r *refresher) classify(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		r.logger.Error("failed to refresh Zoho token", "body", string(re.Body), "err", err)
		return atserr.Authentication("Failed to refresh Zoho access token").Wrap(err)
	}

	var ue *url.Error
	var ne net.Error
	if errors.As(err, &ue) || errors.As(err, &ne) {
		r.logger.Error("connection error while refreshing Zoho token", "err", err)
		return atserr.Connection("Failed to connect to Zoho token service", err)
	}

	r.logger.Error("invalid response from Zoho token endpoint", "err", err)
	return atserr.Authentication("Invalid response from Zoho token endpoint").Wrap(err)
}

// tokenAuth installs "Authorization: Zoho-oauthtoken <token>"
func tokenAuth(ts oauth2.TokenSource) transport.Authenticator {
	return transport.AuthFunc(func(ctx context.Context, req *http.Request) error {
		tok, err := tokenWithContext(ctx, ts)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Zoho-oauthtoken "+tok.AccessToken)
		return nil
	})
}

// tokenWithContext stops waiting for ts once ctx is done. An abandoned refresh
// keeps running on its own deadline and still fills the cache.
func tokenWithContext(ctx context.Context, ts oauth2.TokenSource) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, atserr.Connection("Request to ATS service was cancelled", err)
	}

	type result struct {
		tok *oauth2.Token
		err error
	}
	ch := make(chan result, 1)
	go func() {
		tok, err := ts.Token()
		ch <- result{tok: tok, err: err}
	}()

	select {
	case r := <-ch:
		return r.tok, r.err
	case <-ctx.Done():
		return nil, atserr.Connection("Request to ATS service was cancelled", ctx.Err())
	}
}
