package twilio

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/interfaces"
	"github.com/memovox/memovox/pkg/utils/safe"
)

// DefaultFetchTimeout bounds a single media download when the caller's
// context carries no earlier deadline
const DefaultFetchTimeout = 30 * time.Second

// Client fetches MMS media from the Twilio API. Media URLs are
// authenticated with the account's basic auth credentials.
type Client struct {
	accountSID string
	authToken  string
	httpClient *http.Client
}

var _ interfaces.MediaSource = &Client{}

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new Twilio media client
func New(accountSID, authToken string, opts ...Option) (*Client, error) {
	if accountSID == "" || authToken == "" {
		return nil, goerr.New("Twilio account SID and auth token are required")
	}

	c := &Client{
		accountSID: accountSID,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Fetch downloads the media body from a Twilio media URL
func (c *Client) Fetch(ctx context.Context, mediaURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build media request", goerr.V("url", mediaURL))
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download media", goerr.V("url", mediaURL))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status from media endpoint",
			goerr.V("url", mediaURL),
			goerr.V("status", resp.StatusCode),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read media body", goerr.V("url", mediaURL))
	}

	return data, nil
}
