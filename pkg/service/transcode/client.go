package transcode

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/interfaces"
	"github.com/memovox/memovox/pkg/utils/safe"
)

// DefaultTimeout bounds a single conversion round-trip when the caller's
// context carries no earlier deadline
const DefaultTimeout = 30 * time.Second

// Client converts carrier audio codecs into MP3 via an external converter
// service. Voice notes typically arrive as AMR or 3GP, which the speech
// backend does not accept directly.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ interfaces.Transcoder = &Client{}

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new converter client for the given endpoint base URL
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, goerr.New("converter base URL is required")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Convert posts the raw audio as a multipart upload and returns the MP3 body
func (c *Client) Convert(ctx context.Context, data []byte, contentType string) ([]byte, error) {
	if len(data) == 0 {
		return nil, goerr.New("empty audio payload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("audio", "input"+extensionFor(contentType))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build multipart body")
	}
	if _, err := part.Write(data); err != nil {
		return nil, goerr.Wrap(err, "failed to write audio payload")
	}
	if err := mw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", &buf)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build convert request")
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call converter")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("unexpected status from converter",
			goerr.V("status", resp.StatusCode),
			goerr.V("contentType", contentType),
		)
	}

	converted, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read converted audio")
	}
	if len(converted) == 0 {
		return nil, goerr.New("converter returned an empty body")
	}

	return converted, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "audio/amr":
		return ".amr"
	case "audio/3gpp", "audio/3gpp2":
		return ".3gp"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	default:
		return ".bin"
	}
}
