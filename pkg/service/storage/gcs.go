package storage

import (
	"context"
	"fmt"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/interfaces"
)

// Client archives raw voice-note audio in a Cloud Storage bucket. The
// archive is best effort: losing an object never blocks ingestion.
type Client struct {
	client *gcs.Client
	bucket string
	prefix string
}

var _ interfaces.AudioArchive = &Client{}

// Option is a functional option for client configuration
type Option func(*Client)

// WithPrefix prepends a path prefix to every object key
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = strings.TrimSuffix(prefix, "/") + "/"
	}
}

// New creates a new Cloud Storage archive client
func New(ctx context.Context, bucket string, opts ...Option) (*Client, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	c := &Client{
		client: client,
		bucket: bucket,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Save uploads the audio under the given key and returns a gs:// reference
func (c *Client) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", goerr.New("object key is required")
	}

	objectName := c.prefix + key
	w := c.client.Bucket(c.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", goerr.Wrap(err, "failed to write audio object",
			goerr.V("bucket", c.bucket),
			goerr.V("object", objectName),
		)
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize audio object",
			goerr.V("bucket", c.bucket),
			goerr.V("object", objectName),
		)
	}

	return fmt.Sprintf("gs://%s/%s", c.bucket, objectName), nil
}

// Close releases the underlying storage client
func (c *Client) Close() error {
	return c.client.Close()
}
