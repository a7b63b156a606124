package media

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Loader reads the images behind file and url values.
type Loader interface {
	ReadFile(ctx context.Context, path string) (*Image, error)
	ReadURL(ctx context.Context, rawURL string) (*Image, error)
}

// DefaultTimeout bounds a single HTTP image download.
const DefaultTimeout = 30 * time.Second

// LoaderOption is a configuration function for a SourceLoader.
type LoaderOption func(*SourceLoader)

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *SourceLoader) {
		l.client = client
	}
}

// WithS3 enables s3:// URLs, fetched through the given client.
func WithS3(client S3API) LoaderOption {
	return func(l *SourceLoader) {
		l.s3 = client
	}
}

// SourceLoader reads images from the local filesystem, over HTTP and, when
// configured, from S3. Any format registered with the image package is
// accepted: png, jpeg, gif, bmp and webp.
type SourceLoader struct {
	client *http.Client
	s3     S3API
}

var _ Loader = (*SourceLoader)(nil)

// NewLoader returns a SourceLoader configured with the given options.
func NewLoader(options ...LoaderOption) *SourceLoader {
	l := &SourceLoader{client: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// ReadFile decodes the image stored at path.
func (l *SourceLoader) ReadFile(ctx context.Context, path string) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imgio.Open(path)
	if err != nil {
		return nil, err
	}
	return NewImage(img, path), nil
}

// ReadURL decodes the image at rawURL. Supported schemes are file, http,
// https and s3.
func (l *SourceLoader) ReadURL(ctx context.Context, rawURL string) (*Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return l.ReadFile(ctx, u.Path)
	case "http", "https":
		return l.readHTTP(ctx, rawURL)
	case "s3":
		if l.s3 == nil {
			return nil, fmt.Errorf("s3 is not configured: %s", rawURL)
		}
		body, err := getS3Object(ctx, l.s3, u)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return decode(body, rawURL)
	default:
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
}

func (l *SourceLoader) readHTTP(ctx context.Context, rawURL string) (*Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: %s", rawURL, resp.Status)
	}
	return decode(resp.Body, rawURL)
}

func decode(r io.Reader, source string) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}
	return NewImage(img, source), nil
}
