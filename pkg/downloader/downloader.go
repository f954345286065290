package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/imbecility/yt-resolver/pkg/providers"
)

const DefaultChunkSize = 32 * 1024

// ErrInvalidURL is returned for an empty or non-http(s) upstream URL.
var ErrInvalidURL = errors.New("invalid upstream url")

// UpstreamError means the upstream could not be opened.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s: http status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Downloader opens upstream byte streams for the proxy.
type Downloader struct {
	Client    providers.HTTPClient
	ChunkSize int
}

// Stream is an open upstream response. The caller must Close it.
type Stream struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	Filename      string
	chunkSize     int
	read          int64
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return u, nil
}

// Open issues a single streaming GET. The body is not read.
func (d *Downloader) Open(ctx context.Context, rawURL string) (*Stream, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &UpstreamError{URL: u.Redacted(), Err: err}
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: u.Redacted(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cerr := resp.Body.Close()
		if cerr != nil {
			slog.Warn("Error closing response body", "error", cerr)
		}
		return nil, &UpstreamError{URL: u.Redacted(), StatusCode: resp.StatusCode}
	}

	size := d.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	return &Stream{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		Filename:      filenameFor(resp.Header.Get("Content-Disposition"), u),
		chunkSize:     size,
	}, nil
}

// Chunks yields the body in order, reusing one buffer. Reading only happens
// when the consumer asks for the next chunk, so a slow consumer slows the
// upstream read. A yielded slice is valid until the next iteration.
func (s *Stream) Chunks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		buf := make([]byte, s.chunkSize)
		for {
			n, err := s.Body.Read(buf)
			if n > 0 {
				s.read += int64(n)
				if !yield(buf[:n], nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// BytesRead is the number of bytes pulled from upstream so far.
func (s *Stream) BytesRead() int64 { return s.read }

func (s *Stream) Close() error {
	return s.Body.Close()
}

// filenameFor prefers the upstream Content-Disposition name, then the last
// URL path segment when it looks like a file.
func filenameFor(disposition string, u *url.URL) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := path.Base(params["filename"]); name != "" && name != "." && name != "/" {
				return name
			}
		}
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || !strings.Contains(base, ".") {
		return ""
	}
	return base
}
