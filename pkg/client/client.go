package client

import (
	"fmt"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/imbecility/yt-resolver/pkg/providers"
)

// DefaultTimeout is long enough for a full proxy relay.
const DefaultTimeout = 600 * time.Second

// Options configures the outbound client.
type Options struct {
	// Timeout bounds a whole exchange including the body read (defaults to 600s).
	Timeout time.Duration
	// InsecureSkipVerify accepts upstreams with broken certificates.
	InsecureSkipVerify bool
}

type tlsWrapper struct {
	innerClient tls_client.HttpClient
}

// Do converts the request to fhttp, keeping the context so callers can
// cancel, and converts the response back. The body is not read here.
func (w *tlsWrapper) Do(req *http.Request) (*http.Response, error) {
	fReq := &fhttp.Request{
		Method:        req.Method,
		URL:           req.URL,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        make(fhttp.Header),
		Body:          req.Body,
		ContentLength: req.ContentLength,
		Host:          req.Host,
	}
	fReq = fReq.WithContext(req.Context())

	for k, v := range req.Header {
		fReq.Header[k] = v
	}

	resp, err := w.innerClient.Do(fReq)
	if err != nil {
		return nil, err
	}

	netResp := &http.Response{
		Status:           resp.Status,
		StatusCode:       resp.StatusCode,
		Proto:            resp.Proto,
		ProtoMajor:       resp.ProtoMajor,
		ProtoMinor:       resp.ProtoMinor,
		ContentLength:    resp.ContentLength,
		Body:             resp.Body,
		Header:           make(http.Header),
		Uncompressed:     resp.Uncompressed,
		TransferEncoding: resp.TransferEncoding,
		Request:          req,
	}

	for k, v := range resp.Header {
		netResp.Header[k] = v
	}

	return netResp, nil
}

func NewHttpClient(opts Options) (providers.HTTPClient, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.Timeout / time.Second)),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithRandomTLSExtensionOrder(),
	}
	if opts.InsecureSkipVerify {
		options = append(options, tls_client.WithInsecureSkipVerify())
	}

	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	return &tlsWrapper{innerClient: c}, nil
}
