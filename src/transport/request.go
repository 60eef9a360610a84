// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package transport

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/tlsctx"
)

type requestSettings struct {
	adapterOpts     []Option
	header          http.Header
	timeout         time.Duration
	verification    tlsctx.Verification
	followRedirects *bool
}

// RequestOption configures [Request] and its wrappers.
type RequestOption func(*requestSettings)

// WithPKCS12 authenticates the request with an [Adapter] built from opts.
// Without it the request is sent without a client certificate.
func WithPKCS12(opts ...Option) RequestOption {
	return func(r *requestSettings) { r.adapterOpts = append(r.adapterOpts, opts...) }
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *requestSettings) { r.header.Add(key, value) }
}

// WithTimeout bounds the whole exchange, body included.
func WithTimeout(d time.Duration) RequestOption {
	return func(r *requestSettings) { r.timeout = d }
}

// WithVerify sets the server verification for the request.
func WithVerify(v tlsctx.Verification) RequestOption {
	return func(r *requestSettings) { r.verification = v }
}

// WithRedirects overrides the method's default redirect policy.
func WithRedirects(follow bool) RequestOption {
	return func(r *requestSettings) { r.followRedirects = &follow }
}

// Request sends one request. With [WithPKCS12] it builds a [Session], mounts
// a fresh [Adapter] on "https://" and releases both when the response body
// is closed (or right away on error).
//
// Redirects are followed unless [WithRedirects] says otherwise.
func Request(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, method, rawURL, body, true, opts)
}

// Get sends a GET request, following redirects.
func Get(ctx context.Context, rawURL string, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, http.MethodGet, rawURL, nil, true, opts)
}

// Options sends an OPTIONS request, following redirects.
func Options(ctx context.Context, rawURL string, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, http.MethodOptions, rawURL, nil, true, opts)
}

// Head sends a HEAD request without following redirects.
func Head(ctx context.Context, rawURL string, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, http.MethodHead, rawURL, nil, false, opts)
}

// Post sends a POST request.
func Post(ctx context.Context, rawURL string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, http.MethodPost, rawURL, body, true, opts)
}

// Put sends a PUT request.
func Put(ctx context.Context, rawURL string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, http.MethodPut, rawURL, body, true, opts)
}

// Patch sends a PATCH request.
func Patch(ctx context.Context, rawURL string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, http.MethodPatch, rawURL, body, true, opts)
}

// Delete sends a DELETE request.
func Delete(ctx context.Context, rawURL string, opts ...RequestOption) (*http.Response, error) {
	return request(ctx, http.MethodDelete, rawURL, nil, true, opts)
}

func request(ctx context.Context, method, rawURL string, body io.Reader, follow bool, opts []RequestOption) (*http.Response, error) {
	r := &requestSettings{header: make(http.Header)}
	for _, opt := range opts {
		opt(r)
	}
	if r.followRedirects != nil {
		follow = *r.followRedirects
	}

	req, err := http.NewRequestWithContext(WithVerification(ctx, r.verification), method, rawURL, body)
	if err != nil {
		return nil, err
	}
	for key, values := range r.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	client := &http.Client{Timeout: r.timeout}
	if !follow {
		client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	}

	if len(r.adapterOpts) == 0 {
		rt, err := plainTransport(r.verification)
		if err != nil {
			return nil, err
		}
		client.Transport = rt
		return client.Do(req)
	}

	adapter, err := New(r.adapterOpts...)
	if err != nil {
		return nil, err
	}

	session := NewSession()
	session.Mount("https://", adapter)
	client.Transport = session

	resp, err := client.Do(req)
	if err != nil {
		session.Close()
		return nil, err
	}
	resp.Body = &sessionBody{ReadCloser: resp.Body, session: session}
	return resp, nil
}

// plainTransport serves requests that carry no client certificate.
func plainTransport(v tlsctx.Verification) (http.RoundTripper, error) {
	if v == tlsctx.VerifyDefault {
		return http.DefaultTransport, nil
	}

	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if v.Insecure() {
		//nolint:gosec // requested explicitly for this request.
		cfg.InsecureSkipVerify = true
	} else {
		pool, err := tlsctx.LoadCABundle(v.CABundle())
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = cfg
	return t, nil
}

// sessionBody closes the one-off session once the caller is done with the body.
type sessionBody struct {
	io.ReadCloser
	session *Session
}

func (b *sessionBody) Close() error {
	err := b.ReadCloser.Close()
	b.session.Close()
	return err
}
