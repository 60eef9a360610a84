// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package transport

import (
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	x509pkcs12 "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/pkcs12"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/logger"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/metrics"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/tlsctx"
)

// poolKey identifies one connection pool. checkHostname is the context-wide
// flag as seen when the pool was built.
type poolKey struct {
	verification  tlsctx.Verification
	checkHostname bool
	proxy         string
}

// Adapter is an [http.RoundTripper] bound to one [tlsctx.Context].
//
// Adapter is safe for concurrent use by multiple goroutines.
type Adapter struct {
	ctx     *tlsctx.Context
	proxy   func(*http.Request) (*url.URL, error)
	log     logger.Logger
	metrics metrics.Recorder

	// mu guards the caches only; no file or network I/O happens under it.
	mu        sync.Mutex
	pools     map[poolKey]*http.Transport
	caBundles map[string]*x509.CertPool
}

// New builds an adapter from exactly one bundle source.
//
// Option mistakes are reported as [*ConfigError]. Read, decode, expiry,
// password and key-load failures are returned as produced; in every failure
// case no adapter is returned.
func New(opts ...Option) (*Adapter, error) {
	s := newSettings(opts)
	if err := s.validate(); err != nil {
		return nil, err
	}

	data := s.bundle
	if s.bundleFile != "" {
		var err error
		if data, err = os.ReadFile(s.bundleFile); err != nil {
			return nil, fmt.Errorf("transport: read bundle: %w", err)
		}
	}

	materializer := x509pkcs12.NewMaterializer(
		x509pkcs12.WithClock(s.now),
		x509pkcs12.WithMaterialization(s.materialization, s.tempDir),
		x509pkcs12.WithLogger(s.log),
	)

	ctx, err := tlsctx.Build(data, s.password.Bytes(),
		tlsctx.WithProfile(s.profile),
		tlsctx.WithRootCAs(s.rootCAs),
		tlsctx.WithMaterializer(materializer),
	)
	if err != nil {
		s.metrics.BuildFinished("", time.Time{}, err)
		return nil, err
	}

	subject, notAfter := "", time.Time{}
	if leaf := ctx.Leaf(); leaf != nil {
		subject, notAfter = leaf.Subject.String(), leaf.NotAfter
	}
	s.metrics.BuildFinished(subject, notAfter, nil)
	s.log.Printf("transport: loaded client certificate %q (chain: %d, profile: %s, materialization: %s)",
		subject, ctx.ChainLength(), ctx.Profile(), s.materialization)

	return &Adapter{
		ctx:       ctx,
		proxy:     s.proxy,
		log:       s.log,
		metrics:   s.metrics,
		pools:     make(map[poolKey]*http.Transport),
		caBundles: make(map[string]*x509.CertPool),
	}, nil
}

// Context returns the TLS context owned by the adapter.
func (a *Adapter) Context() *tlsctx.Context { return a.ctx }

// CertVerify checks that v can be honored before any connection is made.
// A CA bundle that is missing or unparsable fails with [tlsctx.ErrCABundle].
// A bundle that loads is cached by path until [Adapter.Close].
func (a *Adapter) CertVerify(v tlsctx.Verification) error {
	_, err := a.caBundle(v)
	return err
}

// caBundle returns the cached pool for the CA bundle of v, loading it on
// first use. Failed loads are not cached.
func (a *Adapter) caBundle(v tlsctx.Verification) (*x509.CertPool, error) {
	path := v.CABundle()
	if path == "" {
		return nil, nil
	}

	a.mu.Lock()
	pool, ok := a.caBundles[path]
	a.mu.Unlock()
	if ok {
		return pool, nil
	}

	pool, err := tlsctx.LoadCABundle(path)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cached, ok := a.caBundles[path]; ok {
		return cached, nil
	}
	a.caBundles[path] = pool
	return pool, nil
}

// PoolManager returns the direct (unproxied) connection pool for v.
func (a *Adapter) PoolManager(v tlsctx.Verification) (*http.Transport, error) {
	return a.pool(v, nil)
}

// ProxyManagerFor returns the connection pool that reaches servers through
// proxyURL with verification v.
func (a *Adapter) ProxyManagerFor(proxyURL *url.URL, v tlsctx.Verification) (*http.Transport, error) {
	return a.pool(v, proxyURL)
}

func (a *Adapter) pool(v tlsctx.Verification, proxyURL *url.URL) (*http.Transport, error) {
	key := poolKey{verification: v, checkHostname: a.ctx.CheckHostname()}
	if proxyURL != nil {
		key.proxy = proxyURL.String()
	}

	a.mu.Lock()
	t, ok := a.pools[key]
	a.mu.Unlock()
	if ok {
		return t, nil
	}

	bundle, err := a.caBundle(v)
	if err != nil {
		return nil, err
	}

	t = http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = a.ctx.ConfigWithBundle(v, key.checkHostname, bundle)
	t.Proxy = nil
	if proxyURL != nil {
		t.Proxy = http.ProxyURL(proxyURL)
	}

	a.mu.Lock()
	// Another request may have built the same pool meanwhile.
	if existing, ok := a.pools[key]; ok {
		a.mu.Unlock()
		return existing, nil
	}
	a.pools[key] = t
	a.mu.Unlock()

	a.metrics.PoolCreated(verificationLabel(v))
	a.log.Printf("transport: new connection pool (verification: %s, check hostname: %t, proxy: %q)",
		v, key.checkHostname, key.proxy)
	return t, nil
}

// RoundTrip sends req using the pool for the verification stored in its
// context (see [WithVerification]) and the proxy chosen for it.
// Errors from the underlying transport are returned unchanged.
func (a *Adapter) RoundTrip(req *http.Request) (*http.Response, error) {
	v := VerificationFrom(req.Context())

	resp, err := a.roundTrip(req, v)
	a.metrics.RequestFinished(verificationLabel(v), err)
	return resp, err
}

func (a *Adapter) roundTrip(req *http.Request, v tlsctx.Verification) (*http.Response, error) {
	if err := a.CertVerify(v); err != nil {
		closeBody(req)
		return nil, err
	}

	var proxyURL *url.URL
	if a.proxy != nil {
		var err error
		if proxyURL, err = a.proxy(req); err != nil {
			closeBody(req)
			return nil, err
		}
	}

	t, err := a.pool(v, proxyURL)
	if err != nil {
		closeBody(req)
		return nil, err
	}
	return t.RoundTrip(req)
}

// CloseIdleConnections closes idle connections in every pool.
func (a *Adapter) CloseIdleConnections() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, t := range a.pools {
		t.CloseIdleConnections()
	}
}

// Close closes idle connections and forgets every pool and cached CA bundle.
// The adapter stays usable; later requests build new pools and reload
// bundles.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, t := range a.pools {
		t.CloseIdleConnections()
		delete(a.pools, key)
	}
	clear(a.caBundles)
	return nil
}

// verificationLabel keeps bundle paths out of metric labels.
func verificationLabel(v tlsctx.Verification) string {
	switch {
	case v.Insecure():
		return "off"
	case v.CABundle() != "":
		return "ca-bundle"
	default:
		return "default"
	}
}

// closeBody honors the RoundTripper contract of closing the body on error.
func closeBody(req *http.Request) {
	if req.Body != nil {
		req.Body.Close()
	}
}
