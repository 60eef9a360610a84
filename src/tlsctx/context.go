// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tlsctx

import (
	"crypto/tls"
	"crypto/x509"
	"sync"

	x509pkcs12 "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/pkcs12"
)

// Context is the TLS client state bound to one credential.
//
// Context is safe for concurrent use by multiple goroutines.
type Context struct {
	certificate tls.Certificate
	profile     Profile
	rootCAs     *x509.CertPool

	mu            sync.RWMutex
	checkHostname bool
}

type settings struct {
	profile      Profile
	rootCAs      *x509.CertPool
	materializer *x509pkcs12.Materializer
}

// Option configures [Build] and [New].
type Option func(*settings)

// WithProfile overrides [ProfileClient].
func WithProfile(p Profile) Option { return func(s *settings) { s.profile = p } }

// WithRootCAs sets the pool used to verify servers. A nil pool means the
// system roots.
func WithRootCAs(pool *x509.CertPool) Option { return func(s *settings) { s.rootCAs = pool } }

// WithMaterializer replaces the default in-memory [x509pkcs12.Materializer].
func WithMaterializer(m *x509pkcs12.Materializer) Option {
	return func(s *settings) {
		if m != nil {
			s.materializer = m
		}
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{profile: ProfileClient}
	for _, opt := range opts {
		opt(s)
	}
	if s.materializer == nil {
		s.materializer = x509pkcs12.NewMaterializer()
	}
	return s
}

// Build decodes and validates a PKCS#12 bundle and returns a context that
// presents its certificate. Every error from decoding, expiry checks, key
// encryption or chain loading is returned as produced.
func Build(data, password []byte, opts ...Option) (*Context, error) {
	s := newSettings(opts)

	cert, err := s.materializer.Build(data, password)
	if err != nil {
		return nil, err
	}
	return s.context(cert), nil
}

// BuildFromCredential is [Build] for a credential that was decoded already.
func BuildFromCredential(cred *x509pkcs12.Credential, password []byte, opts ...Option) (*Context, error) {
	s := newSettings(opts)

	cert, err := s.materializer.BuildFromCredential(cred, password)
	if err != nil {
		return nil, err
	}
	return s.context(cert), nil
}

// New wraps a certificate that was loaded elsewhere.
func New(cert tls.Certificate, opts ...Option) *Context {
	return newSettings(opts).context(cert)
}

func (s *settings) context(cert tls.Certificate) *Context {
	return &Context{
		certificate:   cert,
		profile:       s.profile,
		rootCAs:       s.rootCAs,
		checkHostname: true,
	}
}

// Certificate returns the client certificate presented on every handshake.
func (c *Context) Certificate() tls.Certificate { return c.certificate }

// Leaf returns the parsed leaf certificate, or nil if it cannot be parsed.
func (c *Context) Leaf() *x509.Certificate {
	if c.certificate.Leaf != nil {
		return c.certificate.Leaf
	}
	if len(c.certificate.Certificate) == 0 {
		return nil
	}
	leaf, err := x509.ParseCertificate(c.certificate.Certificate[0])
	if err != nil {
		return nil
	}
	return leaf
}

// ChainLength returns the number of certificates sent after the leaf.
func (c *Context) ChainLength() int {
	if n := len(c.certificate.Certificate); n > 1 {
		return n - 1
	}
	return 0
}

// Profile returns the protocol profile.
func (c *Context) Profile() Profile { return c.profile }

// RootCAs returns the pool used for [VerifyDefault], nil meaning system roots.
func (c *Context) RootCAs() *x509.CertPool { return c.rootCAs }

// CheckHostname reports whether [VerifyDefault] checks the server hostname.
func (c *Context) CheckHostname() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.checkHostname
}

// SetCheckHostname changes the context-wide hostname policy. Chain
// verification stays on when hostname checking is disabled. Configs derived
// earlier are not affected.
func (c *Context) SetCheckHostname(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkHostname = enabled
}

// ClientConfig derives a fresh client configuration for one request.
//
// [VerifyOff] skips all server checks. [VerifyCABundle] loads the bundle and
// fails with [ErrCABundle] when it is missing or unparsable.
func (c *Context) ClientConfig(v Verification) (*tls.Config, error) {
	return c.ConfigFor(v, c.CheckHostname())
}

// ConfigFor is [Context.ClientConfig] with the hostname policy supplied by
// the caller instead of read from the context. Callers that key caches on
// the policy use it to derive the config from the same snapshot.
func (c *Context) ConfigFor(v Verification, checkHostname bool) (*tls.Config, error) {
	var bundle *x509.CertPool
	if v.mode == modeCABundle {
		pool, err := LoadCABundle(v.caBundle)
		if err != nil {
			return nil, err
		}
		bundle = pool
	}
	return c.ConfigWithBundle(v, checkHostname, bundle), nil
}

// ConfigWithBundle is [Context.ConfigFor] for callers that already loaded
// the CA bundle of a [VerifyCABundle] value into bundle. It reads no files.
// bundle is ignored for the other verification modes.
func (c *Context) ConfigWithBundle(v Verification, checkHostname bool, bundle *x509.CertPool) *tls.Config {
	minVersion, maxVersion := c.profile.Versions()
	cfg := &tls.Config{
		Certificates: []tls.Certificate{c.certificate},
		MinVersion:   minVersion,
		MaxVersion:   maxVersion,
		RootCAs:      c.rootCAs,
	}

	switch v.mode {
	case modeOff:
		//nolint:gosec // requested explicitly for this request.
		cfg.InsecureSkipVerify = true
		return cfg
	case modeCABundle:
		cfg.RootCAs = bundle
	}

	if !checkHostname {
		//nolint:gosec // the chain is still verified by VerifyConnection.
		cfg.InsecureSkipVerify = true
		cfg.VerifyConnection = verifyChainOnly(cfg.RootCAs)
	}
	return cfg
}

// Override runs fn with a configuration derived for v.
//
// The context-wide hostname flag is read once and never written, so the
// override lasts exactly as long as fn uses the configuration it was given
// and cannot leak into other requests, concurrent or not.
func (c *Context) Override(v Verification, fn func(*tls.Config) error) error {
	cfg, err := c.ClientConfig(v)
	if err != nil {
		return err
	}
	return fn(cfg)
}
