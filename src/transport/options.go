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
	"time"

	x509pkcs12 "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/pkcs12"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/logger"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/metrics"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/tlsctx"
)

// Password is an optional bundle password. The zero value means no password,
// which is distinct from an empty one: an empty password is passed on as is
// and rejected when the private key is encrypted with it.
type Password struct {
	set   bool
	value []byte
}

// NoPassword returns the absent password.
func NoPassword() Password { return Password{} }

// PasswordFromString returns s as a UTF-8 password.
func PasswordFromString(s string) Password { return Password{set: true, value: []byte(s)} }

// PasswordFromBytes returns a copy of b as a password. A nil b is an empty
// password, not an absent one.
func PasswordFromBytes(b []byte) Password {
	return Password{set: true, value: append(make([]byte, 0, len(b)), b...)}
}

// PasswordFromValue converts nil, a string or a byte slice.
// Anything else fails with [ErrPasswordType].
func PasswordFromValue(v any) (Password, error) {
	switch p := v.(type) {
	case nil:
		return NoPassword(), nil
	case string:
		return PasswordFromString(p), nil
	case []byte:
		return PasswordFromBytes(p), nil
	default:
		return Password{}, fmt.Errorf("%w, got %T", ErrPasswordType, v)
	}
}

// IsSet reports whether a password was supplied.
func (p Password) IsSet() bool { return p.set }

// Bytes returns nil for an absent password and a non-nil slice otherwise.
func (p Password) Bytes() []byte {
	if !p.set {
		return nil
	}
	if p.value == nil {
		return []byte{}
	}
	return p.value
}

type settings struct {
	bundle     []byte
	bundleFile string

	password    Password
	passwordErr error

	profile         tlsctx.Profile
	rootCAs         *x509.CertPool
	proxy           func(*http.Request) (*url.URL, error)
	materialization x509pkcs12.Materialization
	tempDir         string
	now             func() time.Time
	log             logger.Logger
	metrics         metrics.Recorder
}

// Option configures an [Adapter].
type Option func(*settings)

// WithBundle uses data as the PKCS#12 bundle. A nil slice supplies no
// source; an empty non-nil slice does and fails to decode.
func WithBundle(data []byte) Option { return func(s *settings) { s.bundle = data } }

// WithBundleFile reads the PKCS#12 bundle from path during [New].
func WithBundleFile(path string) Option { return func(s *settings) { s.bundleFile = path } }

// WithPassword sets a text password.
func WithPassword(password string) Option {
	return func(s *settings) { s.password = PasswordFromString(password) }
}

// WithPasswordBytes sets a binary password.
func WithPasswordBytes(password []byte) Option {
	return func(s *settings) { s.password = PasswordFromBytes(password) }
}

// WithPasswordValue sets a password from nil, a string or a byte slice.
// Other types make [New] fail with a [*ConfigError].
func WithPasswordValue(v any) Option {
	return func(s *settings) {
		p, err := PasswordFromValue(v)
		if err != nil {
			s.passwordErr = err
			return
		}
		s.password = p
	}
}

// WithPasswordOption sets a password built with one of the Password constructors.
func WithPasswordOption(p Password) Option { return func(s *settings) { s.password = p } }

// WithProfile overrides [tlsctx.ProfileClient].
func WithProfile(p tlsctx.Profile) Option { return func(s *settings) { s.profile = p } }

// WithRootCAs sets the pool used to verify servers under [tlsctx.VerifyDefault].
func WithRootCAs(pool *x509.CertPool) Option { return func(s *settings) { s.rootCAs = pool } }

// WithProxy replaces [http.ProxyFromEnvironment]. A nil function disables proxies.
func WithProxy(proxy func(*http.Request) (*url.URL, error)) Option {
	return func(s *settings) { s.proxy = proxy }
}

// WithMaterialization selects where the PEM sequence lives while it is loaded.
func WithMaterialization(mode x509pkcs12.Materialization) Option {
	return func(s *settings) { s.materialization = mode }
}

// WithTempDir materializes into a temporary file in dir.
func WithTempDir(dir string) Option {
	return func(s *settings) {
		s.materialization = x509pkcs12.MaterializeFile
		s.tempDir = dir
	}
}

// WithClock replaces [time.Now] for the expiry check.
func WithClock(now func() time.Time) Option { return func(s *settings) { s.now = now } }

// WithLogger sets the adapter logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics reports builds, pools and round trips to r.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *settings) {
		if r != nil {
			s.metrics = r
		}
	}
}

func newSettings(opts []Option) *settings {
	s := &settings{
		profile:         tlsctx.ProfileClient,
		proxy:           http.ProxyFromEnvironment,
		materialization: x509pkcs12.MaterializeMemory,
		now:             time.Now,
		log:             logger.Discard,
		metrics:         metrics.Nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *settings) validate() error {
	if s.passwordErr != nil {
		return &ConfigError{Option: "password", Err: s.passwordErr}
	}

	switch {
	case s.bundle != nil && s.bundleFile != "":
		return &ConfigError{Option: "bundle source", Err: ErrConflictingSource}
	case s.bundle == nil && s.bundleFile == "":
		return &ConfigError{Option: "bundle source", Err: ErrMissingSource}
	}
	return nil
}
