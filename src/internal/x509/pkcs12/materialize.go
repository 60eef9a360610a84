// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509pkcs12

import (
	"crypto/tls"
	"encoding/pem"
	"fmt"
	"io"
	"time"

	x509certs "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/logger"
)

// SinkFactory opens a fresh [Sink] for one build.
type SinkFactory func() (Sink, error)

// Materializer converts decoded credentials into a [tls.Certificate].
//
// A Materializer holds no per-build state and is safe for concurrent use.
type Materializer struct {
	certs   *x509certs.Certificate
	now     func() time.Time
	newSink SinkFactory
	log     logger.Logger
}

// Option configures a [Materializer].
type Option func(*Materializer)

// WithClock replaces [time.Now] for the expiry check.
func WithClock(now func() time.Time) Option {
	return func(m *Materializer) {
		if now != nil {
			m.now = now
		}
	}
}

// WithSinkFactory overrides where the PEM sequence is written.
func WithSinkFactory(f SinkFactory) Option {
	return func(m *Materializer) {
		if f != nil {
			m.newSink = f
		}
	}
}

// WithTempDir materializes into a [TempFileSink] created in dir.
// An empty dir means [os.TempDir].
func WithTempDir(dir string) Option {
	return WithSinkFactory(func() (Sink, error) { return NewTempFileSink(dir) })
}

// WithMaterialization selects the sink by mode. dir is only used for
// [MaterializeFile].
func WithMaterialization(mode Materialization, dir string) Option {
	if mode == MaterializeFile {
		return WithTempDir(dir)
	}
	return WithSinkFactory(func() (Sink, error) { return NewMemorySink(), nil })
}

// WithLogger sets the logger used for cleanup failures that cannot be
// returned because an earlier error is already being reported.
func WithLogger(l logger.Logger) Option {
	return func(m *Materializer) {
		if l != nil {
			m.log = l
		}
	}
}

// NewMaterializer returns a [Materializer] that writes to a [MemorySink].
func NewMaterializer(opts ...Option) *Materializer {
	m := &Materializer{
		certs:   x509certs.New(),
		now:     time.Now,
		newSink: func() (Sink, error) { return NewMemorySink(), nil },
		log:     logger.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Build decodes a PKCS#12 bundle and loads it as a [tls.Certificate].
// See [Materializer.BuildFromCredential] for the password rules.
func (m *Materializer) Build(data, password []byte) (tls.Certificate, error) {
	cred, err := Decode(data, password)
	if err != nil {
		return tls.Certificate{}, err
	}
	return m.BuildFromCredential(cred, password)
}

// BuildFromCredential validates cred, writes it to a fresh sink and loads the
// result. The sink is closed before returning, whatever the outcome.
//
// A nil password leaves the key unencrypted inside the sink; an empty one
// fails with [x509certs.ErrPasswordTooShort].
func (m *Materializer) BuildFromCredential(cred *Credential, password []byte) (cert tls.Certificate, err error) {
	if err = cred.Validate(m.now()); err != nil {
		return tls.Certificate{}, err
	}

	sink, err := m.newSink()
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("x509pkcs12: open sink: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			if err == nil {
				err = fmt.Errorf("x509pkcs12: clean up sink: %w", cerr)
				return
			}
			m.log.Printf("x509pkcs12: clean up sink after failed build: %v", cerr)
		}
	}()

	if err = m.Materialize(sink, cred, password); err != nil {
		return tls.Certificate{}, err
	}

	data, err := sink.Contents()
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("x509pkcs12: read sink: %w", err)
	}
	defer zero(data)

	return m.LoadKeyPair(data, password)
}

// Materialize writes the private key, the leaf and then the chain to w as
// one PEM sequence.
func (m *Materializer) Materialize(w io.Writer, cred *Credential, password []byte) error {
	keyPEM, err := m.certs.EncodePrivateKeyPEM(cred.PrivateKey, password)
	if err != nil {
		return err
	}
	defer zero(keyPEM)

	if _, err := w.Write(keyPEM); err != nil {
		return err
	}

	for _, cert := range cred.Certificates() {
		if err := pem.Encode(w, &pem.Block{Type: x509certs.BlockCertificate, Bytes: cert.Raw}); err != nil {
			return err
		}
	}
	return nil
}

// LoadKeyPair loads a PEM sequence whose first block is the private key
// (encrypted or not) and whose CERTIFICATE blocks form the chain starting
// with the leaf. The key must match the leaf.
func (m *Materializer) LoadKeyPair(data, password []byte) (tls.Certificate, error) {
	block, rest := pem.Decode(data)
	if block == nil {
		return tls.Certificate{}, x509certs.ErrInvalidPEMBlock
	}

	keyBlock, err := m.certs.DecodePrivateKeyPEM(block, password)
	if err != nil {
		return tls.Certificate{}, err
	}

	keyPEM := pem.EncodeToMemory(keyBlock)
	defer zero(keyPEM)
	defer zero(keyBlock.Bytes)

	return tls.X509KeyPair(rest, keyPEM)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
