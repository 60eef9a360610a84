// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tlsctx

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	x509certs "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/certs"
)

var (
	// ErrCABundle wraps failures to read or parse a CA bundle.
	ErrCABundle = errors.New("tlsctx: unusable CA bundle")

	// ErrNoPeerCertificate is returned when the server presented no certificate.
	ErrNoPeerCertificate = errors.New("tlsctx: server presented no certificate")
)

type verifyMode uint8

const (
	modeDefault verifyMode = iota
	modeOff
	modeCABundle
)

// Verification is the peer verification a single request asks for.
// The zero value is [VerifyDefault].
type Verification struct {
	mode     verifyMode
	caBundle string
}

var (
	// VerifyDefault verifies the server chain against the context roots
	// (or the system pool) and checks the hostname when the context says so.
	VerifyDefault = Verification{}

	// VerifyOff disables every server certificate check for the request,
	// hostname included. The client certificate is still presented.
	VerifyOff = Verification{mode: modeOff}
)

// VerifyCABundle verifies the server chain against the certificates in the
// bundle at path (PEM, DER or PKCS#7) instead of the context roots.
func VerifyCABundle(path string) Verification {
	return Verification{mode: modeCABundle, caBundle: path}
}

// Insecure reports whether v is [VerifyOff].
func (v Verification) Insecure() bool { return v.mode == modeOff }

// CABundle returns the bundle path, or "" when v does not use one.
func (v Verification) CABundle() string { return v.caBundle }

// String describes v for logs and cache keys.
func (v Verification) String() string {
	switch v.mode {
	case modeOff:
		return "off"
	case modeCABundle:
		return "ca-bundle:" + v.caBundle
	default:
		return "default"
	}
}

// LoadCABundle reads a CA bundle into a new pool.
func LoadCABundle(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCABundle, err)
	}

	certs, err := x509certs.New().DecodeBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCABundle, path, err)
	}

	pool := x509.NewCertPool()
	for _, cert := range certs {
		pool.AddCert(cert)
	}
	return pool, nil
}

// verifyChainOnly verifies the presented chain against roots without a DNS
// name. It is installed together with InsecureSkipVerify when hostname
// checking is off but the chain must still be trusted.
func verifyChainOnly(roots *x509.CertPool) func(tls.ConnectionState) error {
	return func(cs tls.ConnectionState) error {
		if len(cs.PeerCertificates) == 0 {
			return ErrNoPeerCertificate
		}

		opts := x509.VerifyOptions{
			Roots:         roots,
			Intermediates: x509.NewCertPool(),
		}
		for _, cert := range cs.PeerCertificates[1:] {
			opts.Intermediates.AddCert(cert)
		}

		_, err := cs.PeerCertificates[0].Verify(opts)
		return err
	}
}
