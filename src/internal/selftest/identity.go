// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package selftest

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"

	"software.sslmate.com/src/go-pkcs12"
)

// DefaultRSABits matches the key size used by the self-test command.
const DefaultRSABits = 4096

// Options controls the certificate produced by [NewIdentity] and [Identity.Issue].
type Options struct {
	// CommonName defaults to "test".
	CommonName string
	// RSABits selects an RSA key of that size. Zero means [DefaultRSABits]
	// unless ECDSA is set.
	RSABits int
	// ECDSA selects a P-256 key instead of RSA.
	ECDSA bool
	// NotBefore defaults to now.
	NotBefore time.Time
	// NotAfter defaults to NotBefore plus 24 hours.
	NotAfter time.Time
	// IsCA marks the certificate as a CA able to sign others.
	IsCA bool
	// DNSNames and IPAddresses become subject alternative names.
	DNSNames    []string
	IPAddresses []net.IP
}

// Identity is a private key and the certificate for it.
type Identity struct {
	Key  crypto.Signer
	Cert *x509.Certificate
}

// NewIdentity creates a self-signed identity.
func NewIdentity(opts Options) (*Identity, error) { return issue(opts, nil) }

// Issue creates an identity whose certificate is signed by id.
func (id *Identity) Issue(opts Options) (*Identity, error) { return issue(opts, id) }

// Bundle packages the identity and the given CA certificates as PKCS#12
// with go-pkcs12's modern encoder. A nil password is encoded as the empty
// password, which is what PKCS#12 readers expect for "no password".
func (id *Identity) Bundle(password []byte, cas ...*x509.Certificate) ([]byte, error) {
	pfx, err := pkcs12.Modern.Encode(id.Key, id.Cert, cas, string(password))
	if err != nil {
		return nil, fmt.Errorf("selftest: encode pkcs12: %w", err)
	}
	return pfx, nil
}

// Pool returns a certificate pool that trusts only id.
func (id *Identity) Pool() *x509.CertPool {
	pool := x509.NewCertPool()
	pool.AddCert(id.Cert)
	return pool
}

func issue(opts Options, parent *Identity) (*Identity, error) {
	key, err := newKey(opts)
	if err != nil {
		return nil, err
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("selftest: serial number: %w", err)
	}

	cn := opts.CommonName
	if cn == "" {
		cn = "test"
	}
	notBefore := opts.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now().UTC()
	}
	notAfter := opts.NotAfter
	if notAfter.IsZero() {
		notAfter = notBefore.Add(24 * time.Hour)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: cn},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  opts.IsCA,
		DNSNames:              opts.DNSNames,
		IPAddresses:           opts.IPAddresses,
	}
	if opts.IsCA {
		tmpl.KeyUsage |= x509.KeyUsageCertSign
	}

	signerCert, signerKey := tmpl, key
	if parent != nil {
		signerCert, signerKey = parent.Cert, parent.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, signerCert, key.Public(), signerKey)
	if err != nil {
		return nil, fmt.Errorf("selftest: create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("selftest: parse certificate: %w", err)
	}

	return &Identity{Key: key, Cert: cert}, nil
}

func newKey(opts Options) (crypto.Signer, error) {
	if opts.ECDSA {
		return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	}
	bits := opts.RSABits
	if bits == 0 {
		bits = DefaultRSABits
	}
	return rsa.GenerateKey(rand.Reader, bits)
}
