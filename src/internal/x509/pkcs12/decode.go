// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509pkcs12

import (
	"crypto"
	"crypto/x509"
	"time"

	x509certs "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/certs"
	"software.sslmate.com/src/go-pkcs12"
)

// Credential is the decoded content of a PKCS#12 bundle.
type Credential struct {
	PrivateKey crypto.PrivateKey
	Leaf       *x509.Certificate
	// Chain holds the CA certificates in the order the bundle stores them.
	Chain []*x509.Certificate
}

// Decode decodes a PKCS#12 bundle. A nil password is treated as the empty
// password. Errors from the decoder (malformed data, wrong password) are
// returned unchanged so callers can match [pkcs12.ErrIncorrectPassword].
func Decode(data, password []byte) (*Credential, error) {
	key, leaf, chain, err := pkcs12.DecodeChain(data, string(password))
	if err != nil {
		return nil, err
	}

	return &Credential{
		PrivateKey: key,
		Leaf:       leaf,
		Chain:      chain,
	}, nil
}

// Certificates returns the leaf followed by the chain.
func (c *Credential) Certificates() []*x509.Certificate {
	certs := make([]*x509.Certificate, 0, 1+len(c.Chain))
	certs = append(certs, c.Leaf)
	return append(certs, c.Chain...)
}

// Validate rejects the credential if the leaf or any chain certificate has
// expired at now.
func (c *Credential) Validate(now time.Time) error {
	return x509certs.CheckAllNotExpired(now, c.Certificates()...)
}
