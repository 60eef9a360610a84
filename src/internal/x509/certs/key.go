// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

var (
	// ErrPasswordTooShort is returned when an explicitly empty password is
	// used to encrypt a private key.
	ErrPasswordTooShort = errors.New("x509certs: password must be 1 or more bytes")

	// ErrPasswordRequired is returned when an encrypted key block is decoded without a password.
	ErrPasswordRequired = errors.New("x509certs: private key is encrypted but no password was given")

	// ErrInvalidKeyBlock indicates that a PEM block does not hold a private key.
	ErrInvalidKeyBlock = errors.New("x509certs: invalid private key block")
)

// EncodePrivateKeyPEM encodes key as a PEM block in its traditional form
// (PKCS#1 for RSA, SEC 1 for ECDSA, PKCS#8 otherwise).
//
// A nil password produces a plaintext block. Any other password encrypts the
// block with AES-256-CBC using the OpenSSL "Proc-Type"/"DEK-Info" headers, and
// an empty password is rejected with [ErrPasswordTooShort].
func (c *Certificate) EncodePrivateKeyPEM(key crypto.PrivateKey, password []byte) ([]byte, error) {
	block, err := privateKeyBlock(key)
	if err != nil {
		return nil, err
	}

	if password != nil {
		if len(password) == 0 {
			return nil, ErrPasswordTooShort
		}

		//nolint:staticcheck // legacy PEM encryption is the format the chain loader reads back.
		block, err = x509.EncryptPEMBlock(rand.Reader, block.Type, block.Bytes, password, x509.PEMCipherAES256)
		if err != nil {
			return nil, err
		}
	}

	return pem.EncodeToMemory(block), nil
}

// DecodePrivateKeyPEM returns the plaintext form of a private key block,
// decrypting it with password when it carries encryption headers.
// A wrong password surfaces as [x509.IncorrectPasswordError].
func (c *Certificate) DecodePrivateKeyPEM(block *pem.Block, password []byte) (*pem.Block, error) {
	switch block.Type {
	case BlockRSAPrivateKey, BlockECPrivateKey, BlockPrivateKey:
	default:
		return nil, ErrInvalidKeyBlock
	}

	//nolint:staticcheck // see EncodePrivateKeyPEM.
	if !x509.IsEncryptedPEMBlock(block) {
		return block, nil
	}
	if password == nil {
		return nil, ErrPasswordRequired
	}

	//nolint:staticcheck // see EncodePrivateKeyPEM.
	der, err := x509.DecryptPEMBlock(block, password)
	if err != nil {
		return nil, err
	}

	return &pem.Block{Type: block.Type, Bytes: der}, nil
}

func privateKeyBlock(key crypto.PrivateKey) (*pem.Block, error) {
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return &pem.Block{Type: BlockRSAPrivateKey, Bytes: x509.MarshalPKCS1PrivateKey(k)}, nil
	case *ecdsa.PrivateKey:
		der, err := x509.MarshalECPrivateKey(k)
		if err != nil {
			return nil, err
		}
		return &pem.Block{Type: BlockECPrivateKey, Bytes: der}, nil
	default:
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("x509certs: marshal private key %T: %w", key, err)
		}
		return &pem.Block{Type: BlockPrivateKey, Bytes: der}, nil
	}
}
