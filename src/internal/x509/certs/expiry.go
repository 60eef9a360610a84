// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// ErrCertificateExpired matches every [*ExpiredError] through [errors.Is].
var ErrCertificateExpired = errors.New("x509certs: client certificate expired")

// notAfterLayout renders Not After in UTC with second precision.
const notAfterLayout = "2006-01-02 15:04:05Z"

// ExpiredError reports a certificate whose Not After time has passed.
type ExpiredError struct {
	// Subject is the common name of the offending certificate.
	Subject string
	// NotAfter is the expiry time of the offending certificate.
	NotAfter time.Time
}

// Error implements the error interface.
func (e *ExpiredError) Error() string {
	return fmt.Sprintf("%s: Not After: %s", ErrCertificateExpired, e.NotAfter.UTC().Format(notAfterLayout))
}

// Is reports whether target is [ErrCertificateExpired].
func (e *ExpiredError) Is(target error) bool { return target == ErrCertificateExpired }

// CheckNotExpired fails with an [*ExpiredError] when cert.NotAfter is before now.
// A certificate expiring exactly at now is still accepted.
func CheckNotExpired(cert *x509.Certificate, now time.Time) error {
	if cert.NotAfter.Before(now.UTC()) {
		return &ExpiredError{
			Subject:  cert.Subject.CommonName,
			NotAfter: cert.NotAfter,
		}
	}
	return nil
}

// CheckAllNotExpired runs [CheckNotExpired] over certs in order and returns
// the first failure.
func CheckAllNotExpired(now time.Time, certs ...*x509.Certificate) error {
	for _, cert := range certs {
		if err := CheckNotExpired(cert, now); err != nil {
			return err
		}
	}
	return nil
}
