// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package tlsctx

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
)

// Profile selects the TLS protocol versions a [Context] offers.
type Profile int

const (
	// ProfileClient is the recommended client profile: TLS 1.2 through 1.3.
	ProfileClient Profile = iota
	// ProfileNegotiate negotiates the best version both sides support,
	// down to TLS 1.0.
	ProfileNegotiate
	// ProfileTLS12 pins TLS 1.2.
	ProfileTLS12
	// ProfileTLS13 pins TLS 1.3.
	ProfileTLS13
)

// ErrUnknownProfile is returned by [ParseProfile].
var ErrUnknownProfile = errors.New("tlsctx: unknown protocol profile")

var profileNames = map[Profile]string{
	ProfileClient:    "client",
	ProfileNegotiate: "negotiate",
	ProfileTLS12:     "tls1.2",
	ProfileTLS13:     "tls1.3",
}

// String returns the name accepted by [ParseProfile].
func (p Profile) String() string {
	if name, ok := profileNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Profile(%d)", int(p))
}

// Versions returns the minimum and maximum protocol versions of p.
// Unknown profiles fall back to [ProfileClient].
func (p Profile) Versions() (minVersion, maxVersion uint16) {
	switch p {
	case ProfileNegotiate:
		return tls.VersionTLS10, tls.VersionTLS13
	case ProfileTLS12:
		return tls.VersionTLS12, tls.VersionTLS12
	case ProfileTLS13:
		return tls.VersionTLS13, tls.VersionTLS13
	default:
		return tls.VersionTLS12, tls.VersionTLS13
	}
}

// ParseProfile maps a profile name (case-insensitive) to a [Profile].
// The empty string selects [ProfileClient].
func ParseProfile(s string) (Profile, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return ProfileClient, nil
	}
	for p, n := range profileNames {
		if n == name {
			return p, nil
		}
	}
	return ProfileClient, fmt.Errorf("%w: %q", ErrUnknownProfile, s)
}
