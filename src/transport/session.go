// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package transport

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Session routes requests to round trippers mounted on URL prefixes.
// The longest matching prefix wins (case-insensitive); unmatched requests go
// to the fallback, [http.DefaultTransport] unless set otherwise.
//
// Session is safe for concurrent use by multiple goroutines.
type Session struct {
	mu       sync.RWMutex
	mounts   map[string]http.RoundTripper
	prefixes []string
	fallback http.RoundTripper
}

// NewSession returns a session with no mounts.
func NewSession() *Session {
	return &Session{
		mounts:   make(map[string]http.RoundTripper),
		fallback: http.DefaultTransport,
	}
}

// Mount registers rt for every URL starting with prefix, replacing an
// earlier mount on the same prefix.
func (s *Session) Mount(prefix string, rt http.RoundTripper) {
	prefix = strings.ToLower(prefix)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mounts[prefix]; !ok {
		s.prefixes = append(s.prefixes, prefix)
		sort.SliceStable(s.prefixes, func(i, j int) bool { return len(s.prefixes[i]) > len(s.prefixes[j]) })
	}
	s.mounts[prefix] = rt
}

// SetFallback replaces the round tripper used for unmatched URLs.
func (s *Session) SetFallback(rt http.RoundTripper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = rt
}

// TransportFor returns the round tripper that would serve rawURL.
func (s *Session) TransportFor(rawURL string) http.RoundTripper {
	lower := strings.ToLower(rawURL)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, prefix := range s.prefixes {
		if strings.HasPrefix(lower, prefix) {
			return s.mounts[prefix]
		}
	}
	return s.fallback
}

// RoundTrip implements [http.RoundTripper].
func (s *Session) RoundTrip(req *http.Request) (*http.Response, error) {
	return s.TransportFor(req.URL.String()).RoundTrip(req)
}

// Client returns an [http.Client] that sends through s.
func (s *Session) Client() *http.Client { return &http.Client{Transport: s} }

// CloseIdleConnections forwards to every mounted round tripper that supports it.
func (s *Session) CloseIdleConnections() {
	type idleCloser interface{ CloseIdleConnections() }

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rt := range s.mounts {
		if c, ok := rt.(idleCloser); ok {
			c.CloseIdleConnections()
		}
	}
}

// Close closes every mounted round tripper that implements [io.Closer] and
// returns the joined errors.
func (s *Session) Close() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	for _, rt := range s.mounts {
		if c, ok := rt.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
