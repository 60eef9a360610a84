// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package transport provides an [http.RoundTripper] that authenticates with
// a client certificate taken from a PKCS#12 bundle.
//
// An [Adapter] is built once per credential. Construction reads the bundle
// (from memory or from a file, never both), decodes it, rejects expired
// certificates and loads the key pair into a [tlsctx.Context]. Any failure is
// returned by [New], so a half-built adapter is never observable.
//
// Each request may ask for its own server verification through
// [WithVerification]. The adapter derives a dedicated connection pool per
// verification mode (and per proxy), so switching verification off for one
// request never weakens another request running at the same time.
//
// Basic usage:
//
//	adapter, err := transport.New(
//		transport.WithBundleFile("client.p12"),
//		transport.WithPassword("secret"),
//	)
//	if err != nil {
//		return err
//	}
//	defer adapter.Close()
//
//	client := &http.Client{Transport: adapter}
//	resp, err := client.Get("https://example.com")
//
// For one-off calls [Get], [Post] and friends build and discard a [Session]
// with the adapter mounted on "https://".
package transport
