// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package tlsctx builds client [tls.Config] values around a certificate
// loaded from a PKCS#12 bundle.
//
// A [Context] owns exactly one client certificate, a protocol [Profile], an
// optional root pool and a hostname-verification flag that starts enabled.
// Connections never read the flag directly. Each call to
// [Context.ClientConfig] or [Context.Override] takes a snapshot of it and
// derives a fresh [tls.Config] for the requested [Verification], so a
// per-request override never writes shared state and concurrent requests
// with different modes do not interfere.
//
// Example:
//
//	ctx, err := tlsctx.Build(pfx, []byte("secret"))
//	if err != nil {
//		return err
//	}
//	cfg, err := ctx.ClientConfig(tlsctx.VerifyDefault)
package tlsctx
