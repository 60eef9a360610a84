// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509pkcs12 turns a [PKCS#12] bundle into a [tls.Certificate].
//
// The work happens in a fixed order:
//  1. Decode the bundle with [go-pkcs12]; decode errors are returned unchanged.
//  2. Reject an expired leaf or chain certificate before anything is written.
//  3. Encode the private key as PEM, encrypted when a password was supplied.
//  4. Write key, leaf and chain (decoder order) into a scoped [Sink].
//  5. Load the PEM sequence with [tls.X509KeyPair].
//
// The sink is closed on every exit path. [MemorySink] (the default) wipes its
// pooled buffer; [TempFileSink] removes its file, for callers that want the
// material on disk while it is loaded.
//
// [PKCS#12]: https://grokipedia.com/page/PKCS_12
// [go-pkcs12]: https://pkg.go.dev/software.sslmate.com/src/go-pkcs12
package x509pkcs12
