// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509certs provides encoding, decoding and validity checks for
// [X.509] certificates and their private keys.
//
// It reads certificates from [PEM], DER and [PKCS7] input, writes certificates
// and private keys as PEM (optionally with legacy OpenSSL password
// encryption), and rejects certificates that are past their Not After time.
// The PKCS#12 materializer uses it to produce the key-then-chain PEM sequence
// handed to crypto/tls, and the transport uses it to read CA bundles.
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package x509certs
