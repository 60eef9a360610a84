// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// pkcs12-request is a command-line HTTP client that authenticates with a
// PKCS#12 client certificate.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/pkcs12-transport/cmd/pkcs12-request@latest
//
// # Usage
//
//	pkcs12-request request METHOD URL [FLAGS]
//	pkcs12-request inspect FILE [FLAGS]
//	pkcs12-request selftest [--rsa-bits N]
//
// # Request flags
//
//	    --pkcs12            PKCS#12 client bundle
//	-p, --password          Bundle password (may be empty)
//	    --password-stdin    Read the password from stdin
//	    --no-password       The bundle has no password
//	    --profile           TLS profile: client, negotiate, tls1.2, tls1.3
//	-k, --insecure          Skip server certificate verification
//	    --ca-bundle         Verify the server against a PEM, DER or PKCS#7 bundle
//	-d, --data              Request body, @FILE reads it from FILE
//	-H, --header            Request header "Key: Value" (repeatable)
//	-o, --output            Destination file (default: stdout)
//	-c, --config            JSON or YAML configuration file
//	    --timeout           Overall request timeout
//	    --metrics           Print Prometheus metrics to stderr
//
// # Environment
//
//	PKCS12_TRANSPORT_CONFIG_FILE  Configuration file used when --config is absent
//	PKCS12_PASSWORD               Password used when neither flags nor config set one
//
// # Examples
//
// Call an mTLS endpoint, reading the password from stdin:
//
//	pkcs12-request request GET https://mtls.example.com/health --pkcs12 client.p12 --password-stdin < pass.txt
//
// Show what a bundle contains:
//
//	pkcs12-request inspect client.p12 --password-stdin --json
//
// Check the whole round trip locally:
//
//	pkcs12-request selftest
package main
