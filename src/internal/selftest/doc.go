// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package selftest builds throwaway identities for the self-test command and
// for tests: a self-signed certificate (optionally a CA that issues further
// certificates), its private key, and PKCS#12 packaging of both.
//
// Nothing produced here is meant to leave the process.
package selftest
