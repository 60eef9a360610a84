// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for sending HTTP requests
// authenticated with a PKCS#12 client certificate.
//
// It implements a Cobra-based CLI with three subcommands: request sends one
// request through the transport adapter, inspect prints the contents of a
// bundle, and selftest runs the bundled end-to-end scenario against a local
// HTTPS server that requires a client certificate. Settings may come from a
// configuration file loaded by the config package; flags win over the file.
package cli
