// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server for [PKCS#12] client certificates.
// It exposes tools to inspect a bundle and to send HTTP requests authenticated
// with it through the transport package, plus documentation resources.
// The package uses a builder pattern for server construction and serves over stdio.
//
// [PKCS#12]: https://datatracker.ietf.org/doc/html/rfc7292
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
