// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// mcp-server serves the PKCS#12 inspection and request tools over MCP stdio.
//
// Configuration is read from the file named by PKCS12_TRANSPORT_CONFIG_FILE.
package main

import (
	"fmt"
	"os"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/mcp-server"
)

var version string // set by ldflags or defaults to imported version

func init() {
	if version == "" {
		version = mcpserver.GetVersion()
	}
}

func main() {
	if err := mcpserver.Run(version); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
