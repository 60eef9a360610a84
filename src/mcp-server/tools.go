// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools creates and returns all MCP tool definitions with their handlers.
// It organizes tools into two categories: those that don't require configuration
// and those that need access to the server configuration.
//
// Returns:
//   - A slice of ToolDefinition for tools without config dependencies
//   - A slice of ToolDefinitionWithConfig for tools that require server configuration
//
// The function defines the following tools:
//   - inspect_pkcs12: Decodes a bundle and lists its certificates with their validity
//   - pkcs12_request: Sends one HTTP request authenticated with a bundle
func createTools() ([]ToolDefinition, []ToolDefinitionWithConfig) {
	tools := []ToolDefinition{
		{
			Tool: mcp.NewTool("inspect_pkcs12",
				mcp.WithDescription("Decode a PKCS#12 bundle and list its private key, leaf and chain certificates with expiry status"),
				mcp.WithString("bundle",
					mcp.Required(),
					mcp.Description("PKCS#12 file path or base64-encoded bundle data"),
				),
				mcp.WithString("password",
					mcp.Description("Bundle password. Omit or pass null for a bundle without password; an empty string is an empty password"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'table' or 'json' (default: table)"),
					mcp.DefaultString("table"),
					mcp.Enum("table", "json"),
				),
			),
			Handler: handleInspectPKCS12,
			Role:    "inspector",
		},
	}

	toolsWithConfig := []ToolDefinitionWithConfig{
		{
			Tool: mcp.NewTool("pkcs12_request",
				mcp.WithDescription("Send an HTTP request authenticated with a PKCS#12 client certificate and return the status and body"),
				mcp.WithString("url",
					mcp.Required(),
					mcp.Description("Request URL"),
				),
				mcp.WithString("method",
					mcp.Description("HTTP method (default: GET)"),
					mcp.DefaultString("GET"),
				),
				mcp.WithString("bundle",
					mcp.Description("PKCS#12 file path or base64-encoded bundle data (default: pkcs12File from the server configuration; omit both to send without a client certificate)"),
				),
				mcp.WithString("password",
					mcp.Description("Bundle password. Pass null for no password; omit to use the configured password"),
				),
				mcp.WithString("body",
					mcp.Description("Request body"),
				),
				mcp.WithBoolean("insecure",
					mcp.Description("Skip server certificate verification (default: from configuration)"),
				),
				mcp.WithString("ca_bundle",
					mcp.Description("Verify the server against this PEM, DER or PKCS#7 file instead of the system roots"),
				),
			),
			Handler: handlePKCS12Request,
			Role:    "requester",
		},
	}

	return tools, toolsWithConfig
}
