// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/config"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/mcp-server/templates"
)

// createResources returns the static resources of the server.
//
// Resources:
//   - config://template: the configuration file shape with defaults applied
//   - info://version: server name, version and tool names
//   - docs://pkcs12-formats: bundle, password and materialization notes
func createResources(embed templates.EmbedFS, version string, cfg *config.Config) []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(
				"config://template",
				"Configuration Template",
				mcp.WithResourceDescription("Configuration file shape with default values"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleConfigResource,
		},
		{
			Resource: mcp.NewResource(
				"info://version",
				"Version Information",
				mcp.WithResourceDescription("Server version, active profile and available tools"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: versionResourceHandler(version, cfg),
		},
		{
			Resource: mcp.NewResource(
				"docs://pkcs12-formats",
				"PKCS#12 Formats",
				mcp.WithResourceDescription("PKCS#12 bundles, passwords and how key material is handled"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: docsResourceHandler(embed, "docs://pkcs12-formats", "pkcs12-formats.md"),
		},
	}
}
