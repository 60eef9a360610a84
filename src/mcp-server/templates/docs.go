// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server template files.
// It offers a reusable abstraction for accessing the embedded markdown used by
// the MCP server: the instructions template and the PKCS#12 documentation.
//
// Access goes through the [EmbedFS] interface, with [MagicEmbed] as the
// default implementation.
//
// Example usage:
//
//	import "github.com/H0llyW00dzZ/pkcs12-transport/src/mcp-server/templates"
//
//	// Read the PKCS#12 documentation
//	content, err := templates.MagicEmbed.ReadFile("pkcs12-formats.md")
//	if err != nil {
//		return fmt.Errorf("failed to read pkcs12 formats: %w", err)
//	}
//
//	// List all available template files
//	entries, err := templates.MagicEmbed.ReadDir(".")
//	if err != nil {
//		return fmt.Errorf("failed to list templates: %w", err)
//	}
package templates
