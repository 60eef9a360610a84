// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/config"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/tlsctx"
)

// handleConfigResource handles requests for the configuration template resource.
// It provides a JSON template showing the expected configuration structure.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP resource read request for the config template
//
// Returns:
//   - A slice containing the configuration template as JSON content
//   - An error if JSON marshaling fails
func handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	example := config.Default()
	example.PKCS12File = "/path/to/client.p12"
	example.PasswordEnv = config.EnvPassword

	jsonData, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "config://template",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// versionResourceHandler returns the handler for info://version.
// The verification is reported by name only; no path or password is exposed.
func versionResourceHandler(version string, cfg *config.Config) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		tools, toolsWithConfig := createTools()
		names := make([]string, 0, len(tools)+len(toolsWithConfig))
		for _, t := range tools {
			names = append(names, t.Tool.Name)
		}
		for _, t := range toolsWithConfig {
			names = append(names, t.Tool.Name)
		}

		profile, err := tlsctx.ParseProfile(cfg.Profile)
		if err != nil {
			return nil, err
		}

		info := map[string]any{
			"name":            serverName,
			"version":         version,
			"profile":         profile.String(),
			"materialization": cfg.Materialization,
			"verification":    verificationName(cfg.Verification()),
			"tools":           names,
		}

		jsonData, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal version info: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "info://version",
				MIMEType: "application/json",
				Text:     string(jsonData),
			},
		}, nil
	}
}

// docsResourceHandler serves one embedded markdown file.
func docsResourceHandler(embed templates.EmbedFS, uri, name string) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		content, err := embed.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: "text/markdown",
				Text:     string(content),
			},
		}, nil
	}
}

func verificationName(v tlsctx.Verification) string {
	switch {
	case v.Insecure():
		return "off"
	case v.CABundle() != "":
		return "ca-bundle"
	default:
		return "default"
	}
}
