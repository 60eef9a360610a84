// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/config"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/version"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// The version is initially set to the default from the version package,
// but can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// NewServer builds the MCP server with every default tool and resource.
//
// Parameters:
//   - version: Version string announced to clients
//   - cfg: Configuration used by pkcs12_request (nil means defaults)
//
// Returns:
//   - The configured server, or an error if the instructions cannot be rendered
func NewServer(version string, cfg *config.Config) (*server.MCPServer, error) {
	tools, toolsWithConfig := createTools()

	instructions, err := loadInstructions(templates.MagicEmbed, tools, toolsWithConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load instructions: %w", err)
	}

	return NewServerBuilder().
		WithConfig(cfg).
		WithEmbed(templates.MagicEmbed).
		WithVersion(version).
		WithTools(tools...).
		WithToolsWithConfig(toolsWithConfig...).
		WithDefaultResources().
		WithInstructions(instructions).
		Build()
}

// Run starts the MCP server on stdin and stdout.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.1.0")
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration:
//   - Loads config from the PKCS12_TRANSPORT_CONFIG_FILE environment variable
//   - Falls back to defaults if the environment variable is not set
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Returns an error wrapping context.Canceled on signal-based shutdown
func Run(version string) error {
	appVersion = version

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, version, os.Stdin, os.Stdout)
}

// serve runs the stdio server on in and out until ctx is done or the input ends.
func serve(ctx context.Context, version string, in io.Reader, out io.Writer) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	s, err := NewServer(version, cfg)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	stdioServer := server.NewStdioServer(s)

	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, in, out)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
