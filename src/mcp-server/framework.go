// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/config"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/mcp-server/templates"
)

// serverName is the name announced to [MCP] clients during initialization.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
const serverName = "PKCS#12 Transport"

// ToolHandler defines the signature for tool handlers that matches [MCP] server expectations.
// It processes tool calls and returns results.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//
// Returns:
//   - The tool execution result or an error if the tool failed
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// ToolHandlerWithConfig defines tool handlers that require access to server configuration.
// It extends ToolHandler to include a Config parameter for tools that need configuration data.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: The MCP tool call request containing arguments and metadata
//   - cfg: The loaded configuration (default bundle, password, profile, timeout, verification)
//
// Returns:
//   - The tool execution result or an error if the tool failed
type ToolHandlerWithConfig func(ctx context.Context, request mcp.CallToolRequest, cfg *config.Config) (*mcp.CallToolResult, error)

// ToolDefinition holds a tool definition and its handler.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Template key the instructions use to refer to the tool
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ToolDefinitionWithConfig holds a tool definition that requires configuration access.
// The handler receives the server configuration in addition to the standard context and request.
type ToolDefinitionWithConfig struct {
	Tool    mcp.Tool
	Handler ToolHandlerWithConfig
	Role    string
}

// ServerDependencies holds all dependencies needed to create the MCP server.
//
// Fields:
//   - Config: Configuration handed to every [ToolDefinitionWithConfig] handler
//   - Embed: Embedded filesystem for documentation resources (default [templates.MagicEmbed])
//   - Version: Server version string
//   - Tools: Tool definitions without configuration requirements
//   - ToolsWithConfig: Tool definitions that need configuration access
//   - Resources: Static resources provided by the server
//   - Instructions: Text sent to clients on initialization
//
// This struct is used internally by ServerBuilder and should not be instantiated directly.
type ServerDependencies struct {
	Config          *config.Config
	Embed           templates.EmbedFS
	Version         string
	Tools           []ToolDefinition
	ToolsWithConfig []ToolDefinitionWithConfig
	Resources       []server.ServerResource
	Instructions    string
}

// ServerBuilder helps construct the [MCP] server with proper dependencies using a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithConfig(cfg).
//	    WithVersion("1.0.0").
//	    WithDefaultTools().
//	    Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct {
	deps             ServerDependencies
	defaultResources bool
}

// NewServerBuilder creates a new server builder with default empty dependencies.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the configuration passed to tools that need it.
// A nil config is replaced by [config.Default] in Build.
func (b *ServerBuilder) WithConfig(cfg *config.Config) *ServerBuilder {
	b.deps.Config = cfg
	return b
}

// WithEmbed sets the embedded filesystem serving the documentation resources.
func (b *ServerBuilder) WithEmbed(embed templates.EmbedFS) *ServerBuilder {
	b.deps.Embed = embed
	return b
}

// WithVersion sets the server version string used for identification.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithTools adds tool definitions that don't require configuration access.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithToolsWithConfig adds tool definitions whose handlers receive the configuration.
func (b *ServerBuilder) WithToolsWithConfig(tools ...ToolDefinitionWithConfig) *ServerBuilder {
	b.deps.ToolsWithConfig = append(b.deps.ToolsWithConfig, tools...)
	return b
}

// WithResources adds static resources to the MCP server.
// Clients access resources using URIs like "info://version".
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithDefaultResources adds the config template, version and documentation
// resources. They are created in Build so they see the final version,
// configuration and embedded filesystem.
func (b *ServerBuilder) WithDefaultResources() *ServerBuilder {
	b.defaultResources = true
	return b
}

// WithInstructions sets the instructions sent to clients on initialization.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithDefaultTools adds inspect_pkcs12 and pkcs12_request.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	tools, toolsWithConfig := createTools()
	b.deps.Tools = append(b.deps.Tools, tools...)
	b.deps.ToolsWithConfig = append(b.deps.ToolsWithConfig, toolsWithConfig...)
	return b
}

// Build creates the [MCP] server with all configured dependencies.
//
// Returns:
//   - A pointer to the configured MCPServer instance
//   - An error if server creation fails
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	cfg := b.deps.Config
	if cfg == nil {
		cfg = config.Default()
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer(serverName, b.deps.Version, opts...)

	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, tool.Handler)
	}

	// Wrap handlers that need config
	for _, tool := range b.deps.ToolsWithConfig {
		handler := tool.Handler
		s.AddTool(tool.Tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handler(ctx, request, cfg)
		})
	}

	resources := b.deps.Resources
	if b.defaultResources {
		embed := b.deps.Embed
		if embed == nil {
			embed = templates.MagicEmbed
		}
		resources = append(resources, createResources(embed, b.deps.Version, cfg)...)
	}
	for _, resource := range resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	return s, nil
}
