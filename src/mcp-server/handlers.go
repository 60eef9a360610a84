// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/mcp-server/templates"
)

// instructionsTemplate is the embedded template rendered by [loadInstructions].
const instructionsTemplate = "PKCS12_instructions.md"

// instructionData holds the data used to populate the MCP server instructions template.
type instructionData struct {
	Tools     []toolInfo
	ToolRoles map[string]string // Maps tool roles to tool names for template use
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string
	Description string
}

// loadInstructions renders the instructions template with the given tools.
//
// Parameters:
//   - embed: Filesystem holding the template
//   - tools: Slice of tool definitions without config requirements
//   - toolsWithConfig: Slice of tool definitions that require configuration access
//
// Returns:
//   - string: The rendered instruction text describing server capabilities and tool usage
//   - error: If the embedded file cannot be read or template parsing fails
func loadInstructions(embed templates.EmbedFS, tools []ToolDefinition, toolsWithConfig []ToolDefinitionWithConfig) (string, error) {
	templateBytes, err := embed.ReadFile(instructionsTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	data := instructionData{ToolRoles: make(map[string]string)}
	add := func(name, description, role string) {
		data.Tools = append(data.Tools, toolInfo{Name: name, Description: description})
		if role != "" {
			data.ToolRoles[role] = name
		}
	}
	for _, tool := range tools {
		add(tool.Tool.Name, tool.Tool.Description, tool.Role)
	}
	for _, tool := range toolsWithConfig {
		add(tool.Tool.Name, tool.Tool.Description, tool.Role)
	}

	tmpl, err := template.New("instructions").Option("missingkey=error").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}

	return buf.String(), nil
}
