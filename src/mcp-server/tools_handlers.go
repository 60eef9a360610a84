// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/config"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/internal/helper/gc"
	x509pkcs12 "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/pkcs12"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/tlsctx"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/transport"
)

// maxBodyExcerpt bounds the response body returned by pkcs12_request.
const maxBodyExcerpt = 8 << 10

// errInvalidBundleInput is reported when the bundle argument is neither a
// readable file nor base64 data.
var errInvalidBundleInput = errors.New("not a valid file path or base64 data")

// handleInspectPKCS12 decodes a bundle and describes its contents.
//
// Parameters:
//   - ctx: Context for cancellation and timeout handling
//   - request: MCP tool call request containing the bundle, password and format
//
// Returns:
//   - The tool execution result containing a markdown table or JSON summary
//   - An error only for protocol failures; decode failures are tool-result errors
//
// An expired certificate does not fail the call; the summary marks it and a
// validation line reports the first expired certificate.
func handleInspectPKCS12(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("bundle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("bundle parameter required: %v", err)), nil
	}

	data, err := readBundle(input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read bundle: %v", err)), nil
	}

	password, err := passwordArgument(request, transport.NoPassword())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cred, err := x509pkcs12.Decode(data, password.Bytes())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode bundle: %v", err)), nil
	}

	now := time.Now()
	var output strings.Builder
	switch request.GetString("format", "table") {
	case "json":
		out, err := cred.JSON(now)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode summary: %v", err)), nil
		}
		output.Write(out)
		output.WriteByte('\n')
	default:
		output.WriteString(cred.RenderTable(now))
	}

	if err := cred.Validate(now); err != nil {
		fmt.Fprintf(&output, "\nValidation failed: %v\n", err)
	} else {
		output.WriteString("\nValidation: all certificates are within their validity period\n")
	}

	return mcp.NewToolResultText(output.String()), nil
}

// handlePKCS12Request sends one HTTP request through the transport adapter.
//
// Parameters:
//   - ctx: Context for cancellation; the configured timeout bounds the exchange
//   - request: MCP tool call request containing url, method, bundle, password, body and verification
//   - cfg: Server configuration supplying defaults for the bundle, password, profile and verification
//
// Returns:
//   - The tool execution result with the status line and a body excerpt
//   - An error only for protocol failures; request failures are tool-result errors
//
// The response body is cut at 8 KiB.
func handlePKCS12Request(ctx context.Context, request mcp.CallToolRequest, cfg *config.Config) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("url parameter required: %v", err)), nil
	}
	method := strings.ToUpper(request.GetString("method", "GET"))

	opts := []transport.RequestOption{
		transport.WithVerify(verificationArgument(request, cfg)),
		transport.WithTimeout(cfg.Timeout()),
	}

	adapterOpts, err := adapterArguments(request, cfg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if adapterOpts != nil {
		opts = append(opts, transport.WithPKCS12(adapterOpts...))
	}

	var body io.Reader
	if b := request.GetString("body", ""); b != "" {
		body = strings.NewReader(b)
	}

	resp, err := transport.Request(ctx, method, rawURL, body, opts...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyExcerpt+1)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read response body: %v", err)), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Status: %s\n", resp.Status)
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		fmt.Fprintf(&result, "Content-Type: %s\n", ct)
	}
	result.WriteByte('\n')

	excerpt := buf.Bytes()
	if len(excerpt) > maxBodyExcerpt {
		result.Write(excerpt[:maxBodyExcerpt])
		result.WriteString("\n[truncated]")
	} else {
		result.Write(excerpt)
	}

	return mcp.NewToolResultText(result.String()), nil
}

// adapterArguments returns the adapter options for the call, or nil when
// neither the call nor the configuration names a bundle.
func adapterArguments(request mcp.CallToolRequest, cfg *config.Config) ([]transport.Option, error) {
	input := request.GetString("bundle", "")
	if input == "" && cfg.PKCS12File == "" {
		return nil, nil
	}

	// The bundle argument replaces the configured file.
	effective := *cfg
	if input != "" {
		effective.PKCS12File = ""
	}

	opts, err := effective.AdapterOptions()
	if err != nil {
		return nil, err
	}

	if input != "" {
		data, err := readBundle(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle: %w", err)
		}
		opts = append(opts, transport.WithBundle(data))
	}

	password, err := passwordArgument(request, cfg.PasswordOption())
	if err != nil {
		return nil, err
	}
	return append(opts, transport.WithPasswordOption(password)), nil
}

// verificationArgument applies the call's insecure and ca_bundle arguments
// on top of the configured verification.
func verificationArgument(request mcp.CallToolRequest, cfg *config.Config) tlsctx.Verification {
	v := cfg.Verification()
	if _, ok := request.GetArguments()["insecure"]; ok {
		if request.GetBool("insecure", false) {
			return tlsctx.VerifyOff
		}
		if v.Insecure() {
			v = tlsctx.VerifyDefault
		}
	}
	if caBundle := request.GetString("ca_bundle", ""); caBundle != "" {
		v = tlsctx.VerifyCABundle(caBundle)
	}
	return v
}

// passwordArgument reads the password argument. A missing argument yields
// fallback, JSON null yields no password, and a non-string value fails with
// [transport.ErrPasswordType].
func passwordArgument(request mcp.CallToolRequest, fallback transport.Password) (transport.Password, error) {
	v, ok := request.GetArguments()["password"]
	if !ok {
		return fallback, nil
	}
	return transport.PasswordFromValue(v)
}

// readBundle reads input as a file path first, then as base64 data.
func readBundle(input string) ([]byte, error) {
	if data, err := os.ReadFile(input); err == nil {
		return data, nil
	}
	if data, err := base64.StdEncoding.DecodeString(input); err == nil {
		return data, nil
	}
	return nil, errInvalidBundleInput
}
