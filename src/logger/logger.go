// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger defines the interface for logging operations.
//
// The transport adapter, the CLI and the [MCP] server all log through this
// interface so the caller decides whether output is human-readable, structured
// or discarded entirely.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// Discard is a Logger that drops every message.
// It is the default for library code that was not handed a logger.
var Discard Logger = NewMCPLogger(io.Discard, true)

// CLILogger implements Logger using the standard log package.
// Messages go to stderr so they never mix with response bodies written to stdout.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
func NewCLILogger() *CLILogger {
	return &CLILogger{logger: log.New(os.Stderr, "", 0)}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// MCPLogger implements Logger for [MCP] server mode.
// Each message is one JSON object per line carrying the level, the component
// that produced it and the message text.
//
// MCPLogger is safe for concurrent use by multiple goroutines.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type MCPLogger struct {
	mu        *sync.Mutex
	writer    *io.Writer
	silent    bool
	component string
}

// NewMCPLogger creates a new [MCP] logger.
// Silent loggers never write, which keeps the stdio protocol stream clean.
// A nil writer is replaced with [io.Discard].
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func NewMCPLogger(writer io.Writer, silent bool) *MCPLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &MCPLogger{
		mu:     &sync.Mutex{},
		writer: &writer,
		silent: silent,
	}
}

// WithComponent returns a logger that tags every entry with name.
// The returned logger shares its output and lock with m, so SetOutput on
// either affects both.
func (m *MCPLogger) WithComponent(name string) *MCPLogger {
	return &MCPLogger{
		mu:        m.mu,
		writer:    m.writer,
		silent:    m.silent,
		component: name,
	}
}

// Printf formats and logs a structured message in JSON format.
func (m *MCPLogger) Printf(format string, v ...any) { m.emit(fmt.Sprintf(format, v...)) }

// Println logs a structured message in JSON format.
func (m *MCPLogger) Println(v ...any) { m.emit(fmt.Sprint(v...)) }

func (m *MCPLogger) emit(msg string) {
	if m.silent {
		return
	}

	entry := map[string]any{
		"level":   "info",
		"message": msg,
	}
	if m.component != "" {
		entry["component"] = m.component
	}

	data, _ := json.Marshal(entry)

	m.mu.Lock()
	fmt.Fprintln(*m.writer, string(data))
	m.mu.Unlock()
}

// SetOutput sets the output destination for the MCP logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (m *MCPLogger) SetOutput(w io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w == nil {
		w = io.Discard
	}
	*m.writer = w
}
