// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseName(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		expected string
	}{
		{name: "Relative path", arg: "./pkcs12-request", expected: "pkcs12-request"},
		{name: "Just filename", arg: "pkcs12-request", expected: "pkcs12-request"},
		{name: "Absolute unix path", arg: "/usr/local/bin/pkcs12-request", expected: "pkcs12-request"},
		{name: "Windows path", arg: `C:\bin\pkcs12-request.exe`, expected: "pkcs12-request"},
		{name: "Mixed separators", arg: `C:\bin/tools\pkcs12-request.exe`, expected: "pkcs12-request"},
		{name: "Keeps other extensions", arg: "/opt/pkcs12.request", expected: "pkcs12.request"},
		{name: "Empty", arg: "", expected: "fallback"},
		{name: "Only separators", arg: "///", expected: "fallback"},
		{name: "Only exe suffix", arg: "/bin/.exe", expected: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, baseName(tt.arg, "fallback"))
		})
	}
}

func TestExecutableName(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = nil
	assert.Equal(t, "fallback", ExecutableName("fallback"))

	os.Args = []string{"/usr/bin/pkcs12-request", "inspect"}
	assert.Equal(t, "pkcs12-request", ExecutableName("fallback"))
}
