// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package posix

import (
	"os"
	"path/filepath"
	"strings"
)

// ExecutableName returns the name the program was invoked with, without
// directory components or a ".exe" suffix. It returns fallback when
// os.Args is empty.
func ExecutableName(fallback string) string {
	if len(os.Args) == 0 {
		return fallback
	}
	return baseName(os.Args[0], fallback)
}

// baseName strips both '/' and '\' separators so a Windows path still
// yields a clean name on Unix and vice versa.
func baseName(arg, fallback string) string {
	parts := strings.FieldsFunc(filepath.ToSlash(arg), func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return fallback
	}

	name := strings.TrimSuffix(parts[len(parts)-1], ".exe")
	if name == "" {
		return fallback
	}
	return name
}
