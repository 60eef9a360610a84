// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-compliant helper functions for cross-platform compatibility.
//
// The CLI uses [ExecutableName] so usage strings show the name the binary was
// invoked with ("pkcs12-request" from "/usr/local/bin/pkcs12-request" or
// "C:\bin\pkcs12-request.exe").
//
// [POSIX]: https://grokipedia.com/page/POSIX
package posix
