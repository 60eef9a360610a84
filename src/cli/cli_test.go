// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"software.sslmate.com/src/go-pkcs12"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/cli"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/config"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/internal/selftest"
	x509certs "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/logger"
)

const (
	version      = "1.3.3.7-testing"
	testPassword = "correcthorsebatterystaple"
)

type fixture struct {
	server   *selftest.Server
	bundle   string
	caBundle string
}

func newFixture(t *testing.T, password []byte) *fixture {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")

	client, err := selftest.NewIdentity(selftest.Options{CommonName: "client", ECDSA: true})
	require.NoError(t, err)

	srv, err := selftest.StartServer(client.Cert)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	pfx, err := client.Bundle(password)
	require.NoError(t, err)

	dir := t.TempDir()
	f := &fixture{
		server:   srv,
		bundle:   filepath.Join(dir, "client.p12"),
		caBundle: filepath.Join(dir, "ca.pem"),
	}
	require.NoError(t, os.WriteFile(f.bundle, pfx, 0o600))
	require.NoError(t, os.WriteFile(f.caBundle, x509certs.New().EncodePEM(srv.Identity.Cert), 0o600))
	return f
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCommand(version, logger.NewMCPLogger(&stderr, false))
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestRequest(t *testing.T) {
	f := newFixture(t, []byte(testPassword))

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{
			name: "password flag",
			args: []string{"--password", testPassword},
		},
		{
			name:  "password from stdin",
			stdin: testPassword + "\n",
			args:  []string{"--password-stdin"},
		},
		{
			name: "tls1.3 profile",
			args: []string{"--password", testPassword, "--profile", "tls1.3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"request", "get", f.server.URL, "--pkcs12", f.bundle, "--ca-bundle", f.caBundle}, tt.args...)
			out, stderr, err := run(t, tt.stdin, args...)
			require.NoError(t, err)

			assert.Equal(t, "hello client", out)
			assert.Contains(t, stderr, "loaded client certificate")
			assert.Contains(t, stderr, "200 OK")
		})
	}
}

func TestRequestWithoutPassword(t *testing.T) {
	f := newFixture(t, nil)

	out, _, err := run(t, "", "request", "GET", f.server.URL, "--pkcs12", f.bundle, "--no-password", "--ca-bundle", f.caBundle)
	require.NoError(t, err)
	assert.Equal(t, "hello client", out)
}

func TestRequestWithConfig(t *testing.T) {
	f := newFixture(t, []byte(testPassword))

	cfg := fmt.Sprintf(`pkcs12File: %s
password: %s
caBundle: %s
materialization: file
tempDir: %s
timeoutSeconds: 10
`, f.bundle, testPassword, f.caBundle, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	output := filepath.Join(t.TempDir(), "body.txt")
	_, _, err := run(t, "", "request", "GET", f.server.URL, "--config", path, "--output", output)
	require.NoError(t, err)

	body, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "hello client", string(body))
}

func TestRequestMetrics(t *testing.T) {
	f := newFixture(t, []byte(testPassword))

	_, stderr, err := run(t, "", "request", "GET", f.server.URL,
		"--pkcs12", f.bundle, "--password", testPassword, "--ca-bundle", f.caBundle, "--metrics")
	require.NoError(t, err)

	assert.Contains(t, stderr, `pkcs12_transport_builds_total{result="success"} 1`)
	assert.Contains(t, stderr, "pkcs12_transport_requests_total")
}

func TestRequestBodyAndHeaders(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")

	var gotBody, gotHeader string
	srv := newEchoServer(t, func(r *http.Request, body string) {
		gotBody = body
		gotHeader = r.Header.Get("X-Request-Id")
	})

	dataFile := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(dataFile, []byte(`{"id":1}`), 0o600))

	_, _, err := run(t, "", "request", "post", srv, "-k", "-d", "@"+dataFile, "-H", "X-Request-Id: abc")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, gotBody)
	assert.Equal(t, "abc", gotHeader)
}

func TestRequestErrors(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")

	tests := []struct {
		name    string
		args    []string
		wantErr error
		errMsg  string
	}{
		{
			name:    "invalid header",
			args:    []string{"request", "GET", "https://127.0.0.1:1/", "--no-password", "-H", "broken"},
			wantErr: cli.ErrInvalidHeader,
		},
		{
			name:   "exclusive password flags",
			args:   []string{"request", "GET", "https://127.0.0.1:1/", "--password", "x", "--no-password"},
			errMsg: "none of the others can be",
		},
		{
			name:   "exclusive verification flags",
			args:   []string{"request", "GET", "https://127.0.0.1:1/", "-k", "--ca-bundle", "ca.pem", "--no-password"},
			errMsg: "none of the others can be",
		},
		{
			name:    "missing bundle",
			args:    []string{"request", "GET", "https://127.0.0.1:1/", "--pkcs12", filepath.Join(t.TempDir(), "missing.p12"), "--no-password"},
			wantErr: os.ErrNotExist,
		},
		{
			name:   "missing arguments",
			args:   []string{"request", "GET"},
			errMsg: "accepts 2 arg(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	f := newFixture(t, []byte(testPassword))

	t.Run("table", func(t *testing.T) {
		out, _, err := run(t, "", "inspect", f.bundle, "--password", testPassword)
		require.NoError(t, err)
		assert.Contains(t, out, "client")
		assert.Contains(t, out, "valid")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "", "inspect", f.bundle, "--password", testPassword, "--json")
		require.NoError(t, err)

		var summary struct {
			ChainLength  int `json:"chainLength"`
			Certificates []struct {
				Role string `json:"role"`
			} `json:"certificates"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, 0, summary.ChainLength)
		require.Len(t, summary.Certificates, 1)
		assert.Equal(t, "Leaf", summary.Certificates[0].Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := run(t, "", "inspect", f.bundle, "--password", "wrong")
		assert.ErrorIs(t, err, pkcs12.ErrIncorrectPassword)
	})
}

func TestInspectExpired(t *testing.T) {
	now := time.Now()
	id, err := selftest.NewIdentity(selftest.Options{
		CommonName: "stale",
		ECDSA:      true,
		NotBefore:  now.Add(-48 * time.Hour),
		NotAfter:   now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	pfx, err := id.Bundle(nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stale.p12")
	require.NoError(t, os.WriteFile(path, pfx, 0o600))

	out, _, err := run(t, "", "inspect", path, "--no-password")
	assert.ErrorIs(t, err, x509certs.ErrCertificateExpired)
	assert.Contains(t, out, "expired", "the table is printed before failing")
}

func TestSelfTest(t *testing.T) {
	if testing.Short() {
		t.Skip("generates an RSA key")
	}

	out, _, err := run(t, "", "selftest", "--rsa-bits", "2048")
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(out, "PASS"), out)
	assert.Contains(t, out, "PASS empty password")
}
