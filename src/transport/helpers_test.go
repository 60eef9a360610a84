// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package transport_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/internal/selftest"
)

const testPassword = "correcthorsebatterystaple"

type fixture struct {
	client *selftest.Identity
	server *selftest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	client, err := selftest.NewIdentity(selftest.Options{CommonName: "client", ECDSA: true})
	require.NoError(t, err)

	srv, err := selftest.StartServer(client.Cert)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	return &fixture{client: client, server: srv}
}

func (f *fixture) bundle(t *testing.T, password []byte) []byte {
	t.Helper()
	pfx, err := f.client.Bundle(password)
	require.NoError(t, err)
	return pfx
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
