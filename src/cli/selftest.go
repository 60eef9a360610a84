// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/internal/selftest"
	x509certs "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/logger"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/transport"
)

const selfTestPassword = "selftest-password"

// selfTestCase is one run of the end-to-end scenario. The bundle is
// packaged with encode and opened with password; a nil wantErr means the
// request must succeed with 200.
type selfTestCase struct {
	name     string
	encode   []byte
	password transport.Password
	wantErr  error
}

func newSelfTestCommand(log logger.Logger) *cobra.Command {
	var rsaBits int

	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the client certificate round trip against a local HTTPS server",
		Long: `Run the client certificate round trip against a local HTTPS server.

A throwaway self-signed client certificate is packaged as PKCS#12 three
times: with a password, without one, and with an empty password. The first
two must reach the server and get 200; the third must be rejected because an
empty password cannot encrypt the private key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSelfTest(cmd, log, rsaBits)
		},
	}

	cmd.Flags().IntVar(&rsaBits, "rsa-bits", selftest.DefaultRSABits, "RSA key size of the throwaway client certificate")
	return cmd
}

func runSelfTest(cmd *cobra.Command, log logger.Logger, rsaBits int) error {
	client, err := selftest.NewIdentity(selftest.Options{CommonName: "pkcs12-selftest", RSABits: rsaBits})
	if err != nil {
		return err
	}

	srv, err := selftest.StartServer(client.Cert)
	if err != nil {
		return err
	}
	defer srv.Close()

	cases := []selfTestCase{
		{name: "password", encode: []byte(selfTestPassword), password: transport.PasswordFromString(selfTestPassword)},
		{name: "no password", password: transport.NoPassword()},
		{name: "empty password", encode: []byte{}, password: transport.PasswordFromString(""), wantErr: x509certs.ErrPasswordTooShort},
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, tc := range cases {
		if err := tc.run(cmd, client, srv, log); err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", tc.name, err)
			continue
		}
		fmt.Fprintf(out, "PASS %s\n", tc.name)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d cases", ErrSelfTestFailed, failed, len(cases))
	}
	return nil
}

func (tc selfTestCase) run(cmd *cobra.Command, client *selftest.Identity, srv *selftest.Server, log logger.Logger) error {
	pfx, err := client.Bundle(tc.encode)
	if err != nil {
		return err
	}

	resp, err := transport.Get(cmd.Context(), srv.URL,
		transport.WithPKCS12(
			transport.WithBundle(pfx),
			transport.WithPasswordOption(tc.password),
			transport.WithRootCAs(srv.Identity.Pool()),
			transport.WithLogger(log),
		),
	)

	if tc.wantErr != nil {
		if err == nil {
			resp.Body.Close()
			return fmt.Errorf("expected %v, got %s", tc.wantErr, resp.Status)
		}
		if !errors.Is(err, tc.wantErr) {
			return fmt.Errorf("expected %v, got %w", tc.wantErr, err)
		}
		return nil
	}

	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}
