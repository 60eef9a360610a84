// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/logger"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/transport"
)

var (
	// ErrSelfTestFailed is returned when a selftest case does not behave as expected.
	ErrSelfTestFailed = errors.New("cli: self-test failed")

	// ErrInvalidHeader is returned for a --header value without a colon.
	ErrInvalidHeader = errors.New("cli: header must be in \"Key: Value\" form")
)

// Execute builds the root command and runs it with os.Args.
// Cancelling ctx aborts an in-flight request.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}

// NewRootCommand returns the root command with every subcommand attached.
// Output goes to the command's configured writers, so tests can capture it
// with SetOut and SetErr.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	if log == nil {
		log = logger.Discard
	}

	root := &cobra.Command{
		Use:           posix.ExecutableName("pkcs12-request"),
		Short:         "HTTP client authenticated with a PKCS#12 client certificate",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRequestCommand(log),
		newInspectCommand(),
		newSelfTestCommand(log),
	)
	return root
}

// passwordFlags holds the mutually exclusive password sources shared by
// request and inspect.
type passwordFlags struct {
	password      string
	passwordStdin bool
	noPassword    bool
}

func (p *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.password, "password", "p", "", "bundle password (may be empty)")
	cmd.Flags().BoolVar(&p.passwordStdin, "password-stdin", false, "read the bundle password from the first line of stdin")
	cmd.Flags().BoolVar(&p.noPassword, "no-password", false, "the bundle has no password")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin", "no-password")
}

// resolve returns the password chosen on the command line, or fallback when
// none of the password flags was given.
func (p *passwordFlags) resolve(cmd *cobra.Command, fallback transport.Password) (transport.Password, error) {
	switch {
	case p.noPassword:
		return transport.NoPassword(), nil
	case p.passwordStdin:
		line, err := readLine(cmd.InOrStdin())
		if err != nil {
			return transport.Password{}, fmt.Errorf("cli: read password from stdin: %w", err)
		}
		return transport.PasswordFromString(line), nil
	case cmd.Flags().Changed("password"):
		return transport.PasswordFromString(p.password), nil
	default:
		return fallback, nil
	}
}

func readLine(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
