// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	x509pkcs12 "github.com/H0llyW00dzZ/pkcs12-transport/src/internal/x509/pkcs12"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/transport"
)

func newInspectCommand() *cobra.Command {
	var (
		pw       passwordFlags
		jsonForm bool
	)

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Decode a PKCS#12 bundle and list its certificates",
		Long: `Decode a PKCS#12 bundle and list its certificates.

The leaf and every chain certificate are printed with their validity.
The command fails when any certificate has expired, after printing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("cli: read bundle: %w", err)
			}

			password, err := pw.resolve(cmd, transport.NoPassword())
			if err != nil {
				return err
			}

			cred, err := x509pkcs12.Decode(data, password.Bytes())
			if err != nil {
				return err
			}

			now := time.Now()
			if jsonForm {
				out, err := cred.JSON(now)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			} else {
				fmt.Fprint(cmd.OutOrStdout(), cred.RenderTable(now))
			}

			return cred.Validate(now)
		},
	}

	pw.register(cmd)
	cmd.Flags().BoolVar(&jsonForm, "json", false, "print a JSON summary instead of a table")
	return cmd
}
