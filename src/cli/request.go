// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/H0llyW00dzZ/pkcs12-transport/src/config"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/logger"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/metrics"
	"github.com/H0llyW00dzZ/pkcs12-transport/src/transport"
)

type requestFlags struct {
	passwordFlags

	pkcs12File  string
	profile     string
	insecure    bool
	caBundle    string
	data        string
	headers     []string
	output      string
	configFile  string
	timeout     time.Duration
	dumpMetrics bool
}

func newRequestCommand(log logger.Logger) *cobra.Command {
	f := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "request METHOD URL",
		Short: "Send one HTTP request, optionally with a PKCS#12 client certificate",
		Example: `  pkcs12-request request GET https://mtls.example.com/ --pkcs12 client.p12 --password-stdin
  pkcs12-request request POST https://api.example.com/items --pkcs12 client.p12 --no-password -d @item.json -H "Content-Type: application/json"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, f, log, strings.ToUpper(args[0]), args[1])
		},
	}

	f.passwordFlags.register(cmd)
	flags := cmd.Flags()
	flags.StringVar(&f.pkcs12File, "pkcs12", "", "PKCS#12 client bundle (omit to send without a client certificate)")
	flags.StringVar(&f.profile, "profile", "", "TLS profile: client, negotiate, tls1.2 or tls1.3")
	flags.BoolVarP(&f.insecure, "insecure", "k", false, "skip server certificate verification")
	flags.StringVar(&f.caBundle, "ca-bundle", "", "verify the server against this PEM, DER or PKCS#7 bundle")
	flags.StringVarP(&f.data, "data", "d", "", "request body; @FILE reads it from FILE")
	flags.StringArrayVarP(&f.headers, "header", "H", nil, "request header \"Key: Value\" (repeatable)")
	flags.StringVarP(&f.output, "output", "o", "", "write the response body to OUTPUT_FILE (default: stdout)")
	flags.StringVarP(&f.configFile, "config", "c", "", "configuration file (JSON or YAML)")
	flags.DurationVar(&f.timeout, "timeout", 0, "overall request timeout (default from config, 30s)")
	flags.BoolVar(&f.dumpMetrics, "metrics", false, "print Prometheus metrics to stderr after the request")
	cmd.MarkFlagsMutuallyExclusive("insecure", "ca-bundle")

	return cmd
}

func runRequest(cmd *cobra.Command, f *requestFlags, log logger.Logger, method, rawURL string) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return err
	}
	f.applyTo(cmd, cfg)

	password, err := f.resolve(cmd, cfg.PasswordOption())
	if err != nil {
		return err
	}

	var recorder *metrics.Prometheus
	if f.dumpMetrics {
		if recorder, err = metrics.NewPrometheus(nil); err != nil {
			return err
		}
	}

	opts := []transport.RequestOption{
		transport.WithVerify(cfg.Verification()),
		transport.WithTimeout(f.timeoutOr(cmd, cfg.Timeout())),
	}
	for _, h := range f.headers {
		key, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidHeader, h)
		}
		opts = append(opts, transport.WithHeader(strings.TrimSpace(key), strings.TrimSpace(value)))
	}

	if cfg.PKCS12File != "" {
		adapterOpts, err := cfg.AdapterOptions()
		if err != nil {
			return err
		}
		adapterOpts = append(adapterOpts,
			transport.WithPasswordOption(password),
			transport.WithLogger(log),
		)
		if recorder != nil {
			adapterOpts = append(adapterOpts, transport.WithMetrics(recorder))
		}
		opts = append(opts, transport.WithPKCS12(adapterOpts...))
	}

	body, err := requestBody(f.data)
	if err != nil {
		return err
	}

	resp, err := transport.Request(cmd.Context(), method, rawURL, body, opts...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return fmt.Errorf("cli: read response body: %w", err)
	}

	log.Printf("%s %s: %s (%d bytes)", method, rawURL, resp.Status, buf.Len())

	if err := writeOutput(cmd, f.output, buf.Bytes()); err != nil {
		return err
	}

	if recorder != nil {
		return recorder.WriteText(cmd.ErrOrStderr())
	}
	return nil
}

// applyTo lets explicitly set flags override the loaded configuration.
func (f *requestFlags) applyTo(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("pkcs12") {
		cfg.PKCS12File = f.pkcs12File
	}
	if flags.Changed("profile") {
		cfg.Profile = f.profile
	}
	if flags.Changed("insecure") {
		cfg.Insecure = f.insecure
		if f.insecure {
			cfg.CABundle = ""
		}
	}
	if flags.Changed("ca-bundle") {
		cfg.CABundle = f.caBundle
		cfg.Insecure = false
	}
}

func (f *requestFlags) timeoutOr(cmd *cobra.Command, fallback time.Duration) time.Duration {
	if cmd.Flags().Changed("timeout") {
		return f.timeout
	}
	return fallback
}

func requestBody(data string) (io.Reader, error) {
	switch {
	case data == "":
		return nil, nil
	case strings.HasPrefix(data, "@"):
		f, err := os.Open(strings.TrimPrefix(data, "@"))
		if err != nil {
			return nil, fmt.Errorf("cli: open request body: %w", err)
		}
		// The HTTP client closes the body once it is sent.
		return f, nil
	default:
		return strings.NewReader(data), nil
	}
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cli: write output file: %w", err)
	}
	return nil
}
