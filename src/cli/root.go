// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/keystore"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/session"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/logger"
	"github.com/spf13/cobra"
)

// ErrUsageDisplayed is returned after a failed command-line parse. The
// usage text has already been printed; the run ends without connecting.
var ErrUsageDisplayed = errors.New("cli: usage displayed")

// Execute runs the root command. Flag parsing is disabled on the cobra
// command because the client's option grammar (single hyphen,
// case-insensitive) is owned by the option chain, not by pflag; cobra
// only supplies the command scaffolding.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	rootCmd := &cobra.Command{
		Use:                posix.GetExecutableName(),
		Short:              "Mutual-TLS test client",
		Version:            version,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(args, os.Stdin, log)
		},
	}

	rootCmd.SetArgs(os.Args[1:])
	return rootCmd.ExecuteContext(ctx)
}

// Run is one complete client run: parse arguments, load the stores,
// establish the session, and stream input until end-of-input or failure.
//
// A transmission I/O failure has already been reported by the time the
// loop ends, and the run then ends normally; every other failure aborts
// the run with its error.
func Run(args []string, in io.Reader, log logger.Logger) error {
	cfg, err := LoadConfig()
	if err != nil {
		log.Printf("Error: %v", err)
		return err
	}
	if strings.EqualFold(cfg.LogFormat, "json") {
		log = logger.NewJSONLogger(nil)
	}

	if err := ParseArgs(&cfg, args); err != nil {
		displayUsage(log)
		return ErrUsageDisplayed
	}

	identity, err := keystore.LoadIdentity(cfg.KeyStorePath, cfg.KeyStorePassword)
	if err != nil {
		log.Printf("Error: %v", err)
		return err
	}

	if cfg.ListOnly {
		log.Println(renderStoreTable(identity.Entries()))
		return nil
	}

	trust, err := keystore.LoadTrust(cfg.TrustStorePath, cfg.TrustStorePassword)
	if err != nil {
		log.Printf("Error: %v", err)
		return err
	}

	// Any supplied -alias installs the forcer, even an empty one; an
	// empty forced alias matches no entry, so nothing is presented.
	var km keystore.KeyManager = identity
	if cfg.AliasSet {
		km = keystore.ForceAlias(identity, cfg.ForcedAlias)
	}

	s := session.New(cfg.Host, cfg.Port, trust, km)
	if err := s.Connect(); err != nil {
		log.Printf("Connection failed: %v", err)
		return err
	}
	defer s.Close()

	state := s.ConnectionState()
	log.Printf("Connected to %s:%d (%s, %s), enter lines to send:",
		cfg.Host, cfg.Port, tls.VersionName(state.Version), tls.CipherSuiteName(state.CipherSuite))

	enc, err := session.ResolveEncoding(cfg.Encoding)
	if err != nil {
		// Same fallback as an unsupported platform charset: warn and
		// keep sending UTF-8.
		log.Printf("Warning: %v, using UTF-8 instead", err)
		enc = nil
	}

	if err := s.Transmit(in, enc, log); err != nil {
		// Already logged by the loop; an I/O failure during transmission
		// ends the run normally.
		return nil
	}
	return nil
}
