// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/logger"
)

// displayUsage prints the command-line usage for the client.
func displayUsage(log logger.Logger) {
	log.Printf("Usage: %s [options]", posix.GetExecutableName())
	log.Println("Options:")
	log.Printf("\t-host\thost of server (default '%s')", DefaultHost)
	log.Printf("\t-port\tport of server (default %d)", DefaultPort)
	log.Printf("\t-ks\tkeystore (default '%s', PKCS#12 or PEM format)", DefaultKeyStorePath)
	log.Printf("\t-kspass\tkeystore password (default '%s')", DefaultKeyStorePassword)
	log.Printf("\t-ts\ttruststore (default '%s', PKCS#12 or certificate bundle)", DefaultTrustStorePath)
	log.Printf("\t-tspass\ttruststore password (default '%s')", DefaultTrustStorePassword)
	log.Println("\t-alias\talias to use")
	log.Println("\t-enc\twire charset, IANA name (default 'UTF-8')")
	log.Println("\t-list\tlist keystore aliases and exit")
}
