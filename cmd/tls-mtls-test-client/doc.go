// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// tls-mtls-test-client is a command-line client for validating
// mutual-authentication TLS configurations against a server. It connects,
// completes the handshake with an operator-chosen trust store and client
// identity, then forwards stdin to the server one line at a time.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/tls-mtls-test-client/cmd/tls-mtls-test-client@latest
//
// # Usage
//
//	tls-mtls-test-client [OPTIONS]
//
// # Options
//
// Options are single-hyphen and case-insensitive:
//
//	-host    host of server (default 'localhost')
//	-port    port of server (default 8087)
//	-ks      keystore path (default 'keys/clientkeys.p12', PKCS#12 or PEM)
//	-kspass  keystore password (default 'password')
//	-ts      truststore path (default 'keys/clienttrust.p12', PKCS#12 or certificate bundle)
//	-tspass  truststore password (default 'password')
//	-alias   force this client identity (default: automatic selection)
//	-enc     wire charset, IANA name (default 'UTF-8')
//	-list    list keystore aliases and exit
//
// # Examples
//
// Connect with a forced client identity:
//
//	tls-mtls-test-client -host example.test -port 9443 -alias clientA
//
// See which identities a keystore holds:
//
//	tls-mtls-test-client -ks clientkeys.p12 -kspass secret -list
//
// Pipe a scripted payload through an established session:
//
//	printf 'hello\nworld\n' | tls-mtls-test-client -host example.test -port 9443
//
// An unknown option or a flag missing its value prints the usage text and
// exits without connecting. After a successful handshake, each input line
// is sent UTF-8 encoded with a trailing newline, one write per line; the
// client reads nothing back. Stop it with Ctrl-C or end-of-input.
package main
