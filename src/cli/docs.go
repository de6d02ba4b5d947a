// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the mutual-TLS test
// client. It resolves the single-hyphen, case-insensitive option grammar
// through an ordered chain of option handlers, loads the identity and
// trust stores, and drives the connect/handshake/transmit run. Defaults
// may come from an optional JSON or YAML file named by the
// TLS_MTLS_CLIENT_CONFIG environment variable; flags always win.
package cli
