// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package session establishes one TLS client session from trust and
// identity capabilities and streams line-oriented input over it. The TLS
// protocol engine (record layer, cipher negotiation, chain validation)
// is crypto/tls; this package only wires capabilities into it and drives
// the connect → handshake → transmit → close lifecycle.
package session
