// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
)

// Key algorithm type names used when querying a KeyManager.
// They follow the conventional TLS key-exchange naming.
const (
	KeyTypeRSA     = "RSA"
	KeyTypeEC      = "EC"
	KeyTypeEd25519 = "Ed25519"
)

// KeyManager is the identity-management capability: it answers which
// credential (alias) to present during a TLS handshake and resolves
// aliases to their certificate chains and private keys.
//
// Both the store-backed implementation and the alias-forcing decorator
// satisfy this interface, so callers can substitute one for the other.
type KeyManager interface {
	// ChooseClientAlias selects an alias to authenticate the client side
	// of a TLS connection. Key types are examined in the order supplied.
	// An empty string means no identity will be presented.
	ChooseClientAlias(keyTypes []string, issuers []pkix.Name) string

	// ChooseServerAlias selects an alias to authenticate the server side
	// of a TLS connection.
	ChooseServerAlias(keyType string, issuers []pkix.Name) string

	// GetCertificateChain returns the certificate chain for an alias,
	// leaf first, or nil if the alias is unknown.
	GetCertificateChain(alias string) []*x509.Certificate

	// GetClientAliases lists the aliases valid for the given key type and
	// acceptable issuers, in store order.
	GetClientAliases(keyType string, issuers []pkix.Name) []string

	// GetPrivateKey returns the private key for an alias, or nil if the
	// alias is unknown.
	GetPrivateKey(alias string) crypto.PrivateKey

	// GetServerAliases lists the aliases valid for server-side use under
	// the given key type and acceptable issuers.
	GetServerAliases(keyType string, issuers []pkix.Name) []string
}
