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

// AliasForcingKeyManager wraps a KeyManager and forces use of a particular
// alias for client authentication. If the forced alias is not in the
// wrapped manager's valid-alias list for any requested key type, no
// identity is presented at all; the wrapper never substitutes another
// alias. Every other operation delegates to the wrapped manager verbatim.
type AliasForcingKeyManager struct {
	base  KeyManager
	alias string
}

// ForceAlias wraps base so that client-alias selection always yields
// alias when permissible, and no identity otherwise.
func ForceAlias(base KeyManager, alias string) *AliasForcingKeyManager {
	return &AliasForcingKeyManager{base: base, alias: alias}
}

// ChooseClientAlias checks the forced alias against the wrapped manager's
// valid-alias list for each key type, in the order the key types are
// supplied. The first key type whose list contains the forced alias wins;
// later types are not examined. Returns "" when no list contains it.
func (m *AliasForcingKeyManager) ChooseClientAlias(keyTypes []string, issuers []pkix.Name) string {
	for _, kt := range keyTypes {
		for _, valid := range m.base.GetClientAliases(kt, issuers) {
			if valid == m.alias {
				return m.alias
			}
		}
	}
	return ""
}

// ChooseServerAlias delegates to the wrapped manager.
func (m *AliasForcingKeyManager) ChooseServerAlias(keyType string, issuers []pkix.Name) string {
	return m.base.ChooseServerAlias(keyType, issuers)
}

// GetCertificateChain delegates to the wrapped manager.
func (m *AliasForcingKeyManager) GetCertificateChain(alias string) []*x509.Certificate {
	return m.base.GetCertificateChain(alias)
}

// GetClientAliases delegates to the wrapped manager.
func (m *AliasForcingKeyManager) GetClientAliases(keyType string, issuers []pkix.Name) []string {
	return m.base.GetClientAliases(keyType, issuers)
}

// GetPrivateKey delegates to the wrapped manager.
func (m *AliasForcingKeyManager) GetPrivateKey(alias string) crypto.PrivateKey {
	return m.base.GetPrivateKey(alias)
}

// GetServerAliases delegates to the wrapped manager.
func (m *AliasForcingKeyManager) GetServerAliases(keyType string, issuers []pkix.Name) []string {
	return m.base.GetServerAliases(keyType, issuers)
}
