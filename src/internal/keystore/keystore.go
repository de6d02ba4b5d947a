// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/pkcs12"
)

var (
	// ErrCredentialLoad indicates the identity store could not be opened or
	// decoded (missing file, unreadable file, or wrong password).
	ErrCredentialLoad = errors.New("keystore: failed to load identity store")

	// ErrTrustLoad indicates the trust store could not be opened or decoded.
	ErrTrustLoad = errors.New("keystore: failed to load trust store")
)

// Entry is one credential held by a Store: a unique alias, the certificate
// chain (leaf first), and the matching private key.
type Entry struct {
	Alias string
	Chain []*x509.Certificate
	Key   crypto.PrivateKey
}

// Store is the store-backed KeyManager implementation. Aliases are
// evaluated on demand against the requested key type, the acceptable
// issuers, and the certificate validity window, so the valid-alias list
// depends on the negotiation context rather than being a static table.
type Store struct {
	entries []Entry
	now     func() time.Time
}

// NewStore builds a Store from already-decoded entries. Entry order is
// preserved; it determines the order of every valid-alias list.
func NewStore(entries []Entry) *Store {
	return &Store{entries: entries, now: time.Now}
}

// LoadIdentity opens the credential container at path and returns the
// identity-management capability for its key entries. The container is
// either a password-protected PKCS#12 file or a plain PEM bundle of
// private keys and certificates (the password is ignored for PEM).
//
// The file is held only for the duration of the load. Certificate-only
// entries (trusted-certificate bags) are ignored here; they belong in a
// trust store.
func LoadIdentity(path, password string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCredentialLoad, path, err)
	}

	entries, err := decodeEntries(data, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCredentialLoad, path, err)
	}

	return NewStore(entries), nil
}

// Entries returns a copy of the store's entries in store order.
// The -list inspection mode uses this to render the store contents.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ChooseClientAlias returns the first alias valid for the first key type
// that has any valid alias, or "" when none qualifies.
func (s *Store) ChooseClientAlias(keyTypes []string, issuers []pkix.Name) string {
	for _, kt := range keyTypes {
		if aliases := s.GetClientAliases(kt, issuers); len(aliases) > 0 {
			return aliases[0]
		}
	}
	return ""
}

// ChooseServerAlias returns the first alias valid for the key type, or "".
func (s *Store) ChooseServerAlias(keyType string, issuers []pkix.Name) string {
	if aliases := s.GetServerAliases(keyType, issuers); len(aliases) > 0 {
		return aliases[0]
	}
	return ""
}

// GetCertificateChain returns the chain for alias, leaf first, or nil.
func (s *Store) GetCertificateChain(alias string) []*x509.Certificate {
	for _, e := range s.entries {
		if e.Alias == alias {
			return e.Chain
		}
	}
	return nil
}

// GetClientAliases lists aliases valid for keyType and issuers, in store order.
func (s *Store) GetClientAliases(keyType string, issuers []pkix.Name) []string {
	return s.validAliases(keyType, issuers)
}

// GetPrivateKey returns the private key for alias, or nil.
func (s *Store) GetPrivateKey(alias string) crypto.PrivateKey {
	for _, e := range s.entries {
		if e.Alias == alias {
			return e.Key
		}
	}
	return nil
}

// GetServerAliases lists aliases valid for keyType and issuers, in store order.
func (s *Store) GetServerAliases(keyType string, issuers []pkix.Name) []string {
	return s.validAliases(keyType, issuers)
}

// validAliases applies the negotiation context: key algorithm, validity
// window, and acceptable issuers.
func (s *Store) validAliases(keyType string, issuers []pkix.Name) []string {
	var out []string
	now := s.now()
	for _, e := range s.entries {
		if len(e.Chain) == 0 {
			continue
		}
		leaf := e.Chain[0]
		if !strings.EqualFold(KeyTypeOf(leaf.PublicKey), keyType) {
			continue
		}
		if now.Before(leaf.NotBefore) || now.After(leaf.NotAfter) {
			continue
		}
		if !issuerMatch(e.Chain, issuers) {
			continue
		}
		out = append(out, e.Alias)
	}
	return out
}

// issuerMatch reports whether the chain was issued under one of the
// acceptable issuers. An empty issuer set accepts any chain.
func issuerMatch(chain []*x509.Certificate, issuers []pkix.Name) bool {
	if len(issuers) == 0 {
		return true
	}
	for _, cert := range chain {
		for _, issuer := range issuers {
			if cert.Issuer.String() == issuer.String() {
				return true
			}
		}
	}
	return false
}

// KeyTypeOf maps a public key to its key algorithm type name.
// Unknown algorithms map to "".
func KeyTypeOf(pub crypto.PublicKey) string {
	switch pub.(type) {
	case *rsa.PublicKey:
		return KeyTypeRSA
	case *ecdsa.PublicKey:
		return KeyTypeEC
	case ed25519.PublicKey:
		return KeyTypeEd25519
	}
	return ""
}

// decodeEntries turns a container payload into key entries.
func decodeEntries(data []byte, password string) ([]Entry, error) {
	if block, _ := pem.Decode(data); block != nil {
		return decodePEMEntries(data)
	}
	return decodePKCS12Entries(data, password)
}

// decodePEMEntries reads a PEM bundle. Each private key starts a new
// credential; the certificates that follow it form the chain, leaf
// first. A friendlyName header or the leaf's common name supplies the
// alias. Certificates before any key are ignored (they belong in a
// trust store).
func decodePEMEntries(data []byte) ([]Entry, error) {
	var entries []Entry
	var current *Entry

	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		data = rest

		switch block.Type {
		case "PRIVATE KEY", "RSA PRIVATE KEY", "EC PRIVATE KEY":
			key, err := parsePrivateKey(block)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Alias: block.Headers["friendlyName"], Key: key})
			current = &entries[len(entries)-1]
		case "CERTIFICATE":
			if current == nil {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, err
			}
			current.Chain = append(current.Chain, cert)
		}
	}

	for i := range entries {
		if entries[i].Alias == "" && len(entries[i].Chain) > 0 {
			entries[i].Alias = entries[i].Chain[0].Subject.CommonName
		}
		if entries[i].Alias == "" {
			entries[i].Alias = fmt.Sprintf("%d", i+1)
		}
	}
	return entries, nil
}

// decodePKCS12Entries pairs the container's key bags with their
// certificate bags. The container format and its crypto wrapping are
// owned by the pkcs12 library.
func decodePKCS12Entries(data []byte, password string) ([]Entry, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return nil, err
	}

	type bag struct {
		alias string
		key   crypto.PrivateKey
		certs []*x509.Certificate
	}

	// Bags sharing a localKeyId form one credential. Ordered by first
	// appearance so store order is stable.
	var order []string
	bags := make(map[string]*bag)
	get := func(id string) *bag {
		b, ok := bags[id]
		if !ok {
			b = &bag{}
			bags[id] = b
			order = append(order, id)
		}
		return b
	}

	for i, block := range blocks {
		id := block.Headers["localKeyId"]
		if id == "" {
			id = fmt.Sprintf("bag-%d", i)
		}
		b := get(id)
		if name := block.Headers["friendlyName"]; name != "" && b.alias == "" {
			b.alias = name
		}

		switch block.Type {
		case "CERTIFICATE":
			cert, cerr := x509.ParseCertificate(block.Bytes)
			if cerr != nil {
				return nil, cerr
			}
			b.certs = append(b.certs, cert)
		case "PRIVATE KEY":
			key, kerr := parsePrivateKey(block)
			if kerr != nil {
				return nil, kerr
			}
			b.key = key
		}
	}

	var entries []Entry
	for i, id := range order {
		b := bags[id]
		if b.key == nil || len(b.certs) == 0 {
			// Trusted-certificate bag or orphaned key; not an identity.
			continue
		}
		alias := b.alias
		if alias == "" {
			alias = fmt.Sprintf("%d", i+1)
		}
		entries = append(entries, Entry{Alias: alias, Chain: b.certs, Key: b.key})
	}
	return entries, nil
}

// parsePrivateKey handles the encodings pkcs12.ToPEM emits: PKCS#1 for
// RSA, SEC 1 for EC, and PKCS#8 for everything else.
func parsePrivateKey(block *pem.Block) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("keystore: unsupported private key encoding: %v", err)
	}
	return key, nil
}
