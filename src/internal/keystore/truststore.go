// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto/x509"
	"fmt"
	"os"

	x509certs "github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/x509/certs"
	"golang.org/x/crypto/pkcs12"
)

// TrustAnchors is the trust-decision capability produced from a trust
// store. It is opaque to everything except the session layer, which
// hands the pool to the TLS engine for peer chain validation.
type TrustAnchors struct {
	pool  *x509.CertPool
	count int
}

// LoadTrust opens the trust store at path and returns its trust anchors.
//
// The store is either a password-protected PKCS#12 container of trusted
// certificates or a plain PEM/DER/PKCS7 certificate bundle, in which
// case the password is ignored. The file is held only for the duration
// of the load.
func LoadTrust(path, password string) (*TrustAnchors, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTrustLoad, path, err)
	}

	certs, err := decodeTrustCerts(data, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrTrustLoad, path, err)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: %q: no certificates in store", ErrTrustLoad, path)
	}

	pool := x509.NewCertPool()
	for _, cert := range certs {
		pool.AddCert(cert)
	}
	return &TrustAnchors{pool: pool, count: len(certs)}, nil
}

// CertPool exposes the anchors as an *x509.CertPool for tls.Config.RootCAs.
func (t *TrustAnchors) CertPool() *x509.CertPool { return t.pool }

// Len returns the number of trust anchors loaded.
func (t *TrustAnchors) Len() int { return t.count }

// decodeTrustCerts extracts every certificate from the store payload.
func decodeTrustCerts(data []byte, password string) ([]*x509.Certificate, error) {
	decoder := x509certs.New()
	if decoder.IsPEM(data) {
		return decoder.DecodeMultiple(data)
	}

	// Raw payload: try PKCS#12 first, then DER / PKCS7 bundles.
	blocks, err := pkcs12.ToPEM(data, password)
	if err == nil {
		var certs []*x509.Certificate
		for _, block := range blocks {
			if block.Type != "CERTIFICATE" {
				continue
			}
			cert, cerr := x509.ParseCertificate(block.Bytes)
			if cerr != nil {
				return nil, cerr
			}
			certs = append(certs, cert)
		}
		return certs, nil
	}

	return decoder.DecodeMultiple(data)
}
