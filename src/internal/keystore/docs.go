// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package keystore loads password-protected credential containers and
// exposes the two capabilities the TLS session needs: identity management
// (KeyManager) and trust decisions (TrustAnchors).
//
// The on-disk container format is PKCS#12 or a plain PEM bundle. PKCS#12
// parsing and its crypto wrapping are owned by golang.org/x/crypto/pkcs12,
// never reimplemented here. The package also provides AliasForcingKeyManager, a decorator
// that overrides client-alias selection with an operator-chosen alias
// while delegating everything else to the wrapped capability.
package keystore
