// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package session

import (
	"crypto/tls"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/keystore"
)

var (
	// ErrHandshake indicates the TLS handshake did not complete. The
	// underlying connection is always closed before this error surfaces.
	ErrHandshake = errors.New("session: handshake failed")

	// ErrTransmission indicates an I/O failure while streaming lines over
	// an established session.
	ErrTransmission = errors.New("session: transmission failed")

	// ErrNotEstablished indicates Transmit was called before a successful
	// handshake.
	ErrNotEstablished = errors.New("session: not established")
)

// State tracks a Session through its lifecycle.
type State int

const (
	Unconnected State = iota
	Connected
	HandshakeComplete
	Closed
	Failed
)

// String returns the state name for log output.
func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connected:
		return "connected"
	case HandshakeComplete:
		return "handshake-complete"
	case Closed:
		return "closed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Session wraps one TLS connection to the server under test. A run owns
// exactly one Session; it is not safe for concurrent use and holds no
// internal locking, matching the single-threaded control flow of a run.
type Session struct {
	host  string
	port  int
	trust *keystore.TrustAnchors
	km    keystore.KeyManager

	conn  *tls.Conn
	state State
}

// New creates an unconnected Session for (host, port) using the given
// trust-decision and identity-management capabilities. Either capability
// may be nil: a nil trust falls back to the system roots, a nil key
// manager presents no client certificate.
func New(host string, port int, trust *keystore.TrustAnchors, km keystore.KeyManager) *Session {
	return &Session{host: host, port: port, trust: trust, km: km, state: Unconnected}
}

// State reports the session's current lifecycle state.
func (s *Session) State() State { return s.state }

// Connect opens the TCP connection and drives the TLS handshake
// synchronously. There is no explicit timeout; the operating system's
// socket defaults bound the wait, and the process-level interrupt is the
// only cancellation mechanism.
//
// On any failure the underlying connection is closed before the error is
// returned and the session is Failed.
func (s *Session) Connect() error {
	if s.state != Unconnected {
		return fmt.Errorf("%w: connect from state %s", ErrHandshake, s.state)
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	rawConn, err := net.Dial("tcp", addr)
	if err != nil {
		s.state = Failed
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}
	s.state = Connected

	conn := tls.Client(rawConn, s.tlsConfig())
	if err := conn.Handshake(); err != nil {
		conn.Close()
		s.state = Failed
		return fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	s.conn = conn
	s.state = HandshakeComplete
	return nil
}

// ConnectionState exposes the negotiated TLS parameters after a
// successful handshake, for status output.
func (s *Session) ConnectionState() tls.ConnectionState {
	if s.conn == nil {
		return tls.ConnectionState{}
	}
	return s.conn.ConnectionState()
}

// Close releases the underlying connection. It is idempotent: closing a
// Closed, Failed, or never-opened session is a no-op, and it never
// returns an error.
func (s *Session) Close() {
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.state != Failed {
		s.state = Closed
	}
}

// tlsConfig builds the client TLS configuration from the session's
// capabilities. Certificate chain validation stays with the TLS engine;
// only trust anchors and identity selection are supplied here.
func (s *Session) tlsConfig() *tls.Config {
	cfg := &tls.Config{ServerName: s.host}
	if s.trust != nil {
		cfg.RootCAs = s.trust.CertPool()
	}
	if s.km != nil {
		cfg.GetClientCertificate = s.clientCertificate
	}
	return cfg
}

// clientCertificate maps the server's certificate request onto the
// KeyManager capability. An empty alias answer means no client
// certificate is presented; the handshake then proceeds unauthenticated
// on the client side, and the server's policy decides the outcome.
func (s *Session) clientCertificate(req *tls.CertificateRequestInfo) (*tls.Certificate, error) {
	keyTypes := keyTypesFromSchemes(req.SignatureSchemes)
	issuers := issuersFromDER(req.AcceptableCAs)

	alias := s.km.ChooseClientAlias(keyTypes, issuers)
	if alias == "" {
		return &tls.Certificate{}, nil
	}

	chain := s.km.GetCertificateChain(alias)
	key := s.km.GetPrivateKey(alias)
	if len(chain) == 0 || key == nil {
		return &tls.Certificate{}, nil
	}

	cert := &tls.Certificate{PrivateKey: key, Leaf: chain[0]}
	for _, c := range chain {
		cert.Certificate = append(cert.Certificate, c.Raw)
	}
	return cert, nil
}

// keyTypesFromSchemes derives the ordered key-algorithm type names the
// server will accept from its advertised signature schemes. Order of
// first appearance is preserved; a server that advertises nothing gets
// the full set.
func keyTypesFromSchemes(schemes []tls.SignatureScheme) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(kt string) {
		if kt != "" && !seen[kt] {
			seen[kt] = true
			out = append(out, kt)
		}
	}

	for _, scheme := range schemes {
		switch scheme {
		case tls.PKCS1WithSHA256, tls.PKCS1WithSHA384, tls.PKCS1WithSHA512, tls.PKCS1WithSHA1,
			tls.PSSWithSHA256, tls.PSSWithSHA384, tls.PSSWithSHA512:
			add(keystore.KeyTypeRSA)
		case tls.ECDSAWithP256AndSHA256, tls.ECDSAWithP384AndSHA384, tls.ECDSAWithP521AndSHA512,
			tls.ECDSAWithSHA1:
			add(keystore.KeyTypeEC)
		case tls.Ed25519:
			add(keystore.KeyTypeEd25519)
		}
	}

	if len(out) == 0 {
		return []string{keystore.KeyTypeRSA, keystore.KeyTypeEC, keystore.KeyTypeEd25519}
	}
	return out
}

// issuersFromDER parses the server's acceptable-CA distinguished names.
// Malformed entries are skipped rather than failing the handshake.
func issuersFromDER(acceptableCAs [][]byte) []pkix.Name {
	var out []pkix.Name
	for _, der := range acceptableCAs {
		var rdns pkix.RDNSequence
		if rest, err := asn1.Unmarshal(der, &rdns); err != nil || len(rest) != 0 {
			continue
		}
		var name pkix.Name
		name.FillFromRDNSequence(&rdns)
		out = append(out, name)
	}
	return out
}
