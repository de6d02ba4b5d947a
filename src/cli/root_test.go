// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"io"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/cli"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/keystore"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/internal/session"
	"github.com/H0llyW00dzZ/tls-mtls-test-client/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtures is an on-disk PKI for end-to-end runs: a PEM identity store
// with two RSA credentials, a PEM trust bundle, and a server credential.
type fixtures struct {
	keyStorePath   string
	trustStorePath string
	serverCert     tls.Certificate
	clientCAs      *x509.CertPool
}

func newFixtures(t *testing.T) *fixtures {
	t.Helper()
	dir := t.TempDir()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Run Test Root"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	issue := func(cn string, pub any, ext x509.ExtKeyUsage, sans bool) []byte {
		template := &x509.Certificate{
			SerialNumber: big.NewInt(time.Now().UnixNano()),
			Subject:      pkix.Name{CommonName: cn},
			NotBefore:    time.Now().Add(-time.Hour),
			NotAfter:     time.Now().Add(24 * time.Hour),
			KeyUsage:     x509.KeyUsageDigitalSignature,
			ExtKeyUsage:  []x509.ExtKeyUsage{ext},
		}
		if sans {
			template.DNSNames = []string{"localhost"}
			template.IPAddresses = []net.IP{net.ParseIP("127.0.0.1")}
		}
		der, err := x509.CreateCertificate(rand.Reader, template, caCert, pub, caKey)
		require.NoError(t, err)
		return der
	}

	// Identity store: clientA and clientB under key type RSA.
	var ksBuf bytes.Buffer
	for _, alias := range []string{"clientA", "clientB"} {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		der := issue(alias, &key.PublicKey, x509.ExtKeyUsageClientAuth, false)

		require.NoError(t, pem.Encode(&ksBuf, &pem.Block{
			Type:    "RSA PRIVATE KEY",
			Headers: map[string]string{"friendlyName": alias},
			Bytes:   x509.MarshalPKCS1PrivateKey(key),
		}))
		require.NoError(t, pem.Encode(&ksBuf, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
		require.NoError(t, pem.Encode(&ksBuf, &pem.Block{Type: "CERTIFICATE", Bytes: caDER}))
	}
	keyStorePath := filepath.Join(dir, "clientkeys.pem")
	require.NoError(t, os.WriteFile(keyStorePath, ksBuf.Bytes(), 0600))

	trustStorePath := filepath.Join(dir, "clienttrust.pem")
	trustPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caDER})
	require.NoError(t, os.WriteFile(trustStorePath, trustPEM, 0600))

	serverKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	serverDER := issue("localhost", &serverKey.PublicKey, x509.ExtKeyUsageServerAuth, true)

	pool := x509.NewCertPool()
	pool.AddCert(caCert)

	return &fixtures{
		keyStorePath:   keyStorePath,
		trustStorePath: trustStorePath,
		serverCert: tls.Certificate{
			Certificate: [][]byte{serverDER, caDER},
			PrivateKey:  serverKey,
		},
		clientCAs: pool,
	}
}

type serverResult struct {
	peerCNs []string
	payload []byte
	err     error
}

func (f *fixtures) startServer(t *testing.T, clientAuth tls.ClientAuthType) (int, <-chan serverResult) {
	t.Helper()

	cfg := &tls.Config{
		Certificates: []tls.Certificate{f.serverCert},
		ClientAuth:   clientAuth,
		ClientCAs:    f.clientCAs,
	}
	ln, err := tls.Listen("tcp", "127.0.0.1:0", cfg)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	results := make(chan serverResult, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			results <- serverResult{err: err}
			return
		}
		defer conn.Close()

		tlsConn := conn.(*tls.Conn)
		if err := tlsConn.Handshake(); err != nil {
			results <- serverResult{err: err}
			return
		}

		var res serverResult
		for _, cert := range tlsConn.ConnectionState().PeerCertificates {
			res.peerCNs = append(res.peerCNs, cert.Subject.CommonName)
		}
		res.payload, _ = io.ReadAll(conn)
		results <- res
	}()

	return ln.Addr().(*net.TCPAddr).Port, results
}

func (f *fixtures) baseArgs(port int) []string {
	return []string{
		"-host", "127.0.0.1", "-port", strconv.Itoa(port),
		"-ks", f.keyStorePath, "-ts", f.trustStorePath,
	}
}

func newTestLogger() (logger.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.NewCLILogger()
	log.SetOutput(&buf)
	return log, &buf
}

func TestRunForcedAliasEndToEnd(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	port, results := f.startServer(t, tls.RequireAndVerifyClientCert)
	log, _ := newTestLogger()

	args := append(f.baseArgs(port), "-alias", "clientA")
	err := cli.Run(args, strings.NewReader("hello\nworld\n"), log)
	require.NoError(t, err)

	res := <-results
	require.NoError(t, res.err)
	require.NotEmpty(t, res.peerCNs)
	assert.Equal(t, "clientA", res.peerCNs[0])
	assert.Equal(t, "hello\nworld\n", string(res.payload))
}

func TestRunUnknownAliasPresentsNoCertificate(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	port, results := f.startServer(t, tls.RequestClientCert)
	log, _ := newTestLogger()

	args := append(f.baseArgs(port), "-alias", "nope")
	err := cli.Run(args, strings.NewReader(""), log)
	require.NoError(t, err)

	res := <-results
	require.NoError(t, res.err)
	assert.Empty(t, res.peerCNs)
}

func TestRunEmptyAliasPresentsNoCertificate(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	port, results := f.startServer(t, tls.RequestClientCert)
	log, _ := newTestLogger()

	// Supplying -alias with an empty value is not the same as omitting
	// it: the forcer is installed and matches no entry, so automatic
	// selection must not kick in.
	args := append(f.baseArgs(port), "-alias", "")
	err := cli.Run(args, strings.NewReader(""), log)
	require.NoError(t, err)

	res := <-results
	require.NoError(t, res.err)
	assert.Empty(t, res.peerCNs)
}

func TestRunBadArgsDisplaysUsage(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	log, buf := newTestLogger()

	err := cli.Run([]string{"-bogus"}, strings.NewReader(""), log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrUsageDisplayed))
	assert.Contains(t, buf.String(), "Options:")
	assert.Contains(t, buf.String(), "-alias")
}

func TestRunMissingKeyStore(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	log, _ := newTestLogger()

	args := []string{"-ks", filepath.Join(t.TempDir(), "absent.p12"), "-ts", f.trustStorePath}
	err := cli.Run(args, strings.NewReader(""), log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, keystore.ErrCredentialLoad))
}

func TestRunMissingTrustStore(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	log, _ := newTestLogger()

	args := []string{"-ks", f.keyStorePath, "-ts", filepath.Join(t.TempDir(), "absent.p12")}
	err := cli.Run(args, strings.NewReader(""), log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, keystore.ErrTrustLoad))
}

func TestRunConnectionRefused(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	log, buf := newTestLogger()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	args := f.baseArgs(port)
	err = cli.Run(args, strings.NewReader(""), log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.ErrHandshake))
	assert.Contains(t, buf.String(), "Connection failed")
}

func TestRunListMode(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	log, buf := newTestLogger()

	err := cli.Run([]string{"-ks", f.keyStorePath, "-list"}, strings.NewReader(""), log)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "clientA")
	assert.Contains(t, out, "clientB")
	assert.Contains(t, out, "RSA")
	assert.Contains(t, out, "Alias")
}

func TestRunUnknownEncodingFallsBack(t *testing.T) {
	t.Setenv(cli.ConfigFileEnv, "")
	f := newFixtures(t)
	port, results := f.startServer(t, tls.NoClientCert)
	log, buf := newTestLogger()

	args := append(f.baseArgs(port), "-enc", "no-such-charset")
	err := cli.Run(args, strings.NewReader("hello\n"), log)
	require.NoError(t, err)

	res := <-results
	require.NoError(t, res.err)
	assert.Equal(t, "hello\n", string(res.payload), "fallback still sends UTF-8")
	assert.Contains(t, buf.String(), "Warning")
}
