package api

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelex/internal/app/client/config"
	"travelex/internal/app/client/session"
	"travelex/internal/utils/logger"
)

func writeTestCA(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "travelex test ca"},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ca.pem")
	pemData := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	require.NoError(t, os.WriteFile(path, pemData, 0600))
	return path
}

func tlsConfigFor(caPath string) *config.Config {
	return &config.Config{
		ServerAddress: "localhost:8443",
		EnableTLS:     true,
		CACertPath:    caPath,
	}
}

func TestNewLoadsConfiguredCACertificate(t *testing.T) {
	sess := session.New(filepath.Join(t.TempDir(), "session.json"))

	client, err := New(tlsConfigFor(writeTestCA(t)), sess, logger.New("local"))
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:8443", client.baseURL)
}

func TestNewRejectsMissingCACertificate(t *testing.T) {
	sess := session.New(filepath.Join(t.TempDir(), "session.json"))

	_, err := New(tlsConfigFor(filepath.Join(t.TempDir(), "absent.pem")), sess, logger.New("local"))
	assert.Error(t, err)
}

func TestNewRejectsGarbageCACertificate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0600))

	sess := session.New(filepath.Join(dir, "session.json"))
	_, err := New(tlsConfigFor(path), sess, logger.New("local"))
	assert.Error(t, err)
}
