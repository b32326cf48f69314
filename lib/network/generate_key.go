package network

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"maatnet.io/maat/lib/common"
)

const (
	certLifetime = time.Hour * 24 * 30
	rsaBits      = 4096
)

// KeyGenerator lays down a throwaway self-signed TLS pair for nodes that
// start without one. Close removes what it wrote.
type KeyGenerator struct {
	dirPath  string
	certPath string
	keyPath  string
}

func NewKeyGenerator(dirPath, certFile, keyFile string) *KeyGenerator {
	g := &KeyGenerator{
		dirPath:  dirPath,
		certPath: filepath.Join(dirPath, certFile),
		keyPath:  filepath.Join(dirPath, keyFile),
	}

	if !common.IsExists(g.certPath) || !common.IsExists(g.keyPath) {
		generateTLSPair(g.dirPath, g.certPath, g.keyPath)
	}

	return g
}

func (g *KeyGenerator) GetCertPath() string {
	return g.certPath
}

func (g *KeyGenerator) GetKeyPath() string {
	return g.keyPath
}

func (g *KeyGenerator) Close() {
	removeQuiet(g.keyPath)
	removeQuiet(g.certPath)
	if empty, _ := common.IsEmpty(g.dirPath); empty {
		removeQuiet(g.dirPath)
	}
}

func removeQuiet(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Error("failed to remove file", "path", path, "error", err)
	}
}

func generateTLSPair(dirPath, certPath, keyPath string) {
	if common.IsNotExists(dirPath) {
		os.Mkdir(dirPath, 0755)
	}

	priv, err := rsa.GenerateKey(rand.Reader, rsaBits)
	if err != nil {
		log.Error("failed to generate rsa key", "error", err)
		return
	}

	serialLimit := new(big.Int).Lsh(big.NewInt(1), 128)
	serial, err := rand.Int(rand.Reader, serialLimit)
	if err != nil {
		log.Error("failed to generate serial number", "error", err)
		return
	}

	now := time.Now()
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{"Self-Signed Maat Node Certificate"},
		},
		NotBefore: now,
		NotAfter:  now.Add(certLifetime),

		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		log.Error("failed to create certificate", "error", err)
		return
	}

	certOut, err := os.Create(certPath)
	if err != nil {
		log.Error("failed to open certificate file", "certfile", certPath, "error", err)
		return
	}
	pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: der})
	certOut.Close()

	keyOut, err := os.OpenFile(keyPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		log.Error("failed to open key file", "keyfile", keyPath, "error", err)
		return
	}
	pem.Encode(keyOut, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(priv)})
	keyOut.Close()
}
