package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// GenerateEd25519PEM creates a fresh Ed25519 keypair and returns the private
// key as PKCS8 PEM bytes.
func GenerateEd25519PEM() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: generate ed25519 key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("cryptox: marshal PKCS8: %w", err)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// LoadOrCreateEd25519PEM reads a PKCS8 PEM private key from path, generating
// and persisting a new one when the file does not exist. An empty path always
// generates an ephemeral key.
func LoadOrCreateEd25519PEM(path string) ([]byte, error) {
	if path == "" {
		return GenerateEd25519PEM()
	}

	pemKey, err := os.ReadFile(path)
	if err == nil {
		return pemKey, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cryptox: read key file: %w", err)
	}

	pemKey, err = GenerateEd25519PEM()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, pemKey, 0o600); err != nil {
		return nil, fmt.Errorf("cryptox: write key file: %w", err)
	}
	return pemKey, nil
}
