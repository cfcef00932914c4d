package snowsql

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/crmarques/cortexops/faults"

	"github.com/youmark/pkcs8"
)

// loadPrivateKey reads a PEM-encoded PKCS#8 private key for key-pair
// authentication. Encrypted keys require the passphrase; the driver needs
// an RSA key.
func loadPrivateKey(path string, passphrase string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.NewTypedError(faults.ConfigError, fmt.Sprintf("failed to read private key %s", path), err)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, faults.NewTypedError(faults.ConfigError, fmt.Sprintf("private key %s is not PEM-encoded", path), nil)
	}

	var parsed any
	if passphrase != "" {
		parsed, err = pkcs8.ParsePKCS8PrivateKey(block.Bytes, []byte(passphrase))
	} else {
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	if err != nil {
		return nil, faults.NewTypedError(faults.AuthError, fmt.Sprintf("failed to parse private key %s", path), err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, faults.NewTypedError(faults.ConfigError, fmt.Sprintf("private key %s is not an RSA key", path), nil)
	}
	return key, nil
}
