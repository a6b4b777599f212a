package smtp

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/emersion/go-msgauth/dkim"
)

// DKIMHeaderKeys are the headers covered by the signature.
var DKIMHeaderKeys = []string{
	"From", "To", "Cc", "Reply-To", "Subject", "Date",
	"Message-ID", "MIME-Version", "Content-Type",
}

// LoadDKIM reads a PEM private key from path and returns sign options for
// domain and selector.
func LoadDKIM(domain, selector, path string) (*dkim.SignOptions, error) {
	if domain == "" || selector == "" || path == "" {
		return nil, ErrIncompleteDKIM
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("smtp: read dkim key: %w", err)
	}
	signer, err := ParseDKIMKey(b)
	if err != nil {
		return nil, err
	}
	return &dkim.SignOptions{
		Domain:                 domain,
		Selector:               selector,
		Signer:                 signer,
		Hash:                   crypto.SHA256,
		HeaderKeys:             DKIMHeaderKeys,
		HeaderCanonicalization: dkim.CanonicalizationRelaxed,
		BodyCanonicalization:   dkim.CanonicalizationRelaxed,
	}, nil
}

// ParseDKIMKey decodes a PKCS#8 (RSA or Ed25519) or PKCS#1 (RSA) PEM key.
func ParseDKIMKey(pemBytes []byte) (crypto.Signer, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, ErrInvalidDKIMKey
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, ErrInvalidDKIMKey
		}
		return signer, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Join(ErrInvalidDKIMKey, err)
	}
	return key, nil
}
