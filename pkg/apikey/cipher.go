package apikey

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const bearerPrefix = "bearer "

// Token is the decoded form of a bearer credential.
type Token struct {
	IV            string `json:"iv"`
	EncryptedData string `json:"encryptedData"`
}

// Cipher validates encrypted API key tokens.
// It is immutable and safe for concurrent use.
type Cipher struct {
	apiKey []byte
	key    [32]byte
	ready  bool
}

// New creates a Cipher for the expected apiKey and the shared secret.
// Either value may be empty, in which case Authenticate reports ErrNotConfigured.
func New(apiKey, secret string) *Cipher {
	c := &Cipher{
		apiKey: []byte(apiKey),
		ready:  apiKey != "" && secret != "",
	}
	if secret != "" {
		c.key = sha256.Sum256([]byte(secret))
	}
	return c
}

// Configured reports whether both the API key and the secret are set.
func (c *Cipher) Configured() bool {
	return c.ready
}

// Authenticate checks an Authorization header value.
// It returns one of ErrMissingHeader, ErrNotConfigured, ErrInvalidToken or
// ErrInvalidKey, or nil on success.
func (c *Cipher) Authenticate(header string) error {
	_, err := c.Verify(header)
	return err
}

// Verify authenticates header like Authenticate and returns the token
// fingerprint: the hex SHA-256 of the decoded IV followed by the ciphertext.
// Re-encoding a token (base64 alphabet, JSON layout, hex case) does not
// change its fingerprint.
func (c *Cipher) Verify(header string) (string, error) {
	token, ok := BearerToken(header)
	if !ok {
		return "", ErrMissingHeader
	}
	if !c.ready {
		return "", ErrNotConfigured
	}

	iv, data, err := parseToken(token)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	plaintext, err := c.decrypt(iv, data)
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if subtle.ConstantTimeCompare(plaintext, c.apiKey) != 1 {
		return "", ErrInvalidKey
	}

	h := sha256.New()
	h.Write(iv)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Issue encrypts plaintext with a fresh IV and returns the base64 token
// (without the "Bearer " prefix).
func (c *Cipher) Issue(plaintext string) (string, error) {
	if !c.ready {
		return "", ErrNotConfigured
	}

	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	raw, err := json.Marshal(Token{
		IV:            hex.EncodeToString(iv),
		EncryptedData: hex.EncodeToString(out),
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// BearerToken extracts the token from a "Bearer <token>" header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// parseToken decodes the base64 JSON envelope into IV and ciphertext bytes.
func parseToken(token string) (iv, data []byte, err error) {
	raw, err := decodeBase64(token)
	if err != nil {
		return nil, nil, err
	}

	var t Token
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, nil, err
	}

	iv, err = hex.DecodeString(t.IV)
	if err != nil {
		return nil, nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, nil, errors.New("iv must be 16 bytes")
	}

	data, err = hex.DecodeString(t.EncryptedData)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, nil, errors.New("ciphertext is not a whole number of blocks")
	}
	return iv, data, nil
}

func (c *Cipher) decrypt(iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(c.key[:])
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)
	return unpad(out, aes.BlockSize)
}

func decodeBase64(s string) ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var firstErr error
	for _, enc := range encodings {
		b, err := enc.DecodeString(s)
		if err == nil {
			return b, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// pad applies PKCS#7 padding.
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding and validates every pad byte.
func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size {
		return nil, errors.New("invalid padding")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
