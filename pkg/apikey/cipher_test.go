package apikey_test

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/contact-relay/pkg/apikey"
)

const (
	testAPIKey = "sk_live_contact_form_key"
	testSecret = "a shared encryption secret"
)

func mustIssue(t *testing.T, c *apikey.Cipher, plaintext string) string {
	t.Helper()
	token, err := c.Issue(plaintext)
	require.NoError(t, err)
	return token
}

func decodeToken(t *testing.T, token string) (iv, data []byte) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(token)
	require.NoError(t, err)
	var tok apikey.Token
	require.NoError(t, json.Unmarshal(raw, &tok))
	iv, err = hex.DecodeString(tok.IV)
	require.NoError(t, err)
	data, err = hex.DecodeString(tok.EncryptedData)
	require.NoError(t, err)
	return iv, data
}

func encodeToken(t *testing.T, iv, data []byte) string {
	t.Helper()
	raw, err := json.Marshal(apikey.Token{IV: hex.EncodeToString(iv), EncryptedData: hex.EncodeToString(data)})
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestCipher_Authenticate(t *testing.T) {
	t.Parallel()

	c := apikey.New(testAPIKey, testSecret)

	t.Run("accepts a token for the configured key", func(t *testing.T) {
		t.Parallel()

		token := mustIssue(t, c, testAPIKey)
		require.NoError(t, c.Authenticate("Bearer "+token))
		require.NoError(t, c.Authenticate("bearer "+token))
	})

	t.Run("each issued token uses a fresh iv", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, mustIssue(t, c, testAPIKey), mustIssue(t, c, testAPIKey))
	})

	t.Run("rejects missing or malformed headers", func(t *testing.T) {
		t.Parallel()

		for _, h := range []string{"", "Bearer", "Bearer ", "Basic abc", "Token xyz", mustIssue(t, c, testAPIKey)} {
			require.ErrorIs(t, c.Authenticate(h), apikey.ErrMissingHeader, "header %q", h)
		}
	})

	t.Run("reports misconfiguration after header check", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []*apikey.Cipher{apikey.New("", testSecret), apikey.New(testAPIKey, "")} {
			require.False(t, bad.Configured())
			require.ErrorIs(t, bad.Authenticate("Bearer whatever"), apikey.ErrNotConfigured)
			require.ErrorIs(t, bad.Authenticate(""), apikey.ErrMissingHeader)
		}
	})

	t.Run("rejects a token for another key", func(t *testing.T) {
		t.Parallel()

		token := mustIssue(t, c, "some other key")
		require.ErrorIs(t, c.Authenticate("Bearer "+token), apikey.ErrInvalidKey)
	})

	t.Run("rejects a token encrypted with another secret", func(t *testing.T) {
		t.Parallel()

		other := apikey.New(testAPIKey, "different secret")
		err := c.Authenticate("Bearer " + mustIssue(t, other, testAPIKey))
		require.Error(t, err)
		assert.True(t, errorIsOneOf(err, apikey.ErrInvalidToken, apikey.ErrInvalidKey))
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		t.Parallel()

		iv := make([]byte, 16)
		cases := map[string]string{
			"not base64":       "!!!not-base64!!!",
			"not json":         base64.StdEncoding.EncodeToString([]byte("plain text")),
			"bad hex iv":       base64.StdEncoding.EncodeToString([]byte(`{"iv":"zz","encryptedData":"00"}`)),
			"short iv":         encodeToken(t, iv[:8], make([]byte, 16)),
			"partial block":    encodeToken(t, iv, make([]byte, 15)),
			"empty ciphertext": encodeToken(t, iv, nil),
		}
		for name, token := range cases {
			require.ErrorIs(t, c.Authenticate("Bearer "+token), apikey.ErrInvalidToken, name)
		}
	})

	t.Run("accepts url-safe and unpadded encodings", func(t *testing.T) {
		t.Parallel()

		iv, data := decodeToken(t, mustIssue(t, c, testAPIKey))
		raw, err := json.Marshal(apikey.Token{IV: hex.EncodeToString(iv), EncryptedData: hex.EncodeToString(data)})
		require.NoError(t, err)

		require.NoError(t, c.Authenticate("Bearer "+base64.RawURLEncoding.EncodeToString(raw)))
		require.NoError(t, c.Authenticate("Bearer "+base64.RawStdEncoding.EncodeToString(raw)))
	})
}

func TestCipher_BitFlipsNeverAuthenticate(t *testing.T) {
	t.Parallel()

	c := apikey.New(testAPIKey, testSecret)
	iv, data := decodeToken(t, mustIssue(t, c, testAPIKey))

	flip := func(b []byte, bit int) []byte {
		out := append([]byte(nil), b...)
		out[bit/8] ^= 1 << (bit % 8)
		return out
	}

	for bit := range len(iv) * 8 {
		err := c.Authenticate("Bearer " + encodeToken(t, flip(iv, bit), data))
		require.Error(t, err, "iv bit %d", bit)
		require.True(t, errorIsOneOf(err, apikey.ErrInvalidToken, apikey.ErrInvalidKey), "iv bit %d: %v", bit, err)
	}
	for bit := range len(data) * 8 {
		err := c.Authenticate("Bearer " + encodeToken(t, iv, flip(data, bit)))
		require.Error(t, err, "ciphertext bit %d", bit)
		require.True(t, errorIsOneOf(err, apikey.ErrInvalidToken, apikey.ErrInvalidKey), "ciphertext bit %d: %v", bit, err)
	}
}

// Tokens produced by an independent AES-256-CBC implementation with the same
// key derivation must be accepted.
func TestCipher_InteropWithPlainCBC(t *testing.T) {
	t.Parallel()

	key := sha256.Sum256([]byte(testSecret))
	block, err := aes.NewCipher(key[:])
	require.NoError(t, err)

	iv := []byte("0123456789abcdef")
	plaintext := []byte(testAPIKey)
	padLen := aes.BlockSize - len(plaintext)%aes.BlockSize
	for range padLen {
		plaintext = append(plaintext, byte(padLen))
	}
	data := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(data, plaintext)

	c := apikey.New(testAPIKey, testSecret)
	require.NoError(t, c.Authenticate("Bearer "+encodeToken(t, iv, data)))
}

func TestCipher_VerifyFingerprint(t *testing.T) {
	t.Parallel()

	c := apikey.New(testAPIKey, testSecret)
	token := mustIssue(t, c, testAPIKey)
	iv, data := decodeToken(t, token)

	fp, err := c.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Len(t, fp, 64)

	t.Run("same token under another encoding", func(t *testing.T) {
		t.Parallel()

		raw := fmt.Sprintf(`{ "encryptedData" : %q, "iv" : %q }`,
			strings.ToUpper(hex.EncodeToString(data)), strings.ToUpper(hex.EncodeToString(iv)))
		reencoded := base64.RawURLEncoding.EncodeToString([]byte(raw))
		require.NotEqual(t, token, reencoded)

		got, err := c.Verify("bearer " + reencoded)
		require.NoError(t, err)
		assert.Equal(t, fp, got)
	})

	t.Run("fresh token differs", func(t *testing.T) {
		t.Parallel()

		got, err := c.Verify("Bearer " + mustIssue(t, c, testAPIKey))
		require.NoError(t, err)
		assert.NotEqual(t, fp, got)
	})

	t.Run("failures carry no fingerprint", func(t *testing.T) {
		t.Parallel()

		got, err := c.Verify("Bearer " + mustIssue(t, c, "wrong key"))
		require.ErrorIs(t, err, apikey.ErrInvalidKey)
		assert.Empty(t, got)
	})
}

func errorIsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
