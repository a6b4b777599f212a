// Package apikey authenticates callers that present an encrypted API key.
//
// Clients encrypt the shared API key with AES-256-CBC, using a key derived as
// SHA-256 of the shared encryption secret and a fresh random IV, and send
//
//	Authorization: Bearer base64(json({"iv": hex(iv), "encryptedData": hex(ciphertext)}))
//
// The server decrypts the token and compares the plaintext with its own API
// key. Secrets are never logged.
//
//	c := apikey.New(cfg.APIKey, cfg.EncryptionSecret)
//	token, _ := c.Issue(cfg.APIKey)             // client side
//	err := c.Authenticate("Bearer " + token)    // server side
package apikey
