// Package fieldcrypto provides reversible encryption for individual scalar
// values stored in the database (description, child name, abuser name).
// Values are sealed with AES-256-GCM and stored as a self-describing
// "nonce:tag:ciphertext" envelope, each part base64-encoded.
//
// When no valid 256-bit key is configured the package runs in degraded
// plaintext mode: Encrypt and Decrypt are the identity function. This keeps
// the system usable without key provisioning.
package fieldcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"strings"
)

const (
	// KeySize is the required symmetric key length (AES-256).
	KeySize = 32

	nonceSize = 12
	tagSize   = 16
)

// Codec encrypts and decrypts field values with a fixed symmetric key.
// The zero value is a codec in degraded plaintext mode.
type Codec struct {
	key []byte
}

// NewCodec builds a codec from a base64-encoded key. An empty string or a
// key that does not decode to exactly 32 bytes yields a degraded codec,
// never an error: the caller distinguishes the two via Enabled.
func NewCodec(base64Key string) *Codec {
	if base64Key == "" {
		return &Codec{}
	}
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil || len(key) != KeySize {
		return &Codec{}
	}
	return &Codec{key: key}
}

// Enabled reports whether a valid key is configured.
func (c *Codec) Enabled() bool {
	return len(c.key) == KeySize
}

// Encrypt seals value into an envelope. Empty values and degraded mode pass
// the value through unchanged.
func (c *Codec) Encrypt(value string) string {
	if value == "" || !c.Enabled() {
		return value
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return value
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return value
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return value
	}

	// Seal appends the 16-byte tag after the ciphertext; the envelope keeps
	// them as separate fields so the stored representation is order-stable.
	sealed := gcm.Seal(nil, nonce, []byte(value), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(nonce),
		base64.StdEncoding.EncodeToString(tag),
		base64.StdEncoding.EncodeToString(ciphertext),
	}, ":")
}

// Decrypt opens an envelope produced by Encrypt. Any malformed envelope
// (wrong field count, bad encoding) or authentication failure returns the
// stored value unchanged rather than an error, so legacy or corrupted
// values degrade to an opaque string instead of breaking the read path.
func (c *Codec) Decrypt(value string) string {
	if value == "" || !c.Enabled() {
		return value
	}

	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return value
	}

	nonce, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(nonce) != nonceSize {
		return value
	}
	tag, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return value
	}
	ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return value
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return value
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return value
	}

	plaintext, err := gcm.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return value
	}
	return string(plaintext)
}

// Package-level codec used by the model hooks. Defaults to degraded mode
// until Configure is called at startup.
var defaultCodec = &Codec{}

// Configure installs the process-wide codec from a base64-encoded key and
// reports whether field encryption is active.
func Configure(base64Key string) bool {
	defaultCodec = NewCodec(base64Key)
	return defaultCodec.Enabled()
}

// Encrypt seals value with the process-wide codec.
func Encrypt(value string) string { return defaultCodec.Encrypt(value) }

// Decrypt opens value with the process-wide codec.
func Decrypt(value string) string { return defaultCodec.Decrypt(value) }
