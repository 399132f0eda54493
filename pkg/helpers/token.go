package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenResetToken creates a high-entropy password-reset token. The plaintext is
// mailed to the user; only the digest is ever persisted.
func GenResetToken() (plain string, digest string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	plain = hex.EncodeToString(b)
	return plain, HashResetToken(plain), nil
}

// HashResetToken digests a plaintext reset token for storage or lookup.
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
