// Package password wraps one-way hashing and verification of user secrets.
package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a salted bcrypt digest of secret. A fresh random salt is
// generated on every call, so two hashes of the same secret differ.
func Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether secret matches the given bcrypt digest. The digest
// can never be reversed back into the secret.
func Verify(secret string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}
