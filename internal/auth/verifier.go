// Package auth provides credential verification for the identity
// directory. Two mechanisms sit behind one verifier: bcrypt hashes for
// users provisioned with a real per-user secret, and a process-wide
// shared secret for everyone else. The fallback preserves the legacy
// placeholder behavior; deployments that seed password hashes for all
// users never hit it.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Verifier implements core.Verifier. The zero value rejects everything;
// construct with New.
type Verifier struct {
	sharedSecret string
}

// New returns a verifier with the given shared-secret fallback. An empty
// secret disables the fallback, leaving only bcrypt verification.
func New(sharedSecret string) *Verifier {
	return &Verifier{sharedSecret: sharedSecret}
}

// Verify checks credential against storedSecret. A stored bcrypt hash
// is compared with bcrypt; otherwise the credential is compared against
// the shared secret in constant time.
func (v *Verifier) Verify(storedSecret, credential string) bool {
	if isBcryptHash(storedSecret) {
		return bcrypt.CompareHashAndPassword([]byte(storedSecret), []byte(credential)) == nil
	}
	if v.sharedSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(credential), []byte(v.sharedSecret)) == 1
}

// HashCredential produces a bcrypt hash suitable for storing as a user's
// secret. Used when provisioning seeded users.
func HashCredential(credential string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(h), nil
}

// isBcryptHash recognizes the modular crypt prefixes bcrypt emits.
func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}
