package stores

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Users holds the registered accounts
type Users struct {
	hashes map[string][]byte
}

// ParseUsers reads entries of email:bcrypthash
func ParseUsers(entries []string) (*Users, error) {
	u := &Users{hashes: make(map[string][]byte, len(entries))}
	for _, ent := range entries {
		ent = strings.TrimSpace(ent)
		if len(ent) == 0 {
			continue
		}
		email, hash, ok := strings.Cut(ent, ":")
		if !ok || len(email) == 0 || len(hash) == 0 {
			return nil, fmt.Errorf("invalid user entry %q", email)
		}
		u.hashes[normEmail(email)] = []byte(hash)
	}
	return u, nil
}

// Len ...
func (u *Users) Len() int {
	return len(u.hashes)
}

// Verify checks the password of a registered email
func (u *Users) Verify(email, password string) bool {
	hash, ok := u.hashes[normEmail(email)]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// HashPassword returns the entry hash for a password
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", fmt.Errorf("password must be at least 6 characters")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
