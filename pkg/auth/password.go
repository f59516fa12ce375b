package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBcryptCost = 12
	MinPasswordLen    = 8
	MaxPasswordLen    = 72 // bcrypt ignores input past 72 bytes

	// UnusablePasswordPrefix marks a stored hash that no password can match
	UnusablePasswordPrefix    = "!"
	unusablePasswordSuffixLen = 40
)

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash in full
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// PasswordValidationError lists every rule a password breaks
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return "password " + strings.Join(e.Errors, "; ")
}

// commonPasswords are rejected case-insensitively
var commonPasswords = map[string]bool{
	"password":       true,
	"12345678":       true,
	"qwerty":         true,
	"abc123":         true,
	"password123":    true,
	"password123!":   true,
	"123456":         true,
	"admin":          true,
	"letmein":        true,
	"welcome":        true,
	"monkey":         true,
	"dragon":         true,
	"master":         true,
	"123123":         true,
	"passw0rd":       true,
	"shadow":         true,
	"sunshine":       true,
	"princess":       true,
	"starwars":       true,
	"football":       true,
	"trustno1":       true,
}

// Hasher hashes and checks passwords with bcrypt
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or DefaultBcryptCost when cost is out of bcrypt's range
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt hash of password. An empty password yields an unusable hash.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return MakeUnusablePassword()
	}
	if len(password) > MaxPasswordLen {
		return "", ErrPasswordTooLong
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Check reports whether password matches the stored hash. Unusable hashes never match.
func (h *Hasher) Check(hashedPassword, password string) bool {
	if !IsUsablePassword(hashedPassword) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// MakeUnusablePassword returns a random marker that no password hashes to
func MakeUnusablePassword() (string, error) {
	buf := make([]byte, unusablePasswordSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate unusable password: %w", err)
	}
	suffix := base64.RawURLEncoding.EncodeToString(buf)[:unusablePasswordSuffixLen]
	return UnusablePasswordPrefix + suffix, nil
}

// IsUsablePassword reports whether the stored hash can ever match a password
func IsUsablePassword(hashedPassword string) bool {
	return hashedPassword != "" && !strings.HasPrefix(hashedPassword, UnusablePasswordPrefix)
}

// ValidatePassword applies the back-office password policy. Lengths are counted in bytes.
func ValidatePassword(password string) error {
	var problems []string

	if len(password) < MinPasswordLen {
		problems = append(problems, fmt.Sprintf("must be at least %d bytes", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		problems = append(problems, fmt.Sprintf("must be at most %d bytes", MaxPasswordLen))
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		problems = append(problems, "needs an uppercase letter")
	}
	if !hasLower {
		problems = append(problems, "needs a lowercase letter")
	}
	if !hasDigit {
		problems = append(problems, "needs a digit")
	}
	if !hasSpecial {
		problems = append(problems, "needs a special character")
	}
	if commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "is too common")
	}

	if len(problems) > 0 {
		return &PasswordValidationError{Errors: problems}
	}
	return nil
}
