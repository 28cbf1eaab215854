package domain

import (
	"strings"
	"time"
)

const minPasswordLength = 8

// User is a back-office account able to sign in.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Claims is what a session token asserts about its bearer.
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateCredentials checks the inputs of a new account before hashing.
func ValidateCredentials(email, name, password string) error {
	verr := &ValidationError{}
	email = NormalizeEmail(email)
	if email == "" {
		verr.Add("email", "is required")
	} else if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		verr.Add("email", "must be a valid email address")
	}
	if strings.TrimSpace(name) == "" {
		verr.Add("name", "is required")
	}
	if len(password) < minPasswordLength {
		verr.Add("password", "must be at least 8 characters")
	}
	return verr.Err()
}
