package credentials

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// InvitationCodeLength is the number of characters in an invitation code
const InvitationCodeLength = 6

// invitationAlphabet leaves out 0/O and 1/I/L, which guests mistype from paper invites
const invitationAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateInvitationCode generates a random 6-character invitation code
func GenerateInvitationCode() (string, error) {
	code := make([]byte, InvitationCodeLength)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(invitationAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = invitationAlphabet[num.Int64()]
	}
	return string(code), nil
}

// HashPassword hashes the admin password with bcrypt
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches a bcrypt hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
