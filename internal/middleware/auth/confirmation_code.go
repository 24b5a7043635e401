package auth

import (
	"crypto/rand"
	"encoding/base32"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// codeBytes of entropy, rendered as unpadded base32 (10 chars for 6 bytes).
const codeBytes = 6

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateConfirmationCode returns a random code to mail to the user and
// the bcrypt hash to persist on the user row.
func GenerateConfirmationCode() (code, hash string, err error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	code = codeEncoding.EncodeToString(buf)

	// the cost determines the computational complexity of the hashing process
	// default cost is 10, enough for a short-lived single-use code
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hashed), nil
}

// VerifyConfirmationCode checks a user-supplied code against the stored hash.
// Codes are case-insensitive and surrounding whitespace is ignored.
func VerifyConfirmationCode(hash, code string) bool {
	if hash == "" {
		return false
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
