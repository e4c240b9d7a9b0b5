package tokenverifier

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrEmptyToken = errors.New("token must not be empty")

// Bcrypt checks bearer tokens against a bcrypt hash so that the plain
// token never has to be stored in configuration.
type Bcrypt struct {
	hash []byte
	cost int
}

func NewBcrypt(hash string, cost int) *Bcrypt {
	return &Bcrypt{hash: []byte(hash), cost: cost}
}

func (v *Bcrypt) HashToken(token string) (string, error) {
	if token == "" {
		return "", ErrEmptyToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), v.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidateToken reports whether token matches the configured hash. With no
// hash configured every token is rejected.
func (v *Bcrypt) ValidateToken(token string) bool {
	if len(v.hash) == 0 || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(token)) == nil
}
