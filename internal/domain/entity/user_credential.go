package entity

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-identity-service/pkg/guard"
	"github.com/oksasatya/go-identity-service/pkg/result"
)

// HashCost is the bcrypt cost used for new credentials.
var HashCost = bcrypt.DefaultCost

// UserCredential holds a bcrypt hash of the user's password. The plaintext
// is never retained.
type UserCredential struct {
	hash string
}

// NewUserCredential validates the password rules and hashes plain. No hash
// is computed when validation fails.
func NewUserCredential(plain string) result.Result[UserCredential] {
	if g := guard.AgainstInvalidPassword(plain, "password"); !g.Succeeded {
		return result.FailMsg[UserCredential](g.Message)
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), HashCost)
	if err != nil {
		return result.Fail[UserCredential](err)
	}
	return result.Ok(UserCredential{hash: string(b)})
}

// CredentialFromHash rehydrates a stored hash without validation.
func CredentialFromHash(hash string) result.Result[UserCredential] {
	if g := guard.AgainstNilOrEmpty(hash, "password"); !g.Succeeded {
		return result.FailMsg[UserCredential](g.Message)
	}
	return result.Ok(UserCredential{hash: hash})
}

func (c UserCredential) Hash() string { return c.hash }

// Compare reports whether plain matches the stored hash.
func (c UserCredential) Compare(plain string) bool {
	if c.hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.hash), []byte(plain)) == nil
}
