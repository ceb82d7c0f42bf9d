package entity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-identity-service/pkg/guard"
	"github.com/oksasatya/go-identity-service/pkg/result"
)

// UserName is a validated username of 5 to 15 characters.
type UserName struct{ value string }

func NewUserName(raw string) result.Result[UserName] {
	v := strings.TrimSpace(raw)
	if g := guard.AgainstInvalidUsername(v, "username"); !g.Succeeded {
		return result.FailMsg[UserName](g.Message)
	}
	return result.Ok(UserName{value: v})
}

func (n UserName) Value() string             { return n.value }
func (n UserName) String() string            { return n.value }
func (n UserName) Equals(other UserName) bool { return n.value == other.value }

// UserEmail is a validated email address, stored lower-cased.
type UserEmail struct{ value string }

func NewUserEmail(raw string) result.Result[UserEmail] {
	v := strings.ToLower(strings.TrimSpace(raw))
	if g := guard.AgainstInvalidEmail(v, "email"); !g.Succeeded {
		return result.FailMsg[UserEmail](g.Message)
	}
	return result.Ok(UserEmail{value: v})
}

func (e UserEmail) Value() string              { return e.value }
func (e UserEmail) String() string             { return e.value }
func (e UserEmail) Equals(other UserEmail) bool { return e.value == other.value }

// UserScope is a space-delimited list of OAuth2 scope tokens. The empty
// scope is valid and means no scope was requested.
type UserScope struct{ value string }

const DefaultScope = "profile"

func NewUserScope(raw string) result.Result[UserScope] {
	tokens := strings.Fields(raw)
	for _, tok := range tokens {
		if !validScopeToken(tok) {
			return result.FailMsg[UserScope]("scope contains an invalid token: " + tok)
		}
	}
	return result.Ok(UserScope{value: strings.Join(tokens, " ")})
}

func (s UserScope) Value() string              { return s.value }
func (s UserScope) String() string             { return s.value }
func (s UserScope) Equals(other UserScope) bool { return s.value == other.value }
func (s UserScope) Tokens() []string           { return strings.Fields(s.value) }

// Has reports whether token appears as a whole scope token.
func (s UserScope) Has(token string) bool {
	for _, t := range strings.Fields(s.value) {
		if t == token {
			return true
		}
	}
	return false
}

// scope-token = 1*( %x21 / %x23-5B / %x5D-7E )
func validScopeToken(tok string) bool {
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c < 0x21 || c > 0x7e || c == '"' || c == '\\' {
			return false
		}
	}
	return tok != ""
}

// UserID identifies a User aggregate.
type UserID struct{ value uuid.UUID }

func NewUserID() UserID { return UserID{value: uuid.New()} }

func ParseUserID(raw string) result.Result[UserID] {
	id, err := uuid.Parse(raw)
	if err != nil {
		return result.FailMsg[UserID]("id is an invalid id.")
	}
	return result.Ok(UserID{value: id})
}

func UserIDFrom(id uuid.UUID) UserID      { return UserID{value: id} }
func (i UserID) UUID() uuid.UUID          { return i.value }
func (i UserID) String() string           { return i.value.String() }
func (i UserID) Equals(other UserID) bool { return i.value == other.value }
func (i UserID) IsZero() bool             { return i.value == uuid.Nil }
