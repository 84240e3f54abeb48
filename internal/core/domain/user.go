package domain

import "errors"

// ScopeAuth tags tokens that authenticate API requests.
const ScopeAuth = "auth"

var (
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrUserNotFound    = errors.New("email is not registered")
	ErrBadPassword     = errors.New("password is wrong")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Token is one issued bearer token tracked on its owner so it can be revoked.
type Token struct {
	Scope string
	Value string
}

// User models a registered account.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Tokens       []Token `json:"-"`
}

// HasToken reports whether value is an active token of the given scope.
func (u *User) HasToken(scope, value string) bool {
	for _, t := range u.Tokens {
		if t.Scope == scope && t.Value == value {
			return true
		}
	}
	return false
}
