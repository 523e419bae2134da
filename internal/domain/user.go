package domain

import "time"

// User represents a registered account that can authenticate.
type User struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthorityUser is the single authority granted to every resolved principal.
const AuthorityUser = "USER"

// Principal is the identity bound to a request after successful
// authentication. It is request-scoped and never persisted.
type Principal struct {
	Username    string
	Name        string
	Authorities []string
}

// HasAuthority reports whether the principal carries the given authority.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}
