// Package auth implements moderator password checks. Each country has
// its own password; the super password grants access to every country.
package auth

import "crypto/subtle"

// ScopeAll is the scope granted by the super password.
const ScopeAll = "all"

// Authenticator validates moderator passwords and resolves their
// country scope.
type Authenticator struct {
	passwords map[string]string
	super     string
}

// New creates an Authenticator. passwords maps country name to its
// moderator password.
func New(passwords map[string]string, superPassword string) *Authenticator {
	return &Authenticator{
		passwords: passwords,
		super:     superPassword,
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Authenticate checks a password against the credential table and
// resolves the scope it grants. The super password always matches with
// ScopeAll; otherwise a valid country password grants that country's
// scope, regardless of which country the caller asked about. Scope
// enforcement against the requested country is CanAccess's job, so a
// valid credential for the wrong country authenticates but is then
// denied rather than treated as a bad password.
func (a *Authenticator) Authenticate(password, country string) (string, bool) {
	if a.super != "" && equal(password, a.super) {
		return ScopeAll, true
	}

	if country != "" {
		if pwd, ok := a.passwords[country]; ok && equal(password, pwd) {
			return country, true
		}
	}

	for c, pwd := range a.passwords {
		if equal(password, pwd) {
			return c, true
		}
	}

	return "", false
}

// CanAccess reports whether a scope covers the given country.
func CanAccess(scope, country string) bool {
	return scope == ScopeAll || scope == country
}
