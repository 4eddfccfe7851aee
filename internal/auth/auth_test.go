package auth

import "testing"

func newTestAuthenticator() *Authenticator {
	return New(map[string]string{
		"vietnam":  "viet-pass",
		"thailand": "thai-pass",
	}, "super-pass")
}

func TestAuthenticate(t *testing.T) {
	a := newTestAuthenticator()

	tests := []struct {
		name      string
		password  string
		country   string
		wantScope string
		wantOK    bool
	}{
		{"super password without country", "super-pass", "", ScopeAll, true},
		{"super password with country", "super-pass", "thailand", ScopeAll, true},
		{"country password", "viet-pass", "vietnam", "vietnam", true},
		{"other country's password resolves its own scope", "thai-pass", "vietnam", "thailand", true},
		{"country password without country resolves scope", "thai-pass", "", "thailand", true},
		{"unknown password", "nope", "vietnam", "", false},
		{"empty password", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, ok := a.Authenticate(tt.password, tt.country)
			if ok != tt.wantOK || scope != tt.wantScope {
				t.Errorf("Authenticate(%q, %q) = %q, %v, want %q, %v",
					tt.password, tt.country, scope, ok, tt.wantScope, tt.wantOK)
			}
		})
	}
}

func TestAuthenticate_NoSuperConfigured(t *testing.T) {
	a := New(map[string]string{"vietnam": "viet-pass"}, "")

	// An empty super password must never match an empty submission.
	if _, ok := a.Authenticate("", ""); ok {
		t.Error("empty password authenticated against empty super password")
	}
}

func TestCanAccess(t *testing.T) {
	if !CanAccess(ScopeAll, "india") {
		t.Error("super scope should cover every country")
	}
	if !CanAccess("vietnam", "vietnam") {
		t.Error("country scope should cover its own country")
	}
	if CanAccess("vietnam", "thailand") {
		t.Error("country scope should not cover another country")
	}
}
