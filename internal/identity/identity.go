package identity

// Federated provider ids as reported by the identity provider.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google.com"
)

// Identity is the raw, ephemeral record emitted by the identity provider.
// It exists only for the duration of a provider session; the session
// controller projects it into a user record.
type Identity struct {
	Subject       string   `json:"subject"`
	Email         string   `json:"email,omitempty"`
	EmailVerified bool     `json:"email_verified"`
	DisplayName   string   `json:"display_name,omitempty"`
	Providers     []string `json:"providers"`
}

// UsedProvider reports whether the identity signed in through the given
// federated provider.
func (id *Identity) UsedProvider(provider string) bool {
	if id == nil {
		return false
	}
	for _, p := range id.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

// Provider is the subscription boundary the session controller trusts for
// identity. The callback receives a populated *Identity, or nil for the
// explicit "no session" signal; "not yet known" is represented by the
// callback simply not having fired.
type Provider interface {
	// Subscribe registers fn for identity changes and returns an
	// unsubscribe handle.
	Subscribe(fn func(*Identity)) (func(), error)

	// Current returns the last announced identity, or nil.
	Current() *Identity

	// SignOut clears the current identity and notifies subscribers.
	SignOut()
}
