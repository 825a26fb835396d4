package dto

// NavResolveResponse reports where a raw URL lands after intent handling and
// the admin gate, plus the one-shot intents consumed along the way.
type NavResolveResponse struct {
	Page             string `json:"page"`
	Path             string `json:"path"`
	CanonicalURL     string `json:"canonical_url"`
	OpenAuth         bool   `json:"open_auth"`
	PrefillEmail     string `json:"prefill_email,omitempty"`
	VerifiedReturn   bool   `json:"verified_return"`
	RefreshVerify    bool   `json:"refresh_verify"`
	ClearPendingFlag bool   `json:"clear_pending_flag"`
	StrippedIntents  bool   `json:"stripped_intents"`
}
