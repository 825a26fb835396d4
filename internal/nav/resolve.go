package nav

import (
	"net/url"

	"github.com/luminagen/lumina-backend/internal/entitlements"
)

// One-shot query parameters. Each is consumed exactly once: its side effect
// is reported in the Resolution and the parameter is stripped from the
// canonical URL, so refreshing or sharing the URL cannot replay the intent.
const (
	paramOpenAuth = "openAuth"
	paramLogin    = "login"
	paramEmail    = "email"
	paramGoto     = "goto"
	paramVerified = "verified"
)

// Resolution is the outcome of resolving a raw browser URL: the page to
// show, the canonical URL to replace in the address bar, and the side
// effects the consumed intents demand.
type Resolution struct {
	Page         Page   `json:"page"`
	CanonicalURL string `json:"canonical_url"`

	// Intents consumed from the query string.
	OpenAuth         bool   `json:"open_auth"`
	PrefillEmail     string `json:"prefill_email,omitempty"`
	VerifiedReturn   bool   `json:"verified_return"`
	RefreshVerify    bool   `json:"refresh_verify"`
	ClearPendingFlag bool   `json:"clear_pending_flag"`
	StrippedIntents  bool   `json:"stripped_intents"`
}

// Resolve derives the page identifier and one-shot intents from a raw URL.
// The admin page is role-gated: non-admins land on home. Parameters are
// stripped from the canonical URL regardless of whether the associated side
// effect later succeeds.
func Resolve(rawURL string, role entitlements.Role) (Resolution, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Resolution{Page: PageHome, CanonicalURL: PageHome.Path()}, err
	}

	res := Resolution{Page: PageFor(u.Path)}
	query := u.Query()

	if query.Get(paramOpenAuth) == "1" || query.Get(paramOpenAuth) == "true" {
		res.OpenAuth = true
	}
	if query.Get(paramLogin) == "true" {
		res.OpenAuth = true
	}
	if email := query.Get(paramEmail); email != "" {
		res.PrefillEmail = email
		res.OpenAuth = true
	}

	// Verification return: goto=dashboard&verified=1 lands on the dashboard,
	// clears the pending-verification marker and forces the provider to
	// refresh its cached verified flag.
	if query.Get(paramGoto) == "dashboard" && query.Get(paramVerified) == "1" {
		res.Page = PageDashboard
		res.VerifiedReturn = true
		res.RefreshVerify = true
		res.ClearPendingFlag = true
	}

	for _, param := range []string{paramOpenAuth, paramLogin, paramEmail, paramGoto, paramVerified} {
		if query.Has(param) {
			res.StrippedIntents = true
			query.Del(param)
		}
	}

	if res.Page == PageAdmin && !role.IsAdmin() {
		res.Page = PageHome
	}

	canonical := url.URL{Path: res.Page.Path(), RawQuery: query.Encode()}
	res.CanonicalURL = canonical.String()
	return res, nil
}
