package nav

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminagen/lumina-backend/internal/entitlements"
)

func TestResolvePlainPath(t *testing.T) {
	res, err := Resolve("/pricing", entitlements.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, PagePricing, res.Page)
	assert.Equal(t, "/pricing", res.CanonicalURL)
	assert.False(t, res.OpenAuth)
	assert.False(t, res.StrippedIntents)
}

func TestResolveOpenAuthIntent(t *testing.T) {
	res, err := Resolve("/?openAuth=1", entitlements.RoleUser)
	require.NoError(t, err)
	assert.True(t, res.OpenAuth)
	assert.Equal(t, "/", res.CanonicalURL)
	assert.True(t, res.StrippedIntents)
}

func TestResolveLoginIntent(t *testing.T) {
	res, err := Resolve("/pricing?login=true", entitlements.RoleUser)
	require.NoError(t, err)
	assert.True(t, res.OpenAuth)
	assert.Equal(t, "/pricing", res.CanonicalURL)
}

func TestResolveEmailPrefill(t *testing.T) {
	res, err := Resolve("/?email=x%40y.com", entitlements.RoleUser)
	require.NoError(t, err)
	assert.True(t, res.OpenAuth)
	assert.Equal(t, "x@y.com", res.PrefillEmail)

	u, err := url.Parse(res.CanonicalURL)
	require.NoError(t, err)
	assert.False(t, u.Query().Has("email"), "prefill email must not survive in the URL")
}

func TestResolveVerifiedReturn(t *testing.T) {
	res, err := Resolve("/?goto=dashboard&verified=1", entitlements.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, PageDashboard, res.Page)
	assert.True(t, res.VerifiedReturn)
	assert.True(t, res.RefreshVerify)
	assert.True(t, res.ClearPendingFlag)

	// Both parameters are stripped; the canonical URL is the bare dashboard.
	assert.Equal(t, "/dashboard", res.CanonicalURL)
}

func TestResolveGotoWithoutVerifiedIsNotAReturn(t *testing.T) {
	res, err := Resolve("/?goto=dashboard", entitlements.RoleUser)
	require.NoError(t, err)
	assert.False(t, res.VerifiedReturn)
	assert.Equal(t, PageHome, res.Page)
	// The dangling parameter is still consumed.
	assert.Equal(t, "/", res.CanonicalURL)
}

func TestResolveAdminGate(t *testing.T) {
	denied, err := Resolve("/admin", entitlements.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, PageHome, denied.Page)

	allowed, err := Resolve("/admin", entitlements.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, PageAdmin, allowed.Page)

	super, err := Resolve("/admin", entitlements.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, PageAdmin, super.Page)
}

func TestResolvePreservesUnrelatedParams(t *testing.T) {
	res, err := Resolve("/gallery?openAuth=1&tab=videos", entitlements.RoleUser)
	require.NoError(t, err)
	assert.True(t, res.OpenAuth)

	u, err := url.Parse(res.CanonicalURL)
	require.NoError(t, err)
	assert.Equal(t, "/gallery", u.Path)
	assert.Equal(t, "videos", u.Query().Get("tab"))
	assert.False(t, u.Query().Has("openAuth"))
}

func TestResolveStripsIntentsEvenWhenEffectWillFail(t *testing.T) {
	// The admin gate rejects the page, but the one-shot params are gone
	// regardless: the canonical URL never replays the intent.
	res, err := Resolve("/admin?openAuth=1&verified=1&goto=dashboard", entitlements.RoleUser)
	require.NoError(t, err)

	u, parseErr := url.Parse(res.CanonicalURL)
	require.NoError(t, parseErr)
	for _, p := range []string{"openAuth", "verified", "goto", "login", "email"} {
		assert.False(t, u.Query().Has(p), "param %q must be stripped", p)
	}
}
