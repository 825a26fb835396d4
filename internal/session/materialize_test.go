package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/identity"
	"github.com/luminagen/lumina-backend/internal/models"
)

func TestMaterializeOptimisticNameFallbacks(t *testing.T) {
	opts := DefaultOptions()

	withName := MaterializeOptimistic(&identity.Identity{
		Subject: "s1", Email: "x@y.com", DisplayName: "Xenia",
	}, opts)
	assert.Equal(t, "Xenia", withName.Name)

	fromEmail := MaterializeOptimistic(&identity.Identity{
		Subject: "s2", Email: "local.part@y.com",
	}, opts)
	assert.Equal(t, "local.part", fromEmail.Name)

	generic := MaterializeOptimistic(&identity.Identity{Subject: "s3"}, opts)
	assert.Equal(t, "Creator", generic.Name)
}

func TestMaterializeOptimisticNeverNilForIdentity(t *testing.T) {
	// Total over missing fields: an empty identity still yields usable defaults.
	u := MaterializeOptimistic(&identity.Identity{}, DefaultOptions())
	require.NotNil(t, u)
	assert.Equal(t, entitlements.RoleUser, u.Role)
	assert.Equal(t, entitlements.PlanFree, u.Plan)
	assert.Equal(t, 3, u.Credits)
	assert.True(t, u.Registered)
	assert.False(t, u.Verified)

	assert.Nil(t, MaterializeOptimistic(nil, DefaultOptions()))
}

func TestMergeAuthoritativePrecedence(t *testing.T) {
	opts := DefaultOptions()
	id := &identity.Identity{
		Subject:     "s1",
		Email:       "x@y.com",
		DisplayName: "Provider Name",
		Providers:   []string{identity.ProviderPassword},
	}
	profile := &models.User{
		SubjectID:   "s1",
		DisplayName: "Stored Name",
		Role:        "super-admin",
		Plan:        "premium",
		Credits:     42,
		Verified:    true,
	}

	u := mergeAuthoritative(id, profile, opts)

	// Provider display name beats the stored name; stored fields win elsewhere.
	assert.Equal(t, "Provider Name", u.Name)
	assert.Equal(t, entitlements.RoleSuperAdmin, u.Role)
	assert.Equal(t, "premium", u.Plan)
	assert.Equal(t, 42, u.Credits)
	assert.True(t, u.Verified)
}

func TestMergeAuthoritativeStoredNameWhenProviderSilent(t *testing.T) {
	id := &identity.Identity{Subject: "s1", Email: "x@y.com"}
	profile := &models.User{SubjectID: "s1", DisplayName: "Stored Name"}

	u := mergeAuthoritative(id, profile, DefaultOptions())
	assert.Equal(t, "Stored Name", u.Name)
}

func TestMergeAuthoritativeEmptyPlanDefaultsToFree(t *testing.T) {
	id := &identity.Identity{Subject: "s1", Email: "x@y.com"}
	profile := &models.User{SubjectID: "s1", Plan: "", Credits: 2}

	u := mergeAuthoritative(id, profile, DefaultOptions())
	assert.Equal(t, entitlements.PlanFree, u.Plan)
	assert.Equal(t, 2, u.Credits)
}

func TestGrantEligibility(t *testing.T) {
	opts := DefaultOptions()
	opts.SuperAdminEmails = []string{"boss@lumina.ai"}

	assert.False(t, grantEligible(&identity.Identity{Subject: "a", Email: "x@y.com"}, opts))
	assert.True(t, grantEligible(&identity.Identity{Subject: "b", EmailVerified: true}, opts))
	assert.True(t, grantEligible(&identity.Identity{
		Subject: "c", Providers: []string{identity.ProviderGoogle},
	}, opts))
	assert.True(t, grantEligible(&identity.Identity{Subject: "d", Email: "boss@lumina.ai"}, opts))
}
