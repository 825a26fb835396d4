package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminagen/lumina-backend/internal/entitlements"
	"github.com/luminagen/lumina-backend/internal/gallery"
	"github.com/luminagen/lumina-backend/internal/identity"
	"github.com/luminagen/lumina-backend/internal/models"
)

type fakeProvider struct {
	mu           sync.Mutex
	fn           func(*identity.Identity)
	unsubscribed bool
}

func (p *fakeProvider) Subscribe(fn func(*identity.Identity)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.unsubscribed = true
	}, nil
}

func (p *fakeProvider) Current() *identity.Identity { return nil }

func (p *fakeProvider) SignOut() { p.emit(nil) }

func (p *fakeProvider) emit(id *identity.Identity) {
	p.mu.Lock()
	fn := p.fn
	p.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}

type panicProvider struct{}

func (panicProvider) Subscribe(func(*identity.Identity)) (func(), error) {
	panic("sdk exploded during setup")
}
func (panicProvider) Current() *identity.Identity { return nil }
func (panicProvider) SignOut()                    {}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.User
	blocks   map[string]chan struct{}
	err      error
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		profiles: make(map[string]*models.User),
		blocks:   make(map[string]chan struct{}),
	}
}

func (f *fakeProfiles) BySubject(ctx context.Context, subject string) (*models.User, error) {
	f.mu.Lock()
	block := f.blocks[subject]
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[subject], nil
}

type fakeGrants struct {
	mu      sync.Mutex
	granted map[string]bool
	calls   int
}

func newFakeGrants() *fakeGrants {
	return &fakeGrants{granted: make(map[string]bool)}
}

func (f *fakeGrants) EnsureDefault(_ context.Context, subject string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.granted[subject] {
		return false, nil
	}
	f.granted[subject] = true
	return true, nil
}

func (f *fakeGrants) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeGalleries struct {
	mu     sync.Mutex
	assets []gallery.Asset
	block  chan struct{}
}

func (f *fakeGalleries) Load(ctx context.Context, _ string) []gallery.Asset {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assets
}

type fakeRecorder struct {
	mu         sync.Mutex
	identifies []string
	resets     []string
}

func (f *fakeRecorder) Identify(subject, _ string, _ bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identifies = append(f.identifies, subject)
}

func (f *fakeRecorder) Reset(subject string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, subject)
}

type snapshotLog struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (l *snapshotLog) record(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snaps = append(l.snaps, s)
}

func (l *snapshotLog) list() []Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Snapshot, len(l.snaps))
	copy(out, l.snaps)
	return out
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.InitTimeout = 200 * time.Millisecond
	return opts
}

func passwordIdentity(subject, email string) *identity.Identity {
	return &identity.Identity{
		Subject:   subject,
		Email:     email,
		Providers: []string{identity.ProviderPassword},
	}
}

func TestOptimisticPrecedesAuthoritative(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	grants := newFakeGrants()

	c := NewController(provider, profiles, grants, &fakeGalleries{}, nil, testOptions())
	log := &snapshotLog{}
	c.Subscribe(log.record)
	c.Start()
	defer c.Stop()

	// Unverified password sign-up with no stored profile yet.
	provider.emit(passwordIdentity("abc", "x@y.com"))

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusAuthoritative
	}, time.Second, 5*time.Millisecond)

	snaps := log.list()
	require.GreaterOrEqual(t, len(snaps), 2)
	assert.Equal(t, StatusOptimistic, snaps[0].Status)
	assert.Equal(t, StatusAuthoritative, snaps[len(snaps)-1].Status)

	opt := snaps[0].User
	assert.Equal(t, "abc", opt.ID)
	assert.Equal(t, "x", opt.Name)
	assert.Equal(t, "x@y.com", opt.Email)
	assert.Equal(t, entitlements.RoleUser, opt.Role)
	assert.Equal(t, entitlements.PlanFree, opt.Plan)
	assert.Equal(t, 3, opt.Credits)
	assert.True(t, opt.Registered)
	assert.False(t, opt.Verified)

	// Unverified, non-Google, non-super-admin: no grant side effect.
	assert.Equal(t, 0, grants.callCount())

	// With no stored profile the authoritative record equals the optimistic one.
	auth := c.Snapshot().User
	assert.Equal(t, opt.ID, auth.ID)
	assert.Equal(t, opt.Credits, auth.Credits)
	assert.False(t, auth.Verified)
}

func TestStaleAuthoritativeFetchDiscarded(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	release := make(chan struct{})
	profiles.blocks["i1"] = release
	profiles.profiles["i1"] = &models.User{SubjectID: "i1", Email: "one@y.com", DisplayName: "One"}
	profiles.profiles["i2"] = &models.User{SubjectID: "i2", Email: "two@y.com", DisplayName: "Two"}

	c := NewController(provider, profiles, nil, nil, nil, testOptions())
	c.Start()
	defer c.Stop()

	// I1's authoritative fetch stalls; I2 arrives before it resolves.
	provider.emit(passwordIdentity("i1", "one@y.com"))
	provider.emit(passwordIdentity("i2", "two@y.com"))

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return s.Status == StatusAuthoritative && s.User.ID == "i2"
	}, time.Second, 5*time.Millisecond)

	// Let the stale I1 fetch complete; it must be discarded.
	close(release)
	time.Sleep(50 * time.Millisecond)

	s := c.Snapshot()
	assert.Equal(t, StatusAuthoritative, s.Status)
	assert.Equal(t, "i2", s.User.ID)
}

func TestGoogleProviderImpliesVerified(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	grants := newFakeGrants()

	c := NewController(provider, profiles, grants, nil, nil, testOptions())
	c.Start()
	defer c.Stop()

	provider.emit(&identity.Identity{
		Subject:       "g1",
		Email:         "g@y.com",
		EmailVerified: false,
		Providers:     []string{identity.ProviderGoogle},
	})

	assert.True(t, c.Snapshot().User.Verified, "optimistic user must treat Google emails as verified")

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusAuthoritative
	}, time.Second, 5*time.Millisecond)
	assert.True(t, c.Snapshot().User.Verified)

	// Google identities qualify for the default grant.
	assert.GreaterOrEqual(t, grants.callCount(), 1)
}

func TestSuperAdminAlwaysWins(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	// Stored profile contradicts the allowlist on every field.
	profiles.profiles["boss"] = &models.User{
		SubjectID: "boss",
		Email:     "boss@lumina.ai",
		Role:      "user",
		Plan:      "free",
		Credits:   1,
		Verified:  false,
	}

	opts := testOptions()
	opts.SuperAdminEmails = []string{"boss@lumina.ai"}

	c := NewController(provider, profiles, nil, nil, nil, opts)
	c.Start()
	defer c.Stop()

	// Case-insensitive allowlist match.
	provider.emit(passwordIdentity("boss", "Boss@Lumina.AI"))

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusAuthoritative
	}, time.Second, 5*time.Millisecond)

	u := c.Snapshot().User
	assert.Equal(t, entitlements.RoleSuperAdmin, u.Role)
	assert.Equal(t, entitlements.PlanPremium, u.Plan)
	assert.Equal(t, 999999, u.Credits)
	assert.True(t, u.Verified)
}

func TestInitTimeout(t *testing.T) {
	provider := &fakeProvider{}
	opts := testOptions()
	opts.InitTimeout = 30 * time.Millisecond

	c := NewController(provider, newFakeProfiles(), nil, nil, nil, opts)
	log := &snapshotLog{}
	c.Subscribe(log.record)
	c.Start()
	defer c.Stop()

	require.Eventually(t, func() bool {
		return c.Snapshot().InitTimedOut
	}, time.Second, 5*time.Millisecond)

	s := c.Snapshot()
	assert.Equal(t, StatusNone, s.Status)
	assert.True(t, s.Ready)

	readyEdges := 0
	for _, snap := range log.list() {
		if snap.Ready {
			readyEdges++
		}
	}
	assert.Equal(t, 1, readyEdges, "loading must clear exactly once")

	// A late identity event signs the user in but never un-sets the flag.
	provider.emit(passwordIdentity("late", "late@y.com"))
	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusAuthoritative
	}, time.Second, 5*time.Millisecond)
	assert.True(t, c.Snapshot().InitTimedOut, "timed-out flag is sticky")
}

func TestDeadlineAfterIdentityIsNoop(t *testing.T) {
	provider := &fakeProvider{}
	opts := testOptions()
	opts.InitTimeout = 30 * time.Millisecond

	c := NewController(provider, newFakeProfiles(), nil, nil, nil, opts)
	c.Start()
	defer c.Stop()

	provider.emit(passwordIdentity("abc", "x@y.com"))

	time.Sleep(60 * time.Millisecond)
	assert.False(t, c.Snapshot().InitTimedOut)
	assert.NotNil(t, c.Snapshot().User)
}

func TestExplicitNoIdentityBeatsDeadline(t *testing.T) {
	provider := &fakeProvider{}
	opts := testOptions()
	opts.InitTimeout = 50 * time.Millisecond

	c := NewController(provider, newFakeProfiles(), nil, nil, nil, opts)
	c.Start()
	defer c.Stop()

	// Explicit "no session" counts as resolution, not a timeout.
	provider.emit(nil)

	time.Sleep(80 * time.Millisecond)
	s := c.Snapshot()
	assert.True(t, s.Ready)
	assert.False(t, s.InitTimedOut)
	assert.Equal(t, StatusNone, s.Status)
}

func TestSignOutCollapsesSession(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	galleries := &fakeGalleries{assets: []gallery.Asset{{ID: "a1", SubjectID: "abc"}}}
	recorder := &fakeRecorder{}

	c := NewController(provider, profiles, nil, galleries, recorder, testOptions())
	c.Start()
	defer c.Stop()

	provider.emit(passwordIdentity("abc", "x@y.com"))
	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusAuthoritative && len(c.Gallery()) == 1
	}, time.Second, 5*time.Millisecond)

	c.SignOut()

	s := c.Snapshot()
	assert.Equal(t, StatusNone, s.Status)
	assert.Nil(t, s.User)
	assert.Empty(t, c.Gallery(), "session caches are cleared on sign-out")

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Equal(t, []string{"abc"}, recorder.resets)
}

func TestSubscriptionPanicTreatedAsTimeout(t *testing.T) {
	c := NewController(panicProvider{}, newFakeProfiles(), nil, nil, nil, testOptions())
	c.Start()
	defer c.Stop()

	s := c.Snapshot()
	assert.True(t, s.Ready)
	assert.True(t, s.InitTimedOut)
	assert.Equal(t, StatusNone, s.Status)
}

func TestStopUnsubscribesAndCancelsTimer(t *testing.T) {
	provider := &fakeProvider{}
	opts := testOptions()
	opts.InitTimeout = 30 * time.Millisecond

	c := NewController(provider, newFakeProfiles(), nil, nil, nil, opts)
	c.Start()
	c.Stop()

	provider.mu.Lock()
	unsubscribed := provider.unsubscribed
	provider.mu.Unlock()
	assert.True(t, unsubscribed)

	// The cancelled deadline must not fire after teardown.
	time.Sleep(60 * time.Millisecond)
	assert.False(t, c.Snapshot().InitTimedOut)
}

func TestGalleryDoesNotBlockAuthoritativePublish(t *testing.T) {
	provider := &fakeProvider{}
	galleries := &fakeGalleries{
		assets: []gallery.Asset{{ID: "slow", SubjectID: "abc"}},
		block:  make(chan struct{}),
	}

	c := NewController(provider, newFakeProfiles(), nil, galleries, nil, testOptions())
	c.Start()
	defer c.Stop()

	provider.emit(passwordIdentity("abc", "x@y.com"))

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusAuthoritative
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, c.Gallery(), "authoritative publish must not wait for galleries")

	close(galleries.block)
	require.Eventually(t, func() bool {
		return len(c.Gallery()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestProfileFetchFailureDegradesToOptimistic(t *testing.T) {
	provider := &fakeProvider{}
	profiles := newFakeProfiles()
	profiles.err = errors.New("store unavailable")

	c := NewController(provider, profiles, nil, nil, nil, testOptions())
	c.Start()
	defer c.Stop()

	provider.emit(passwordIdentity("abc", "x@y.com"))

	require.Eventually(t, func() bool {
		return c.Snapshot().Status == StatusAuthoritative
	}, time.Second, 5*time.Millisecond)

	u := c.Snapshot().User
	assert.Equal(t, entitlements.PlanFree, u.Plan)
	assert.Equal(t, 3, u.Credits)
}
