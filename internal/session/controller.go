package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/luminagen/lumina-backend/internal/gallery"
	"github.com/luminagen/lumina-backend/internal/identity"
	"github.com/luminagen/lumina-backend/internal/models"
)

// ProfileStore reads the stored profile for a subject. A missing profile is
// (nil, nil), not an error.
type ProfileStore interface {
	BySubject(ctx context.Context, subject string) (*models.User, error)
}

// Granter performs the idempotent default-entitlement grant.
type Granter interface {
	EnsureDefault(ctx context.Context, subject string) (bool, error)
}

// GalleryLoader fetches the merged generated-asset gallery for a subject.
type GalleryLoader interface {
	Load(ctx context.Context, subject string) []gallery.Asset
}

// Recorder is the fire-and-forget analytics boundary. Implementations must
// never let a failure reach the caller.
type Recorder interface {
	Identify(subject, email string, registered bool)
	Reset(subject string)
}

// Controller reconciles identity-provider events, the stored profile and
// entitlement grants into a single published Snapshot. One controller per
// application load; re-arming the init deadline requires a new controller.
type Controller struct {
	provider  identity.Provider
	profiles  ProfileStore
	grants    Granter
	galleries GalleryLoader
	recorder  Recorder
	opts      Options

	mu          sync.Mutex
	snap        Snapshot
	gen         uint64
	resolved    bool
	started     bool
	stopped     bool
	timer       *time.Timer
	unsubscribe func()
	subs        map[int]func(Snapshot)
	nextSub     int
	gallery     []gallery.Asset
	lastSubject string

	ctx    context.Context
	cancel context.CancelFunc
}

func NewController(provider identity.Provider, profiles ProfileStore, grants Granter, galleries GalleryLoader, recorder Recorder, opts Options) *Controller {
	if opts.InitTimeout <= 0 {
		opts.InitTimeout = DefaultOptions().InitTimeout
	}
	return &Controller{
		provider:  provider,
		profiles:  profiles,
		grants:    grants,
		galleries: galleries,
		recorder:  recorder,
		opts:      opts,
		subs:      make(map[int]func(Snapshot)),
	}
}

// Start arms the init deadline and subscribes to the identity provider. A
// subscription that fails (or panics) synchronously is treated like a
// timeout: the app renders unauthenticated instead of hanging.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.timer = time.AfterFunc(c.opts.InitTimeout, c.onDeadline)
	c.mu.Unlock()

	unsub, err := c.subscribe()
	if err != nil {
		slog.Error("identity subscription failed", "error", err)
		c.onDeadline()
		return
	}

	c.mu.Lock()
	c.unsubscribe = unsub
	stopped := c.stopped
	c.mu.Unlock()
	if stopped {
		unsub()
	}
}

func (c *Controller) subscribe() (unsub func(), err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("identity subscription panicked: %v", r)
		}
	}()
	return c.provider.Subscribe(c.onIdentity)
}

// Stop tears the controller down: unsubscribes, cancels the init timer and
// any in-flight fetches. Forgetting either would leak across remounts.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.resolved = true
	if c.timer != nil {
		c.timer.Stop()
	}
	unsub := c.unsubscribe
	cancel := c.cancel
	c.gen++
	c.snap = Snapshot{Status: StatusNone, Ready: true, InitTimedOut: c.snap.InitTimedOut}
	c.gallery = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
}

// Subscribe registers fn for snapshot changes and returns an unsubscribe
// handle.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Snapshot returns the current published value.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Gallery returns the session-scoped merged gallery cache.
func (c *Controller) Gallery() []gallery.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gallery
}

// SignOut asks the provider to end the session; the resulting nil identity
// event collapses the snapshot and clears session caches.
func (c *Controller) SignOut() {
	c.provider.SignOut()
}

// onDeadline fires when the init deadline elapses before the first identity
// event. The identity callback and this deadline race; whichever resolves
// first wins and the loser is a no-op.
func (c *Controller) onDeadline() {
	c.mu.Lock()
	if c.resolved {
		c.mu.Unlock()
		return
	}
	c.resolved = true
	c.snap = Snapshot{Status: StatusNone, Ready: true, InitTimedOut: true}
	snap, fns := c.snap, c.subscribers()
	c.mu.Unlock()

	slog.Warn("session init timed out waiting for identity provider")
	notify(fns, snap)
}

func (c *Controller) onIdentity(id *identity.Identity) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.resolved = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen

	if id == nil {
		previous := c.lastSubject
		c.lastSubject = ""
		c.gallery = nil
		c.snap = Snapshot{Status: StatusNone, Ready: true, InitTimedOut: c.snap.InitTimedOut}
		snap, fns := c.snap, c.subscribers()
		c.mu.Unlock()

		notify(fns, snap)
		if c.recorder != nil && previous != "" {
			c.recorder.Reset(previous)
		}
		return
	}

	c.lastSubject = id.Subject
	optimistic := MaterializeOptimistic(id, c.opts)
	c.snap = Snapshot{Status: StatusOptimistic, User: optimistic, Ready: true, InitTimedOut: c.snap.InitTimedOut}
	snap, fns := c.snap, c.subscribers()
	ctx := c.ctx
	c.mu.Unlock()

	// The optimistic publish always precedes the authoritative fetch.
	notify(fns, snap)
	go c.materializeAuthoritative(ctx, gen, id)
}

// materializeAuthoritative fetches and merges the stored profile. The
// gallery prefetch runs in parallel and never blocks the publish. A result
// whose generation is no longer current is discarded silently.
func (c *Controller) materializeAuthoritative(ctx context.Context, gen uint64, id *identity.Identity) {
	if ctx == nil {
		ctx = context.Background()
	}
	go c.loadGallery(ctx, gen, id.Subject)

	profile, err := c.profiles.BySubject(ctx, id.Subject)
	if err != nil {
		slog.Warn("profile fetch failed, using optimistic fields", "subject", id.Subject, "error", err)
		profile = nil
	}

	if c.grants != nil && grantEligible(id, c.opts) {
		granted, err := c.grants.EnsureDefault(ctx, id.Subject)
		if err != nil {
			slog.Warn("default entitlement grant failed", "subject", id.Subject, "error", err)
		} else if granted {
			if refreshed, err := c.profiles.BySubject(ctx, id.Subject); err == nil && refreshed != nil {
				profile = refreshed
			}
		}
	}

	user := mergeAuthoritative(id, profile, c.opts)

	c.mu.Lock()
	if c.stopped || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.snap = Snapshot{Status: StatusAuthoritative, User: user, Ready: true, InitTimedOut: c.snap.InitTimedOut}
	snap, fns := c.snap, c.subscribers()
	c.mu.Unlock()

	notify(fns, snap)
	if c.recorder != nil {
		c.recorder.Identify(user.ID, user.Email, user.Registered)
	}
}

func (c *Controller) loadGallery(ctx context.Context, gen uint64, subject string) {
	if c.galleries == nil {
		return
	}
	assets := c.galleries.Load(ctx, subject)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || gen != c.gen {
		return
	}
	c.gallery = assets
}

func (c *Controller) subscribers() []func(Snapshot) {
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func(Snapshot), snap Snapshot) {
	for _, fn := range fns {
		fn(snap)
	}
}
