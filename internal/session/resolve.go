package session

import (
	"context"
	"log/slog"

	"github.com/luminagen/lumina-backend/internal/identity"
)

// Resolve runs the optimistic-then-authoritative pipeline once for an
// already authenticated identity, bounded by the init timeout. The HTTP
// session endpoints use this where there is no long-lived subscription: the
// caller always gets a usable snapshot, degraded to the optimistic record
// with InitTimedOut set when the store does not answer in time.
func Resolve(ctx context.Context, id *identity.Identity, profiles ProfileStore, grants Granter, opts Options) Snapshot {
	if id == nil {
		return Snapshot{Status: StatusNone, Ready: true}
	}
	if opts.InitTimeout <= 0 {
		opts.InitTimeout = DefaultOptions().InitTimeout
	}

	optimistic := MaterializeOptimistic(id, opts)

	ctx, cancel := context.WithTimeout(ctx, opts.InitTimeout)
	defer cancel()

	done := make(chan *User, 1)
	go func() {
		profile, err := profiles.BySubject(ctx, id.Subject)
		if err != nil {
			slog.Warn("profile fetch failed, using optimistic fields", "subject", id.Subject, "error", err)
			profile = nil
		}

		if grants != nil && grantEligible(id, opts) {
			granted, err := grants.EnsureDefault(ctx, id.Subject)
			if err != nil {
				slog.Warn("default entitlement grant failed", "subject", id.Subject, "error", err)
			} else if granted {
				if refreshed, err := profiles.BySubject(ctx, id.Subject); err == nil && refreshed != nil {
					profile = refreshed
				}
			}
		}

		done <- mergeAuthoritative(id, profile, opts)
	}()

	select {
	case user := <-done:
		return Snapshot{Status: StatusAuthoritative, User: user, Ready: true}
	case <-ctx.Done():
		slog.Warn("authoritative resolution timed out", "subject", id.Subject)
		return Snapshot{Status: StatusOptimistic, User: optimistic, Ready: true, InitTimedOut: true}
	}
}
