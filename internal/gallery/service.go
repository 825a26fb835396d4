package gallery

import (
	"context"
	"log/slog"
	"sync"
)

// Source is one independent gallery backend. A failing source degrades to an
// empty list; it never aborts the other source's fetch.
type Source interface {
	ListBySubject(ctx context.Context, subject string) ([]Asset, error)
}

// Service fetches the user's galleries from both stores concurrently and
// merges them.
type Service struct {
	sources []Source
}

func NewService(sources ...Source) *Service {
	return &Service{sources: sources}
}

// Load returns the merged, newest-first gallery for subject. Individual
// source failures are logged and contribute an empty list.
func (s *Service) Load(ctx context.Context, subject string) []Asset {
	results := make([][]Asset, len(s.sources))

	var wg sync.WaitGroup
	for i, source := range s.sources {
		wg.Add(1)
		go func(i int, source Source) {
			defer wg.Done()
			assets, err := source.ListBySubject(ctx, subject)
			if err != nil {
				slog.Warn("gallery source fetch failed", "subject", subject, "error", err)
				return
			}
			results[i] = assets
		}(i, source)
	}
	wg.Wait()

	return Merge(results...)
}
