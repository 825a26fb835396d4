package gallery

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asset(id string, created time.Time) Asset {
	return Asset{ID: id, SubjectID: "abc", Kind: KindImage, CreatedAt: created}
}

func ids(assets []Asset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, a.ID)
	}
	return out
}

func TestMergeNewestFirst(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := []Asset{asset("a1", t0.Add(1 * time.Hour)), asset("a2", t0.Add(3 * time.Hour))}
	b := []Asset{asset("b1", t0.Add(2 * time.Hour))}

	merged := Merge(a, b)
	assert.Equal(t, []string{"a2", "b1", "a1"}, ids(merged))
}

func TestMergeDeduplicates(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := []Asset{asset("dup", t0), asset("a1", t0.Add(time.Hour))}
	b := []Asset{asset("dup", t0.Add(2 * time.Hour))}

	merged := Merge(a, b)
	require.Len(t, merged, 2)

	// Last occurrence wins for the duplicate id.
	assert.Equal(t, "dup", merged[0].ID)
	assert.Equal(t, t0.Add(2*time.Hour), merged[0].CreatedAt)
}

func TestMergeCommutativeOnIDSet(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	a := []Asset{asset("x", t0), asset("y", t0.Add(time.Minute))}
	b := []Asset{asset("y", t0.Add(time.Minute)), asset("z", t0.Add(2 * time.Minute))}

	ab := Merge(a, b)
	ba := Merge(b, a)

	assert.ElementsMatch(t, ids(ab), ids(ba))
	assert.Len(t, ab, 3)
}

func TestMergeIdempotent(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := []Asset{asset("x", t0), asset("y", t0.Add(time.Minute))}

	once := Merge(a)
	twice := Merge(once, a)
	assert.Equal(t, ids(once), ids(twice))
}

type staticSource struct {
	assets []Asset
	err    error
}

func (s staticSource) ListBySubject(context.Context, string) ([]Asset, error) {
	return s.assets, s.err
}

func TestServiceLoadDegradesOnSourceFailure(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	healthy := staticSource{assets: []Asset{asset("ok", t0)}}
	broken := staticSource{err: errors.New("connection refused")}

	svc := NewService(healthy, broken)
	merged := svc.Load(context.Background(), "abc")

	require.Len(t, merged, 1)
	assert.Equal(t, "ok", merged[0].ID)
}

func TestServiceLoadEmpty(t *testing.T) {
	svc := NewService(staticSource{}, staticSource{})
	assert.Empty(t, svc.Load(context.Background(), "abc"))
}
