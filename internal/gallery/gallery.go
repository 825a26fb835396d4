package gallery

import (
	"sort"
	"time"
)

// Asset kinds.
const (
	KindImage = "image"
	KindVideo = "video"
	KindVoice = "voice"
)

// Asset is a store-neutral view of a generated asset, used when merging the
// Postgres and Redis gallery sources.
type Asset struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	Kind      string    `json:"kind"`
	Prompt    string    `json:"prompt"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Merge de-duplicates assets by id across sources and orders the result
// newest-first. When the same id appears more than once, the last occurrence
// in iteration order wins, so merging A then B and B then A yield the same
// id set.
func Merge(sources ...[]Asset) []Asset {
	seen := make(map[string]Asset)
	order := make([]string, 0)
	for _, source := range sources {
		for _, asset := range source {
			if _, ok := seen[asset.ID]; !ok {
				order = append(order, asset.ID)
			}
			seen[asset.ID] = asset
		}
	}

	merged := make([]Asset, 0, len(order))
	for _, id := range order {
		merged = append(merged, seen[id])
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}
