package analysis

import "github.com/ternarybob/jigoor/internal/models"

// DedupeSources collapses citations by URI. A later duplicate replaces the earlier
// title but keeps the earlier position. Empty URIs are dropped.
func DedupeSources(in []models.Source) []models.Source {
	index := make(map[string]int, len(in))
	out := make([]models.Source, 0, len(in))

	for _, source := range in {
		if source.URI == "" {
			continue
		}
		if i, ok := index[source.URI]; ok {
			out[i].Title = source.Title
			continue
		}
		index[source.URI] = len(out)
		out = append(out, source)
	}
	return out
}
