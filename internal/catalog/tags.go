package catalog

import (
	"sort"

	"github.com/copyfy/copyfy/internal/media"
)

// DefaultPopularTagLimit bounds the quick-filter tag strip.
const DefaultPopularTagLimit = 12

// PopularTags returns the most frequent tags across records, most frequent
// first, ties broken alphabetically, capped at limit.
func PopularTags(records []media.Record, limit int) []string {
	if limit < 1 {
		limit = DefaultPopularTagLimit
	}

	counts := make(map[string]int)
	for _, r := range records {
		for _, tag := range r.Tags {
			counts[tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}

	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}
