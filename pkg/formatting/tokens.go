// Package formatting provides normalization and formatting utilities for
// search tokens, tag lists, and byte sizes.
package formatting

import (
	"strings"
	"unicode"
)

const (
	// MaxWords caps the token count of any normalized word list. It matches
	// the maximum term count the backing store accepts for a single
	// membership filter.
	MaxWords = 30

	// MaxTags caps the number of user-supplied tags on a record.
	MaxTags = 20
)

// Words lowercases s, splits it on every non-letter, non-digit boundary,
// drops empty tokens, and caps the result at MaxWords. Unicode letters and
// digits are token characters; everything else separates tokens.
func Words(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	if len(fields) > MaxWords {
		fields = fields[:MaxWords]
	}
	return fields
}

// ParseTags normalizes a free-form tag string (comma or whitespace
// separated) into at most MaxTags deduplicated lowercase tokens,
// preserving first-seen order.
func ParseTags(s string) []string {
	raw := strings.ReplaceAll(s, ",", " ")

	tags := Words(raw)
	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Keywords derives the search index for a record: the deduplicated union of
// the title's words and its tags, capped at MaxWords entries. The result is
// used only for matching and is never shown to users.
func Keywords(title string, tags []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, MaxWords)

	add := func(tokens []string) {
		for _, t := range tokens {
			if len(out) == MaxWords {
				return
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}

	add(Words(title))
	add(tags)
	return out
}
