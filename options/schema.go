package options

import (
	"path/filepath"
	"sort"
	"strings"
)

// Schema is an ordered set of Descriptors, the form a translator
// implementation exports describing every option key it understands.
type Schema struct {
	Descriptors []Descriptor
}

// NewSchema builds a Schema from descriptors in declaration order.
func NewSchema(descriptors ...Descriptor) Schema {
	return Schema{Descriptors: descriptors}
}

// Match finds the Descriptor whose Key or one of whose Aliases matches
// key, using fnmatch-style patterns (path/filepath.Match; no corpus
// library improves on stdlib glob matching here, per DESIGN.md). It
// returns the descriptor and whether the match came through a
// deprecated alias (the caller should rewrite key to Key in that case).
func (s Schema) Match(key string) (desc Descriptor, viaDeprecatedAlias bool, ok bool) {
	for _, d := range s.Descriptors {
		if d.Key == key {
			return d, false, true
		}
	}
	for _, d := range s.Descriptors {
		for _, alias := range d.Aliases {
			if matched, _ := filepath.Match(alias, key); matched {
				return d, d.Deprecated, true
			}
		}
		if matched, _ := filepath.Match(d.Key, key); matched {
			return d, false, true
		}
	}
	return Descriptor{}, false, false
}

// AllKeys returns every canonical key declared in the schema, sorted,
// used by Suggest to find the closest unknown-key match.
func (s Schema) AllKeys() []string {
	keys := make([]string, 0, len(s.Descriptors))
	for _, d := range s.Descriptors {
		keys = append(keys, d.Key)
	}
	sort.Strings(keys)
	return keys
}

// Suggest returns the schema's closest key to an unrecognized input,
// using Levenshtein edit distance, the "did you mean X?" heuristic
// spec.md §4.3(c) calls for.
func Suggest(schema Schema, unknown string) (string, bool) {
	best := ""
	bestDist := -1
	for _, key := range schema.AllKeys() {
		d := levenshtein(unknown, key)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = key
		}
	}
	if bestDist == -1 {
		return "", false
	}
	return best, true
}

func levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	prev := make([]int, len(br)+1)
	curr := make([]int, len(br)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ar); i++ {
		curr[0] = i
		for j := 1; j <= len(br); j++ {
			cost := 1
			if ar[i-1] == br[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(br)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// normalizeBool accepts the original's full boolean vocabulary.
func normalizeBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "on", "yes", "true", "enable":
		return true, true
	case "0", "off", "no", "false", "disable":
		return false, true
	}
	return false, false
}
