package diagnostic

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestions bounds how many near-miss candidates a diagnostic carries.
const maxSuggestions = 3

// Suggest ranks candidates against target using fuzzy matching and returns
// the closest matches, best first. Returns nil when nothing is close enough.
func Suggest(target string, candidates []string) []string {
	if target == "" || len(candidates) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return nil
	}

	sort.Sort(ranks)

	out := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if r.Target == target {
			continue
		}
		out = append(out, r.Target)
		if len(out) == maxSuggestions {
			break
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
