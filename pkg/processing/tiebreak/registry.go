package tiebreak

import (
	"sort"
	"sync"

	"github.com/virtualracing/league-standings-go/pkg/model"
)

// rules are registered strategies keyed by slug; leagues pick and order
// them via season configuration.
var (
	mu       sync.RWMutex
	registry = map[string]Rule{}
)

func init() {
	Register(countOfWins{})
	Register(countOfPodiums{})
	Register(bestSingleRound{})
	Register(headToHead{})
}

// Register makes a rule available under its slug. Re-registering a slug
// replaces the previous rule.
func Register(r Rule) {
	mu.Lock()
	defer mu.Unlock()
	registry[r.Slug()] = r
}

func Get(slug string) (Rule, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := registry[slug]
	return r, ok
}

// Slugs returns the registered rule slugs sorted alphabetically.
func Slugs() []string {
	mu.RLock()
	defer mu.RUnlock()
	ret := make([]string, 0, len(registry))
	for slug := range registry {
		ret = append(ret, slug)
	}
	sort.Strings(ret)
	return ret
}

// BuildChain resolves an ordered slug list into rules. Unknown slugs are a
// ConfigurationError since they would silently change ranking semantics.
func BuildChain(slugs []string) ([]Rule, error) {
	ret := make([]Rule, 0, len(slugs))
	for _, slug := range slugs {
		r, ok := Get(slug)
		if !ok {
			return nil, model.NewConfigurationError("unknown tiebreaker rule %q", slug)
		}
		ret = append(ret, r)
	}
	return ret, nil
}
