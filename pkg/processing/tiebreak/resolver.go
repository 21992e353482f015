package tiebreak

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Resolver applies an ordered rule chain to point-tied subjects.
type Resolver struct {
	chain []Rule
}

func NewResolver(slugs []string) (*Resolver, error) {
	chain, err := BuildChain(slugs)
	if err != nil {
		return nil, err
	}
	return &Resolver{chain: chain}, nil
}

// Resolve partitions a tie cluster into ordered groups. Each rule splits
// the cluster by its metric; remaining sub-clusters move on to the next
// rule until only singletons remain or the chain is exhausted. Subjects in
// the same final group stay tied and will share a rank.
func (r *Resolver) Resolve(cluster []int, h *History) [][]int {
	return r.resolve(cluster, h, 0)
}

func (r *Resolver) resolve(cluster []int, h *History, ruleIdx int) [][]int {
	if len(cluster) <= 1 || ruleIdx >= len(r.chain) {
		// terminal group; deterministic order inside
		ret := append([]int(nil), cluster...)
		sort.Ints(ret)
		return [][]int{ret}
	}

	metrics := r.chain[ruleIdx].Metrics(h, cluster)
	// group by equal metric; decimal values must be compared with Equal,
	// not by representation
	type group struct {
		metric decimal.Decimal
		ids    []int
	}
	groups := make([]*group, 0, len(cluster))
	for _, id := range cluster {
		m := metrics[id]
		var match *group
		for _, g := range groups {
			if g.metric.Equal(m) {
				match = g
				break
			}
		}
		if match == nil {
			match = &group{metric: m}
			groups = append(groups, match)
		}
		match.ids = append(match.ids, id)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].metric.GreaterThan(groups[j].metric)
	})

	ret := make([][]int, 0, len(cluster))
	for _, g := range groups {
		if len(g.ids) == 1 {
			ret = append(ret, g.ids)
			continue
		}
		ret = append(ret, r.resolve(g.ids, h, ruleIdx+1)...)
	}
	return ret
}
