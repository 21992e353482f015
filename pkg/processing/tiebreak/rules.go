package tiebreak

import "github.com/shopspring/decimal"

// Rule is a stateless comparison strategy. For a tie cluster it yields a
// metric per subject; subjects partition by descending metric.
type Rule interface {
	Slug() string
	Metrics(h *History, cluster []int) map[int]decimal.Decimal
}

const (
	SlugCountOfWins     = "count_of_wins"
	SlugCountOfPodiums  = "count_of_podiums"
	SlugBestSingleRound = "best_single_round"
	SlugHeadToHead      = "head_to_head"
)

type countOfWins struct{}

func (countOfWins) Slug() string { return SlugCountOfWins }

func (countOfWins) Metrics(h *History, cluster []int) map[int]decimal.Decimal {
	ret := make(map[int]decimal.Decimal, len(cluster))
	for _, id := range cluster {
		ret[id] = decimal.NewFromInt(int64(h.Wins(id)))
	}
	return ret
}

type countOfPodiums struct{}

func (countOfPodiums) Slug() string { return SlugCountOfPodiums }

func (countOfPodiums) Metrics(h *History, cluster []int) map[int]decimal.Decimal {
	ret := make(map[int]decimal.Decimal, len(cluster))
	for _, id := range cluster {
		ret[id] = decimal.NewFromInt(int64(h.Podiums(id)))
	}
	return ret
}

type bestSingleRound struct{}

func (bestSingleRound) Slug() string { return SlugBestSingleRound }

func (bestSingleRound) Metrics(h *History, cluster []int) map[int]decimal.Decimal {
	ret := make(map[int]decimal.Decimal, len(cluster))
	for _, id := range cluster {
		ret[id] = h.BestRound(id)
	}
	return ret
}

// headToHead scores each cluster member by the number of rounds it
// outscored any other member of the same cluster.
type headToHead struct{}

func (headToHead) Slug() string { return SlugHeadToHead }

func (headToHead) Metrics(h *History, cluster []int) map[int]decimal.Decimal {
	ret := make(map[int]decimal.Decimal, len(cluster))
	for _, id := range cluster {
		beaten := 0
		for _, other := range cluster {
			if other == id {
				continue
			}
			beaten += h.HeadToHead(id, other)
		}
		ret[id] = decimal.NewFromInt(int64(beaten))
	}
	return ret
}
