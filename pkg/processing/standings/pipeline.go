package standings

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/tiebreak"
)

// RoundPoints is one subject's score in one round.
type RoundPoints struct {
	RoundID  int
	RoundSeq int
	Points   decimal.Decimal
}

// SubjectRounds is the complete per-round score set of one subject
// (driver or team) for the season.
type SubjectRounds struct {
	SubjectID int
	Rounds    []RoundPoints
}

// Ranked is the outcome of the shared drop/sum/rank/tiebreak pipeline.
type Ranked struct {
	SubjectID     int
	TotalPoints   decimal.Decimal
	RoundsCounted int
	Rank          int
	TieGroupSize  int
}

// applyDropRounds removes the k lowest scores. Ties among the lowest are
// broken by dropping the earliest round, so the result is deterministic.
func applyDropRounds(rounds []RoundPoints, k int) []RoundPoints {
	if k <= 0 {
		return rounds
	}
	if k >= len(rounds) {
		return nil
	}
	order := append([]RoundPoints(nil), rounds...)
	sort.SliceStable(order, func(i, j int) bool {
		if !order[i].Points.Equal(order[j].Points) {
			return order[i].Points.LessThan(order[j].Points)
		}
		return order[i].RoundSeq < order[j].RoundSeq
	})
	dropped := make(map[int]struct{}, k)
	for _, rp := range order[:k] {
		dropped[rp.RoundID] = struct{}{}
	}
	ret := make([]RoundPoints, 0, len(rounds)-k)
	for _, rp := range rounds {
		if _, ok := dropped[rp.RoundID]; !ok {
			ret = append(ret, rp)
		}
	}
	return ret
}

// rankSubjects runs the pipeline shared by driver and team standings:
// drop-round exclusion, totaling, descending sort, tie clustering, the
// tiebreaker chain and contiguous rank assignment.
func rankSubjects(
	subjects []SubjectRounds,
	drop model.DropRoundPolicy,
	resolver *tiebreak.Resolver,
	hist *tiebreak.History,
) []Ranked {
	type entry struct {
		subjectID int
		total     decimal.Decimal
		counted   int
	}
	entries := make([]entry, 0, len(subjects))
	for _, s := range subjects {
		kept := applyDropRounds(s.Rounds, drop.EffectiveCount(len(s.Rounds)))
		total := decimal.Zero
		for _, rp := range kept {
			total = total.Add(rp.Points)
		}
		entries = append(entries, entry{subjectID: s.SubjectID, total: total, counted: len(kept)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].total.Equal(entries[j].total) {
			return entries[i].total.GreaterThan(entries[j].total)
		}
		return entries[i].subjectID < entries[j].subjectID
	})

	ret := make([]Ranked, 0, len(entries))
	rank := 1
	for i := 0; i < len(entries); {
		j := i
		for j < len(entries) && entries[j].total.Equal(entries[i].total) {
			j++
		}
		cluster := entries[i:j]
		groups := [][]int{}
		if len(cluster) == 1 {
			groups = [][]int{{cluster[0].subjectID}}
		} else {
			ids := make([]int, len(cluster))
			for k, e := range cluster {
				ids[k] = e.subjectID
			}
			groups = resolver.Resolve(ids, hist)
		}

		counted := make(map[int]int, len(cluster))
		totals := make(map[int]decimal.Decimal, len(cluster))
		for _, e := range cluster {
			counted[e.subjectID] = e.counted
			totals[e.subjectID] = e.total
		}
		for _, group := range groups {
			for _, id := range group {
				ret = append(ret, Ranked{
					SubjectID:     id,
					TotalPoints:   totals[id],
					RoundsCounted: counted[id],
					Rank:          rank,
					TieGroupSize:  len(group),
				})
			}
			rank += len(group)
		}
		i = j
	}
	return ret
}
