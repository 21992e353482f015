package rounds

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/points"
)

// Aggregator sums one round's race event points into per-driver round
// scores. Events of other rounds never enter here; the caller passes the
// per-event results of exactly one round.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate combines the per-event points of one round.
//
// perEvent maps race event id to driver id to awarded points. When the
// round carries its own points system, the additional points are awarded by
// round classification on top of the event points, never instead of them.
// Full decimal precision is kept; display rounding is the caller's concern.
func (a *Aggregator) Aggregate(
	round model.Round,
	perEvent map[int]map[int]decimal.Decimal,
	roundPS *model.PointsSystem,
) ([]model.RoundScore, error) {
	byDriver := make(map[int]*model.RoundScore)
	for eventID, driverPoints := range perEvent {
		for driverID, pts := range driverPoints {
			entry, ok := byDriver[driverID]
			if !ok {
				entry = &model.RoundScore{
					DriverID:  driverID,
					RoundID:   round.ID,
					RoundSeq:  round.Seq,
					Points:    decimal.Zero,
					Breakdown: make(map[int]decimal.Decimal),
				}
				byDriver[driverID] = entry
			}
			entry.Points = entry.Points.Add(pts)
			entry.Breakdown[eventID] = pts
		}
	}

	ret := make([]model.RoundScore, 0, len(byDriver))
	for _, entry := range byDriver {
		ret = append(ret, *entry)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].DriverID < ret[j].DriverID })

	if roundPS != nil {
		if err := a.applyRoundPoints(ret, roundPS); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// applyRoundPoints awards the round-level table by round classification.
// Drivers with equal event totals share a classification position.
func (a *Aggregator) applyRoundPoints(scores []model.RoundScore, ps *model.PointsSystem) error {
	if err := points.ValidateSystem(ps); err != nil {
		return err
	}
	order := make([]int, len(scores))
	for i := range scores {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]].Points.GreaterThan(scores[order[j]].Points)
	})

	pos := 1
	for i := 0; i < len(order); {
		j := i
		for j < len(order) && scores[order[j]].Points.Equal(scores[order[i]].Points) {
			j++
		}
		if extra, ok := ps.Table[pos]; ok {
			for k := i; k < j; k++ {
				scores[order[k]].Points = scores[order[k]].Points.Add(extra)
			}
		}
		pos += j - i
		i = j
	}
	return nil
}
