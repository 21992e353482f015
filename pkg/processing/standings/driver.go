package standings

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/tiebreak"
	"github.com/virtualracing/league-standings-go/pkg/utils"
)

// DriverEngine ranks drivers per division from their round scores.
type DriverEngine struct {
	lenient bool
}

type DriverEngineOption func(e *DriverEngine)

// WithLenientScores pads missing round scores with zero instead of
// aborting the pass.
func WithLenientScores() DriverEngineOption {
	return func(e *DriverEngine) {
		e.lenient = true
	}
}

func NewDriverEngine(opts ...DriverEngineOption) *DriverEngine {
	ret := &DriverEngine{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Compute produces the per-division driver standings.
//
// Every driver of the season appears in the output, even with an all-zero
// score set. Round scores referencing rounds outside the completed set, or
// more than one score per driver and round, fail with IncompleteDataError.
func (e *DriverEngine) Compute(
	cfg *model.SeasonConfig,
	lookup *utils.SeasonLookup,
	roundScores []model.RoundScore,
	scoredByEvent map[int][]model.ScoredResult,
) (map[int][]model.DriverStanding, error) {
	completed := cfg.CompletedRounds()
	completedByID := make(map[int]model.Round, len(completed))
	for _, r := range completed {
		completedByID[r.ID] = r
	}

	matrix, err := e.buildScoreMatrix(roundScores, completed, completedByID, cfg)
	if err != nil {
		return nil, err
	}

	hist := e.buildHistory(matrix, scoredByEvent, lookup)

	resolver, err := tiebreak.NewResolver(cfg.Tiebreakers)
	if err != nil {
		return nil, err
	}

	ret := make(map[int][]model.DriverStanding, len(cfg.Divisions))
	for _, div := range cfg.Divisions {
		subjects := make([]SubjectRounds, 0)
		for _, driver := range cfg.Drivers {
			if driver.DivisionID != div.ID {
				continue
			}
			subjects = append(subjects, SubjectRounds{
				SubjectID: driver.ID,
				Rounds:    matrix[driver.ID],
			})
		}
		ranked := rankSubjects(subjects, cfg.DriverDrop, resolver, hist)
		rows := make([]model.DriverStanding, 0, len(ranked))
		for _, r := range ranked {
			rows = append(rows, model.DriverStanding{
				Rank:          r.Rank,
				DriverID:      r.SubjectID,
				DivisionID:    div.ID,
				TotalPoints:   r.TotalPoints,
				RoundsCounted: r.RoundsCounted,
				TieGroupSize:  r.TieGroupSize,
			})
		}
		ret[div.ID] = rows
	}
	return ret, nil
}

// buildScoreMatrix normalizes round scores into a complete per-driver,
// per-completed-round matrix. Drivers without a score for a round get an
// explicit zero entry; they are never silently omitted.
func (e *DriverEngine) buildScoreMatrix(
	roundScores []model.RoundScore,
	completed []model.Round,
	completedByID map[int]model.Round,
	cfg *model.SeasonConfig,
) (map[int][]RoundPoints, error) {
	byDriver := make(map[int]map[int]decimal.Decimal)
	for i := range roundScores {
		rs := &roundScores[i]
		if _, ok := completedByID[rs.RoundID]; !ok {
			if e.lenient {
				continue
			}
			return nil, model.NewIncompleteDataError(
				"driver %d has a score for round %d which is not completed",
				rs.DriverID, rs.RoundID)
		}
		rounds, ok := byDriver[rs.DriverID]
		if !ok {
			rounds = make(map[int]decimal.Decimal)
			byDriver[rs.DriverID] = rounds
		}
		if _, dup := rounds[rs.RoundID]; dup {
			return nil, model.NewIncompleteDataError(
				"driver %d has multiple scores for round %d", rs.DriverID, rs.RoundID)
		}
		rounds[rs.RoundID] = rs.Points
	}

	ret := make(map[int][]RoundPoints, len(cfg.Drivers))
	for _, driver := range cfg.Drivers {
		rounds := make([]RoundPoints, 0, len(completed))
		for _, r := range completed {
			pts := decimal.Zero
			if v, ok := byDriver[driver.ID][r.ID]; ok {
				pts = v
			}
			rounds = append(rounds, RoundPoints{RoundID: r.ID, RoundSeq: r.Seq, Points: pts})
		}
		sort.Slice(rounds, func(i, j int) bool { return rounds[i].RoundSeq < rounds[j].RoundSeq })
		ret[driver.ID] = rounds
	}
	return ret, nil
}

// buildHistory feeds the full round history plus race finishes into the
// tiebreaker input. Only race events count towards wins and podiums.
func (e *DriverEngine) buildHistory(
	matrix map[int][]RoundPoints,
	scoredByEvent map[int][]model.ScoredResult,
	lookup *utils.SeasonLookup,
) *tiebreak.History {
	hist := tiebreak.NewHistory()
	for driverID, rounds := range matrix {
		for _, rp := range rounds {
			hist.AddRoundPoints(driverID, rp.RoundID, rp.Points)
		}
	}
	for eventID, results := range scoredByEvent {
		ev, ok := lookup.Events[eventID]
		if !ok || ev.Kind != model.EventKindRace {
			continue
		}
		for i := range results {
			hist.AddFinish(results[i].DriverID, results[i].Position)
		}
	}
	return hist
}
