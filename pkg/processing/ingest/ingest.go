package ingest

import (
	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/utils"
)

// Ingester normalizes confirmed raw result rows into immutable scored
// records. All reference checks against the season happen here, so the
// downstream calculators can assume consistent input.
type Ingester struct {
	lookup *utils.SeasonLookup
	// when lenient, rounds with missing or unconfirmed rows are skipped
	// instead of aborting the pass
	lenient bool
}

type Option func(i *Ingester)

func WithLenientResults() Option {
	return func(i *Ingester) {
		i.lenient = true
	}
}

func NewIngester(lookup *utils.SeasonLookup, opts ...Option) *Ingester {
	ret := &Ingester{lookup: lookup}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Normalize converts the raw rows of all completed rounds into scored
// results grouped by race event id.
//
// Rows referencing unknown events, drivers or divisions fail the pass with
// a DataIntegrityError. A completed round without a single confirmed row
// fails with an IncompleteDataError unless the ingester is lenient.
func (i *Ingester) Normalize(
	rows []model.RaceResult,
	completed []model.Round,
) (map[int][]model.ScoredResult, error) {
	completedIDs := make(map[int]struct{}, len(completed))
	for _, r := range completed {
		completedIDs[r.ID] = struct{}{}
	}

	ret := make(map[int][]model.ScoredResult)
	rowsByRound := make(map[int]int)
	for idx := range rows {
		row := &rows[idx]
		ev, ok := i.lookup.Events[row.RaceEventID]
		if !ok {
			return nil, model.NewDataIntegrityError(
				"result %d references unknown race event %d", row.ID, row.RaceEventID)
		}
		if _, ok := i.lookup.Drivers[row.DriverID]; !ok {
			return nil, model.NewDataIntegrityError(
				"result %d references unknown driver %d", row.ID, row.DriverID)
		}
		if _, ok := i.lookup.Divisions[row.DivisionID]; !ok {
			return nil, model.NewDataIntegrityError(
				"result %d references unknown division %d", row.ID, row.DivisionID)
		}
		if driver := i.lookup.Drivers[row.DriverID]; driver.DivisionID != row.DivisionID {
			return nil, model.NewDataIntegrityError(
				"result %d: driver %d does not race in division %d",
				row.ID, row.DriverID, row.DivisionID)
		}
		// results of rounds not (or no longer) completed are ignored
		if _, ok := completedIDs[ev.RoundID]; !ok {
			continue
		}
		if row.Status != model.ResultConfirmed {
			if i.lenient {
				continue
			}
			return nil, model.NewIncompleteDataError(
				"round %d is completed but result %d is still %s",
				ev.RoundID, row.ID, row.Status)
		}
		rowsByRound[ev.RoundID]++
		ret[row.RaceEventID] = append(ret[row.RaceEventID], model.ScoredResult{
			DriverID:      row.DriverID,
			RaceEventID:   row.RaceEventID,
			DivisionID:    row.DivisionID,
			Position:      row.Position,
			DNF:           row.DNF,
			DNS:           row.DNS,
			HasFastestLap: row.FastestLap,
			HasPole:       row.Pole,
		})
	}

	for _, r := range completed {
		if rowsByRound[r.ID] == 0 && !i.lenient {
			return nil, model.NewIncompleteDataError(
				"round %d (%s) is completed but has no confirmed results", r.ID, r.Name)
		}
	}
	return ret, nil
}
