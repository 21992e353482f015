package processing

import (
	"github.com/shopspring/decimal"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/ingest"
	"github.com/virtualracing/league-standings-go/pkg/processing/points"
	"github.com/virtualracing/league-standings-go/pkg/processing/rounds"
	"github.com/virtualracing/league-standings-go/pkg/processing/standings"
	"github.com/virtualracing/league-standings-go/pkg/processing/tiebreak"
	"github.com/virtualracing/league-standings-go/pkg/utils"
)

// Computed is the outcome of one full season computation.
type Computed struct {
	Drivers map[int][]model.DriverStanding // by division id
	Teams   []model.TeamStanding
	// derived round scores, kept for callers that want per-round detail
	RoundScores []model.RoundScore
}

// Processor runs the whole scoring pipeline for one season: ingest,
// per-event points, round aggregation, driver and team standings. It is a
// pure function of the config and result snapshot it is given; all lookup
// tables are built fresh per pass.
type Processor struct {
	lenient bool
}

type ProcessorOption func(proc *Processor)

// WithLenientResults downgrades missing result data from fatal to
// best-effort: affected rows are skipped, absent scores count as zero.
func WithLenientResults() ProcessorOption {
	return func(proc *Processor) {
		proc.lenient = true
	}
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	ret := &Processor{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// ComputeSeason computes driver and team standings for one season from a
// consistent snapshot of configuration and confirmed results.
//
// Configuration and integrity errors abort the pass; nothing is partially
// computed and the caller keeps whatever snapshot was published before.
func (p *Processor) ComputeSeason(
	cfg *model.SeasonConfig,
	results []model.RaceResult,
) (*Computed, error) {
	if err := p.validateConfig(cfg); err != nil {
		return nil, err
	}

	lookup := utils.NewSeasonLookup(cfg)
	completed := cfg.CompletedRounds()

	ingestOpts := []ingest.Option{}
	if p.lenient {
		ingestOpts = append(ingestOpts, ingest.WithLenientResults())
	}
	scoredByEvent, err := ingest.NewIngester(lookup, ingestOpts...).
		Normalize(results, completed)
	if err != nil {
		return nil, err
	}

	calc := points.NewCalculator(points.WithBonusRules(cfg.BonusRules))
	aggregator := rounds.NewAggregator()

	roundScores := make([]model.RoundScore, 0)
	for _, round := range completed {
		perEvent := make(map[int]map[int]decimal.Decimal)
		for _, ev := range lookup.EventsByRound[round.ID] {
			ps, ok := cfg.PointsSystems[ev.PointsSystemID]
			if !ok {
				return nil, model.NewConfigurationError(
					"race event %d references unknown points system %d",
					ev.ID, ev.PointsSystemID)
			}
			awarded, cErr := calc.Calculate(ps, scoredByEvent[ev.ID])
			if cErr != nil {
				return nil, cErr
			}
			perEvent[ev.ID] = awarded
		}
		var roundPS *model.PointsSystem
		if round.RoundPointsSystemID != nil {
			ps, ok := cfg.PointsSystems[*round.RoundPointsSystemID]
			if !ok {
				return nil, model.NewConfigurationError(
					"round %d references unknown points system %d",
					round.ID, *round.RoundPointsSystemID)
			}
			roundPS = ps
		}
		scores, aErr := aggregator.Aggregate(round, perEvent, roundPS)
		if aErr != nil {
			return nil, aErr
		}
		roundScores = append(roundScores, scores...)
	}

	driverOpts := []standings.DriverEngineOption{}
	if p.lenient {
		driverOpts = append(driverOpts, standings.WithLenientScores())
	}
	driverStandings, err := standings.NewDriverEngine(driverOpts...).
		Compute(cfg, lookup, roundScores, scoredByEvent)
	if err != nil {
		return nil, err
	}

	teamStandings, err := standings.NewTeamEngine().Compute(cfg, lookup, roundScores)
	if err != nil {
		return nil, err
	}

	return &Computed{
		Drivers:     driverStandings,
		Teams:       teamStandings,
		RoundScores: roundScores,
	}, nil
}

// validateConfig rejects configurations the engines cannot run on. The
// check happens before any scoring so a bad config never half-computes.
func (p *Processor) validateConfig(cfg *model.SeasonConfig) error {
	for _, ps := range cfg.PointsSystems {
		if err := points.ValidateSystem(ps); err != nil {
			return err
		}
	}
	// more than one scored subject makes ties structurally possible,
	// so an empty chain is a configuration problem
	if len(cfg.Tiebreakers) == 0 && len(cfg.Drivers) > 1 {
		return model.NewConfigurationError(
			"season %d has no tiebreaker rules configured", cfg.Season.ID)
	}
	if _, err := tiebreak.BuildChain(cfg.Tiebreakers); err != nil {
		return err
	}
	for _, rule := range cfg.BonusRules {
		if rule.Kind != model.BonusFastestLap && rule.Kind != model.BonusPole {
			return model.NewConfigurationError("unknown bonus kind %q", rule.Kind)
		}
		if !rule.Value.Round(2).Equal(rule.Value) {
			return model.NewConfigurationError(
				"bonus %s has more than 2 decimals", rule.Kind)
		}
	}
	return nil
}
