package standings

import (
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/tiebreak"
	"github.com/virtualracing/league-standings-go/pkg/utils"
)

// TeamEngine ranks teams by selecting each team's best driver scores per
// round and feeding the team round scores through the same pipeline the
// driver standings use.
type TeamEngine struct{}

func NewTeamEngine() *TeamEngine {
	return &TeamEngine{}
}

// Compute produces the season's team standings.
//
// Per round, a team scores the sum of its N highest roster-driver round
// scores (N from the roster config, 0 meaning all). When fewer roster
// drivers are active in a round than N, all available count for that round.
// Roster membership is evaluated per round, so transfers apply from their
// configured round on.
func (e *TeamEngine) Compute(
	cfg *model.SeasonConfig,
	lookup *utils.SeasonLookup,
	roundScores []model.RoundScore,
) ([]model.TeamStanding, error) {
	completed := cfg.CompletedRounds()

	if err := e.validateRosters(cfg); err != nil {
		return nil, err
	}

	// driver round scores indexed by round, then driver
	byRound := make(map[int]map[int]decimal.Decimal, len(completed))
	for i := range roundScores {
		rs := &roundScores[i]
		if _, ok := byRound[rs.RoundID]; !ok {
			byRound[rs.RoundID] = make(map[int]decimal.Decimal)
		}
		byRound[rs.RoundID][rs.DriverID] = rs.Points
	}

	teamRounds := make(map[int][]RoundPoints, len(cfg.Teams))
	for _, team := range cfg.Teams {
		roster := lookup.Rosters[team.ID]
		rounds := make([]RoundPoints, 0, len(completed))
		for _, r := range completed {
			pts := e.teamRoundScore(roster, r, byRound[r.ID])
			rounds = append(rounds, RoundPoints{RoundID: r.ID, RoundSeq: r.Seq, Points: pts})
		}
		teamRounds[team.ID] = rounds
	}

	hist := e.buildHistory(cfg, completed, teamRounds)

	resolver, err := tiebreak.NewResolver(cfg.Tiebreakers)
	if err != nil {
		return nil, err
	}

	subjects := lo.Map(cfg.Teams, func(t model.Team, _ int) SubjectRounds {
		return SubjectRounds{SubjectID: t.ID, Rounds: teamRounds[t.ID]}
	})
	ranked := rankSubjects(subjects, cfg.TeamDrop, resolver, hist)

	ret := make([]model.TeamStanding, 0, len(ranked))
	for _, r := range ranked {
		ret = append(ret, model.TeamStanding{
			Rank:          r.Rank,
			TeamID:        r.SubjectID,
			TotalPoints:   r.TotalPoints,
			RoundsCounted: r.RoundsCounted,
			TieGroupSize:  r.TieGroupSize,
		})
	}
	return ret, nil
}

// teamRoundScore sums the top-N round scores of the team's roster drivers
// for one round. Only roster members at that round contribute; drivers
// without a score count as zero.
func (e *TeamEngine) teamRoundScore(
	roster model.TeamRoster,
	round model.Round,
	driverScores map[int]decimal.Decimal,
) decimal.Decimal {
	active := roster.DriversAt(round.Seq)
	scores := make([]decimal.Decimal, 0, len(active))
	for _, driverID := range active {
		pts := decimal.Zero
		if v, ok := driverScores[driverID]; ok {
			pts = v
		}
		scores = append(scores, pts)
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].GreaterThan(scores[j]) })

	n := roster.DriversForCalculation
	if n <= 0 || n > len(scores) {
		n = len(scores)
	}
	total := decimal.Zero
	for _, pts := range scores[:n] {
		total = total.Add(pts)
	}
	return total
}

// buildHistory derives team finishes from the round classification of team
// round scores, so count_of_wins and count_of_podiums work for teams too.
func (e *TeamEngine) buildHistory(
	cfg *model.SeasonConfig,
	completed []model.Round,
	teamRounds map[int][]RoundPoints,
) *tiebreak.History {
	hist := tiebreak.NewHistory()
	for teamID, rounds := range teamRounds {
		for _, rp := range rounds {
			hist.AddRoundPoints(teamID, rp.RoundID, rp.Points)
		}
	}
	for idx, r := range completed {
		type teamPts struct {
			teamID int
			pts    decimal.Decimal
		}
		classification := make([]teamPts, 0, len(cfg.Teams))
		for _, team := range cfg.Teams {
			rounds := teamRounds[team.ID]
			if idx < len(rounds) && rounds[idx].RoundID == r.ID {
				classification = append(classification, teamPts{team.ID, rounds[idx].Points})
			}
		}
		sort.SliceStable(classification, func(i, j int) bool {
			return classification[i].pts.GreaterThan(classification[j].pts)
		})
		pos := 1
		for i := 0; i < len(classification); {
			j := i
			for j < len(classification) && classification[j].pts.Equal(classification[i].pts) {
				j++
			}
			for k := i; k < j; k++ {
				hist.AddFinish(classification[k].teamID, pos)
			}
			pos += j - i
			i = j
		}
	}
	return hist
}

// validateRosters rejects a subset size that can never be satisfied by the
// roster. A per-round shortfall is fine; a permanent one is configuration.
func (e *TeamEngine) validateRosters(cfg *model.SeasonConfig) error {
	for _, roster := range cfg.Rosters {
		if roster.DriversForCalculation > 0 && roster.DriversForCalculation > roster.Size() {
			return model.NewConfigurationError(
				"team %d: drivers_for_calculation %d exceeds roster size %d",
				roster.TeamID, roster.DriversForCalculation, roster.Size())
		}
	}
	return nil
}
