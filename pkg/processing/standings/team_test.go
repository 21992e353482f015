//nolint:funlen // ok for tests
package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/tiebreak"
	"github.com/virtualracing/league-standings-go/pkg/utils"
)

func rosterEntries(teamID int, driverIDs ...int) []model.RosterEntry {
	ret := make([]model.RosterEntry, 0, len(driverIDs))
	for _, id := range driverIDs {
		ret = append(ret, model.RosterEntry{TeamID: teamID, DriverID: id, FromRoundSeq: 1})
	}
	return ret
}

func teamConfig() *model.SeasonConfig {
	return &model.SeasonConfig{
		Season: model.Season{ID: 1},
		Rounds: []model.Round{
			{ID: 10, SeasonID: 1, Seq: 1, Status: model.RoundCompleted},
		},
		Tiebreakers: []string{tiebreak.SlugCountOfWins},
		Drivers: []model.Driver{
			{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5},
		},
		Teams: []model.Team{{ID: 1, SeasonID: 1, Name: "Alpha"}},
		Rosters: []model.TeamRoster{
			{TeamID: 1, Entries: rosterEntries(1, 1, 2, 3, 4, 5), DriversForCalculation: 3},
		},
	}
}

func TestTeamEngine_TopNOfRoster(t *testing.T) {
	cfg := teamConfig()
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"),
		driverScore(2, 10, 1, "18"),
		driverScore(3, 10, 1, "15"),
		driverScore(4, 10, 1, "10"),
		driverScore(5, 10, 1, "5"),
	}

	got, err := NewTeamEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// best three of 25/18/15/10/5
	assert.True(t, got[0].TotalPoints.Equal(dec("58")))
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 1, got[0].TeamID)
}

func TestTeamEngine_AllDriversWhenSubsetUnset(t *testing.T) {
	cfg := teamConfig()
	cfg.Rosters[0].DriversForCalculation = 0
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"),
		driverScore(2, 10, 1, "18"),
	}

	got, err := NewTeamEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores)
	require.NoError(t, err)
	// the three drivers without a score contribute zero
	assert.True(t, got[0].TotalPoints.Equal(dec("43")))
}

func TestTeamEngine_FewerActiveDriversThanSubset(t *testing.T) {
	cfg := teamConfig()
	cfg.Rosters[0].Entries = rosterEntries(1, 1, 2)
	cfg.Rosters[0].DriversForCalculation = 2
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"),
	}

	got, err := NewTeamEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores)
	require.NoError(t, err)
	assert.True(t, got[0].TotalPoints.Equal(dec("25")))
}

func TestTeamEngine_RosterMembershipPerRound(t *testing.T) {
	cfg := teamConfig()
	cfg.Rounds = append(cfg.Rounds,
		model.Round{ID: 11, SeasonID: 1, Seq: 2, Status: model.RoundCompleted})
	// driver 2 joins the team from round 2 on, driver 1 leaves after round 1
	cfg.Rosters = []model.TeamRoster{{
		TeamID: 1,
		Entries: []model.RosterEntry{
			{TeamID: 1, DriverID: 1, FromRoundSeq: 1, ToRoundSeq: 1},
			{TeamID: 1, DriverID: 2, FromRoundSeq: 2},
		},
		DriversForCalculation: 1,
	}}
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"), driverScore(1, 11, 2, "25"),
		driverScore(2, 10, 1, "18"), driverScore(2, 11, 2, "18"),
	}

	got, err := NewTeamEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores)
	require.NoError(t, err)
	// round 1 counts driver 1 only (25), round 2 counts driver 2 only (18)
	assert.True(t, got[0].TotalPoints.Equal(dec("43")))
}

func TestTeamEngine_SubsetLargerThanRoster(t *testing.T) {
	cfg := teamConfig()
	cfg.Rosters[0].Entries = rosterEntries(1, 1, 2)
	cfg.Rosters[0].DriversForCalculation = 3

	_, err := NewTeamEngine().Compute(cfg, utils.NewSeasonLookup(cfg), nil)
	assert.Error(t, err)
	var cfgErr *model.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTeamEngine_TiebreakOnTeamWins(t *testing.T) {
	cfg := teamConfig()
	cfg.Rounds = append(cfg.Rounds,
		model.Round{ID: 11, SeasonID: 1, Seq: 2, Status: model.RoundCompleted},
		model.Round{ID: 12, SeasonID: 1, Seq: 3, Status: model.RoundCompleted})
	cfg.Teams = []model.Team{
		{ID: 1, SeasonID: 1, Name: "Alpha"},
		{ID: 2, SeasonID: 1, Name: "Bravo"},
	}
	cfg.Rosters = []model.TeamRoster{
		{TeamID: 1, Entries: rosterEntries(1, 1), DriversForCalculation: 1},
		{TeamID: 2, Entries: rosterEntries(2, 2), DriversForCalculation: 1},
	}
	// equal totals (40 each), team 1 topped two round classifications,
	// team 2 only one
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "20"), driverScore(1, 11, 2, "20"),
		driverScore(2, 10, 1, "15"), driverScore(2, 11, 2, "15"),
		driverScore(2, 12, 3, "10"),
	}

	got, err := NewTeamEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 1, got[0].TeamID)
	assert.Equal(t, 1, got[0].TieGroupSize)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, 2, got[1].TeamID)
}
