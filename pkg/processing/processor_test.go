//nolint:funlen // ok for tests
package processing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/tiebreak"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// two completed rounds with qualifying and race each, pole and fastest
// lap bonuses, two drivers in one team
func sampleSeason() (*model.SeasonConfig, []model.RaceResult) {
	racePS := &model.PointsSystem{
		ID:   1,
		Name: "race",
		Table: map[int]decimal.Decimal{
			1: dec("25"), 2: dec("18"), 3: dec("15"),
		},
	}
	qualiPS := &model.PointsSystem{
		ID:    2,
		Name:  "quali",
		Table: map[int]decimal.Decimal{1: dec("1")},
	}
	cfg := &model.SeasonConfig{
		Season:    model.Season{ID: 1, Name: "Sample"},
		Divisions: []model.Division{{ID: 1, SeasonID: 1, Name: "Pro"}},
		Rounds: []model.Round{
			{ID: 10, SeasonID: 1, Seq: 1, Status: model.RoundCompleted},
			{ID: 11, SeasonID: 1, Seq: 2, Status: model.RoundCompleted},
		},
		Events: []model.RaceEvent{
			{ID: 100, RoundID: 10, Kind: model.EventKindQualifying, Seq: 1, PointsSystemID: 2},
			{ID: 101, RoundID: 10, Kind: model.EventKindRace, Seq: 2, PointsSystemID: 1},
			{ID: 102, RoundID: 11, Kind: model.EventKindQualifying, Seq: 1, PointsSystemID: 2},
			{ID: 103, RoundID: 11, Kind: model.EventKindRace, Seq: 2, PointsSystemID: 1},
		},
		PointsSystems: map[int]*model.PointsSystem{1: racePS, 2: qualiPS},
		BonusRules: []model.BonusRule{
			{Kind: model.BonusFastestLap, Value: dec("1"), Restriction: model.RestrictionTop10Only},
		},
		Tiebreakers: []string{tiebreak.SlugCountOfWins, tiebreak.SlugBestSingleRound},
		Drivers: []model.Driver{
			{ID: 1, SeasonID: 1, DivisionID: 1, Name: "Driver X"},
			{ID: 2, SeasonID: 1, DivisionID: 1, Name: "Driver Y"},
		},
		Teams: []model.Team{{ID: 1, SeasonID: 1, Name: "Alpha"}},
		Rosters: []model.TeamRoster{{
			TeamID: 1,
			Entries: []model.RosterEntry{
				{TeamID: 1, DriverID: 1, FromRoundSeq: 1},
				{TeamID: 1, DriverID: 2, FromRoundSeq: 1},
			},
		}},
	}

	confirmed := func(id, eventID, driverID, pos int, fl, pole bool) model.RaceResult {
		return model.RaceResult{
			ID: id, RaceEventID: eventID, DriverID: driverID, DivisionID: 1,
			Position: pos, FastestLap: fl, Pole: pole, Status: model.ResultConfirmed,
		}
	}
	results := []model.RaceResult{
		// round 1: X takes pole, wins with fastest lap
		confirmed(1, 100, 1, 1, false, true),
		confirmed(2, 100, 2, 2, false, false),
		confirmed(3, 101, 1, 1, true, false),
		confirmed(4, 101, 2, 2, false, false),
		// round 2: Y on pole, X third with fastest lap
		confirmed(5, 102, 2, 1, false, true),
		confirmed(6, 102, 1, 2, false, false),
		confirmed(7, 103, 2, 1, false, false),
		confirmed(8, 103, 1, 3, true, false),
	}
	return cfg, results
}

func TestProcessor_ComputeSeason(t *testing.T) {
	cfg, results := sampleSeason()

	got, err := NewProcessor().ComputeSeason(cfg, results)
	require.NoError(t, err)

	rows := got.Drivers[1]
	require.Len(t, rows, 2)

	// X: R1 quali 1 + race 25+1(fl) = 27, R2 race 15+1(fl) = 16 -> 43
	// Y: R1 race 18, R2 quali 1 + race 25 = 26 -> 44
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 2, rows[0].DriverID)
	assert.True(t, rows[0].TotalPoints.Equal(dec("44")),
		"got %v", rows[0].TotalPoints)
	assert.Equal(t, 1, rows[1].DriverID)
	assert.True(t, rows[1].TotalPoints.Equal(dec("43")),
		"got %v", rows[1].TotalPoints)

	require.Len(t, got.Teams, 1)
	assert.True(t, got.Teams[0].TotalPoints.Equal(dec("87")))

	require.Len(t, got.RoundScores, 4)
}

func TestProcessor_Idempotence(t *testing.T) {
	cfg, results := sampleSeason()
	proc := NewProcessor()

	first, err := proc.ComputeSeason(cfg, results)
	require.NoError(t, err)
	second, err := proc.ComputeSeason(cfg, results)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated computation differs (-first +second):\n%s", diff)
	}
}

func TestProcessor_ConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mangle func(cfg *model.SeasonConfig)
	}{
		{
			name: "invalid points table",
			mangle: func(cfg *model.SeasonConfig) {
				cfg.PointsSystems[1].Table[0] = dec("5")
			},
		},
		{
			name: "empty tiebreaker chain with multiple drivers",
			mangle: func(cfg *model.SeasonConfig) {
				cfg.Tiebreakers = nil
			},
		},
		{
			name: "unknown tiebreaker slug",
			mangle: func(cfg *model.SeasonConfig) {
				cfg.Tiebreakers = []string{"coin_flip"}
			},
		},
		{
			name: "unknown bonus kind",
			mangle: func(cfg *model.SeasonConfig) {
				cfg.BonusRules = []model.BonusRule{{Kind: "most_overtakes", Value: dec("1")}}
			},
		},
		{
			name: "bonus value with too many decimals",
			mangle: func(cfg *model.SeasonConfig) {
				cfg.BonusRules = []model.BonusRule{
					{Kind: model.BonusFastestLap, Value: dec("0.125")},
				}
			},
		},
		{
			name: "event references unknown points system",
			mangle: func(cfg *model.SeasonConfig) {
				cfg.Events[0].PointsSystemID = 99
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, results := sampleSeason()
			tt.mangle(cfg)
			_, err := NewProcessor().ComputeSeason(cfg, results)
			assert.Error(t, err)
			var cfgErr *model.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestProcessor_RoundPointsSystem(t *testing.T) {
	cfg, results := sampleSeason()
	roundPS := &model.PointsSystem{
		ID:    3,
		Name:  "round bonus",
		Table: map[int]decimal.Decimal{1: dec("3"), 2: dec("2")},
	}
	cfg.PointsSystems[3] = roundPS
	id := 3
	cfg.Rounds[0].RoundPointsSystemID = &id

	got, err := NewProcessor().ComputeSeason(cfg, results)
	require.NoError(t, err)

	rows := got.Drivers[1]
	// round 1 classification: X 27 > Y 18, so X gains 3 and Y gains 2.
	// totals tie at 46, wins tie at one race win each, and the best
	// single round (X 30 vs Y 26) decides
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 1, rows[0].DriverID)
	assert.True(t, rows[0].TotalPoints.Equal(dec("46")))
	assert.Equal(t, 2, rows[1].Rank)
	assert.True(t, rows[1].TotalPoints.Equal(dec("46")))
}
