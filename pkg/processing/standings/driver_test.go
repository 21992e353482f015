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

// two-driver, two-round season; both rounds completed, one race each
func twoDriverConfig() *model.SeasonConfig {
	return &model.SeasonConfig{
		Season:    model.Season{ID: 1},
		Divisions: []model.Division{{ID: 1, SeasonID: 1, Name: "Pro"}},
		Rounds: []model.Round{
			{ID: 10, SeasonID: 1, Seq: 1, Status: model.RoundCompleted},
			{ID: 11, SeasonID: 1, Seq: 2, Status: model.RoundCompleted},
		},
		Events: []model.RaceEvent{
			{ID: 100, RoundID: 10, Kind: model.EventKindRace, Seq: 1},
			{ID: 101, RoundID: 11, Kind: model.EventKindRace, Seq: 1},
		},
		Tiebreakers: []string{tiebreak.SlugCountOfWins},
		Drivers: []model.Driver{
			{ID: 1, SeasonID: 1, DivisionID: 1, Name: "Driver X"},
			{ID: 2, SeasonID: 1, DivisionID: 1, Name: "Driver Y"},
		},
	}
}

func driverScore(driverID, roundID, roundSeq int, pts string) model.RoundScore {
	return model.RoundScore{
		DriverID: driverID, RoundID: roundID, RoundSeq: roundSeq, Points: dec(pts),
	}
}

func TestDriverEngine_PointsDecide(t *testing.T) {
	cfg := twoDriverConfig()
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"), driverScore(1, 11, 2, "15"),
		driverScore(2, 10, 1, "18"), driverScore(2, 11, 2, "18"),
	}

	got, err := NewDriverEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores, nil)
	require.NoError(t, err)
	rows := got[1]
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 1, rows[0].DriverID)
	assert.True(t, rows[0].TotalPoints.Equal(dec("40")))
	assert.Equal(t, 2, rows[0].RoundsCounted)
	assert.Equal(t, 1, rows[0].TieGroupSize)

	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 2, rows[1].DriverID)
	assert.True(t, rows[1].TotalPoints.Equal(dec("36")))
}

func TestDriverEngine_DropRoundChangesOrder(t *testing.T) {
	cfg := twoDriverConfig()
	cfg.DriverDrop = model.DropRoundPolicy{Enabled: true, Count: 1}
	// without the drop driver 2 leads 36:33; dropping each driver's worst
	// round turns it around to 25:18
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"), driverScore(1, 11, 2, "8"),
		driverScore(2, 10, 1, "18"), driverScore(2, 11, 2, "18"),
	}

	got, err := NewDriverEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores, nil)
	require.NoError(t, err)
	rows := got[1]
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].DriverID)
	assert.True(t, rows[0].TotalPoints.Equal(dec("25")))
	assert.Equal(t, 1, rows[0].RoundsCounted)
	assert.Equal(t, 2, rows[1].DriverID)
	assert.True(t, rows[1].TotalPoints.Equal(dec("18")))
}

func TestDriverEngine_TiebreakerDecidesWithoutSharedRank(t *testing.T) {
	cfg := twoDriverConfig()
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"), driverScore(1, 11, 2, "15"),
		driverScore(2, 10, 1, "18"), driverScore(2, 11, 2, "22"),
	}
	// driver 1 won round 1's race, driver 2 never won
	scoredByEvent := map[int][]model.ScoredResult{
		100: {
			{DriverID: 1, RaceEventID: 100, DivisionID: 1, Position: 1},
			{DriverID: 2, RaceEventID: 100, DivisionID: 1, Position: 2},
		},
		101: {
			{DriverID: 1, RaceEventID: 101, DivisionID: 1, Position: 2},
			{DriverID: 2, RaceEventID: 101, DivisionID: 1, Position: 0},
		},
	}

	got, err := NewDriverEngine().Compute(
		cfg, utils.NewSeasonLookup(cfg), scores, scoredByEvent)
	require.NoError(t, err)
	rows := got[1]
	require.Len(t, rows, 2)

	// both on 40 points, the win count separates them
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 1, rows[0].DriverID)
	assert.Equal(t, 1, rows[0].TieGroupSize)
	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 2, rows[1].DriverID)
	assert.Equal(t, 1, rows[1].TieGroupSize)
}

func TestDriverEngine_ExhaustedTiebreakersShareRank(t *testing.T) {
	cfg := twoDriverConfig()
	cfg.Drivers = append(cfg.Drivers,
		model.Driver{ID: 3, SeasonID: 1, DivisionID: 1, Name: "Driver Z"})
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"), driverScore(1, 11, 2, "15"),
		driverScore(2, 10, 1, "15"), driverScore(2, 11, 2, "25"),
		driverScore(3, 10, 1, "10"), driverScore(3, 11, 2, "10"),
	}
	// one win each, so count_of_wins cannot separate 1 and 2
	scoredByEvent := map[int][]model.ScoredResult{
		100: {
			{DriverID: 1, RaceEventID: 100, DivisionID: 1, Position: 1},
			{DriverID: 2, RaceEventID: 100, DivisionID: 1, Position: 2},
			{DriverID: 3, RaceEventID: 100, DivisionID: 1, Position: 3},
		},
		101: {
			{DriverID: 2, RaceEventID: 101, DivisionID: 1, Position: 1},
			{DriverID: 1, RaceEventID: 101, DivisionID: 1, Position: 2},
			{DriverID: 3, RaceEventID: 101, DivisionID: 1, Position: 3},
		},
	}

	got, err := NewDriverEngine().Compute(
		cfg, utils.NewSeasonLookup(cfg), scores, scoredByEvent)
	require.NoError(t, err)
	rows := got[1]
	require.Len(t, rows, 3)

	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, 1, rows[1].Rank)
	assert.Equal(t, 2, rows[0].TieGroupSize)
	assert.Equal(t, 2, rows[1].TieGroupSize)
	assert.ElementsMatch(t, []int{1, 2}, []int{rows[0].DriverID, rows[1].DriverID})
	// next rank after the shared pair
	assert.Equal(t, 3, rows[2].Rank)
	assert.Equal(t, 3, rows[2].DriverID)
}

func TestDriverEngine_DriverWithoutScoresStillListed(t *testing.T) {
	cfg := twoDriverConfig()
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"), driverScore(1, 11, 2, "15"),
	}

	got, err := NewDriverEngine().Compute(cfg, utils.NewSeasonLookup(cfg), scores, nil)
	require.NoError(t, err)
	rows := got[1]
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[1].DriverID)
	assert.True(t, rows[1].TotalPoints.IsZero())
	assert.Equal(t, 2, rows[1].RoundsCounted)
}

func TestDriverEngine_ScoreMatrixErrors(t *testing.T) {
	tests := []struct {
		name   string
		scores []model.RoundScore
	}{
		{
			name: "score for a round that is not completed",
			scores: []model.RoundScore{
				driverScore(1, 99, 7, "25"),
			},
		},
		{
			name: "duplicate score for the same round",
			scores: []model.RoundScore{
				driverScore(1, 10, 1, "25"), driverScore(1, 10, 1, "18"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := twoDriverConfig()
			_, err := NewDriverEngine().Compute(
				cfg, utils.NewSeasonLookup(cfg), tt.scores, nil)
			assert.Error(t, err)
			var incErr *model.IncompleteDataError
			assert.ErrorAs(t, err, &incErr)
		})
	}
}

func TestDriverEngine_LenientSkipsUnknownRounds(t *testing.T) {
	cfg := twoDriverConfig()
	scores := []model.RoundScore{
		driverScore(1, 10, 1, "25"),
		driverScore(1, 99, 7, "25"), // reopened round, ignored in lenient mode
	}

	got, err := NewDriverEngine(WithLenientScores()).Compute(
		cfg, utils.NewSeasonLookup(cfg), scores, nil)
	require.NoError(t, err)
	rows := got[1]
	assert.True(t, rows[0].TotalPoints.Equal(dec("25")))
}
