package basedata

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing/tiebreak"
	resultrepos "github.com/virtualracing/league-standings-go/pkg/repository/result"
	seasonrepos "github.com/virtualracing/league-standings-go/pkg/repository/season"
)

// SampleSeason holds the ids of the fixture created by CreateSampleSeason.
type SampleSeason struct {
	Season   model.Season
	Division model.Division
	Rounds   []model.Round
	Events   []model.RaceEvent
	DriverX  model.Driver
	DriverY  model.Driver
	Team     model.Team
}

// CreateSampleSeason inserts a minimal two-round season: points table
// {1:25, 2:18, 3:15}, two drivers, one team, all results confirmed.
// Round 1: X wins ahead of Y. Round 2: Y second, X third.
//
//nolint:funlen // fixture setup
func CreateSampleSeason(pool *pgxpool.Pool) *SampleSeason {
	ctx := context.Background()
	ret := &SampleSeason{}

	ret.Season = model.Season{Name: "Sample Season"}
	must(seasonrepos.Create(ctx, pool, &ret.Season))
	must(seasonrepos.SaveScoringSettings(ctx, pool, ret.Season.ID,
		model.DropRoundPolicy{}, model.DropRoundPolicy{},
		[]string{tiebreak.SlugCountOfWins}))

	ret.Division = model.Division{SeasonID: ret.Season.ID, Name: "Pro"}
	must(seasonrepos.CreateDivision(ctx, pool, &ret.Division))

	ps := &model.PointsSystem{
		Name: "top3",
		Table: map[int]decimal.Decimal{
			1: decimal.NewFromInt(25),
			2: decimal.NewFromInt(18),
			3: decimal.NewFromInt(15),
		},
	}
	must(seasonrepos.CreatePointsSystem(ctx, pool, ret.Season.ID, ps))

	for seq := 1; seq <= 2; seq++ {
		round := model.Round{
			SeasonID: ret.Season.ID,
			Seq:      seq,
			Name:     "Round",
			Status:   model.RoundCompleted,
		}
		must(seasonrepos.CreateRound(ctx, pool, &round))
		event := model.RaceEvent{
			RoundID:        round.ID,
			Kind:           model.EventKindRace,
			Seq:            1,
			PointsSystemID: ps.ID,
		}
		must(seasonrepos.CreateRaceEvent(ctx, pool, &event))
		ret.Rounds = append(ret.Rounds, round)
		ret.Events = append(ret.Events, event)
	}

	ret.DriverX = model.Driver{
		SeasonID: ret.Season.ID, DivisionID: ret.Division.ID, Name: "Driver X",
	}
	must(seasonrepos.CreateDriver(ctx, pool, &ret.DriverX))
	ret.DriverY = model.Driver{
		SeasonID: ret.Season.ID, DivisionID: ret.Division.ID, Name: "Driver Y",
	}
	must(seasonrepos.CreateDriver(ctx, pool, &ret.DriverY))

	ret.Team = model.Team{SeasonID: ret.Season.ID, Name: "Sample Team"}
	must(seasonrepos.CreateTeam(ctx, pool, &ret.Team, 0))
	for _, driverID := range []int{ret.DriverX.ID, ret.DriverY.ID} {
		must(seasonrepos.CreateRosterEntry(ctx, pool, model.RosterEntry{
			TeamID: ret.Team.ID, DriverID: driverID, FromRoundSeq: 1,
		}))
	}

	results := []model.RaceResult{
		{RaceEventID: ret.Events[0].ID, DriverID: ret.DriverX.ID,
			DivisionID: ret.Division.ID, Position: 1, Status: model.ResultConfirmed},
		{RaceEventID: ret.Events[0].ID, DriverID: ret.DriverY.ID,
			DivisionID: ret.Division.ID, Position: 2, Status: model.ResultConfirmed},
		{RaceEventID: ret.Events[1].ID, DriverID: ret.DriverY.ID,
			DivisionID: ret.Division.ID, Position: 2, Status: model.ResultConfirmed},
		{RaceEventID: ret.Events[1].ID, DriverID: ret.DriverX.ID,
			DivisionID: ret.Division.ID, Position: 3, Status: model.ResultConfirmed},
	}
	for i := range results {
		must(resultrepos.Create(ctx, pool, &results[i]))
	}
	return ret
}

func must(err error) {
	if err != nil {
		log.Fatalf("basedata: %v\n", err)
	}
}
