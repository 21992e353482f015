package standings

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/virtualracing/league-standings-go/pkg/model"
)

func renderDrivers(w io.Writer, rows []model.DriverStanding) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "Driver", "Division", "Points", "Rounds", "Tied"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Rank,
			row.DriverID,
			row.DivisionID,
			// points keep full precision internally, 2 decimals are a
			// display choice
			row.TotalPoints.StringFixed(2),
			row.RoundsCounted,
			row.TieGroupSize,
		})
	}
	t.Render()
}

func renderTeams(w io.Writer, rows []model.TeamStanding) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Rank", "Team", "Points", "Rounds", "Tied"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Rank,
			row.TeamID,
			row.TotalPoints.StringFixed(2),
			row.RoundsCounted,
			row.TieGroupSize,
		})
	}
	t.Render()
}
