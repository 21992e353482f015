package season

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, s *model.Season) error {
	row := conn.QueryRow(ctx, `
	insert into season (name, starts_at, tiebreakers)
	values ($1,$2,$3)
	returning id, record_stamp
	`, s.Name, s.StartsAt, []string{})
	return row.Scan(&s.ID, &s.RecordStamp)
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from season where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// SaveScoringSettings stores the season-wide drop policies and the ordered
// tiebreaker chain.
func SaveScoringSettings(
	ctx context.Context,
	conn repository.Querier,
	seasonID int,
	driverDrop, teamDrop model.DropRoundPolicy,
	tiebreakers []string,
) error {
	_, err := conn.Exec(ctx, `
	update season set
		driver_drop_enabled=$2, driver_drop_count=$3,
		team_drop_enabled=$4, team_drop_count=$5,
		tiebreakers=$6
	where id=$1
	`, seasonID,
		driverDrop.Enabled, driverDrop.Count,
		teamDrop.Enabled, teamDrop.Count,
		tiebreakers)
	return err
}

func CreateDivision(ctx context.Context, conn repository.Querier, d *model.Division) error {
	row := conn.QueryRow(ctx, `
	insert into division (season_id, name) values ($1,$2) returning id
	`, d.SeasonID, d.Name)
	return row.Scan(&d.ID)
}

func CreatePointsSystem(
	ctx context.Context,
	conn repository.Querier,
	seasonID int,
	ps *model.PointsSystem,
) error {
	table, err := json.Marshal(ps.Table)
	if err != nil {
		return err
	}
	row := conn.QueryRow(ctx, `
	insert into points_system (season_id, name, pos_points, dnf_points, dns_points)
	values ($1,$2,$3,$4,$5)
	returning id
	`, seasonID, ps.Name, table, ps.DNFPoints, ps.DNSPoints)
	return row.Scan(&ps.ID)
}

func CreateBonusRule(
	ctx context.Context,
	conn repository.Querier,
	seasonID int,
	rule model.BonusRule,
) error {
	_, err := conn.Exec(ctx, `
	insert into bonus_rule (season_id, kind, value, restriction)
	values ($1,$2,$3,$4)
	`, seasonID, rule.Kind, rule.Value, rule.Restriction)
	return err
}

func CreateRound(ctx context.Context, conn repository.Querier, r *model.Round) error {
	row := conn.QueryRow(ctx, `
	insert into round (season_id, seq, name, status, round_points_system_id)
	values ($1,$2,$3,$4,$5)
	returning id
	`, r.SeasonID, r.Seq, r.Name, r.Status, r.RoundPointsSystemID)
	return row.Scan(&r.ID)
}

// UpdateRoundStatus marks a round completed/reopened. The caller triggers
// the recomputation; this just persists the state.
func UpdateRoundStatus(
	ctx context.Context,
	conn repository.Querier,
	roundID int,
	status model.RoundStatus,
) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update round set status=$2 where id=$1", roundID, status)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

func CreateRaceEvent(ctx context.Context, conn repository.Querier, e *model.RaceEvent) error {
	row := conn.QueryRow(ctx, `
	insert into race_event (round_id, kind, seq, points_system_id)
	values ($1,$2,$3,$4)
	returning id
	`, e.RoundID, e.Kind, e.Seq, e.PointsSystemID)
	return row.Scan(&e.ID)
}

func CreateDriver(ctx context.Context, conn repository.Querier, d *model.Driver) error {
	row := conn.QueryRow(ctx, `
	insert into driver (season_id, division_id, name)
	values ($1,$2,$3)
	returning id
	`, d.SeasonID, d.DivisionID, d.Name)
	return row.Scan(&d.ID)
}

func CreateTeam(
	ctx context.Context,
	conn repository.Querier,
	t *model.Team,
	driversForCalculation int,
) error {
	row := conn.QueryRow(ctx, `
	insert into team (season_id, name, drivers_for_calculation)
	values ($1,$2,$3)
	returning id
	`, t.SeasonID, t.Name, driversForCalculation)
	return row.Scan(&t.ID)
}

func CreateRosterEntry(ctx context.Context, conn repository.Querier, e model.RosterEntry) error {
	_, err := conn.Exec(ctx, `
	insert into roster_entry (team_id, driver_id, from_round_seq, to_round_seq)
	values ($1,$2,$3,$4)
	`, e.TeamID, e.DriverID, e.FromRoundSeq, e.ToRoundSeq)
	return err
}

// LoadConfig reads the complete scoring configuration of a season. The
// caller is responsible for running it inside a read-only transaction when
// a consistent snapshot is required.
//
//nolint:funlen // sequential loading of the config parts
func LoadConfig(
	ctx context.Context,
	conn repository.Querier,
	seasonID int,
) (*model.SeasonConfig, error) {
	ret := &model.SeasonConfig{}

	row := conn.QueryRow(ctx, `
	select id, name, starts_at, record_stamp,
		driver_drop_enabled, driver_drop_count,
		team_drop_enabled, team_drop_count,
		tiebreakers
	from season where id=$1
	`, seasonID)
	if err := row.Scan(
		&ret.Season.ID, &ret.Season.Name, &ret.Season.StartsAt, &ret.Season.RecordStamp,
		&ret.DriverDrop.Enabled, &ret.DriverDrop.Count,
		&ret.TeamDrop.Enabled, &ret.TeamDrop.Count,
		&ret.Tiebreakers,
	); err != nil {
		return nil, fmt.Errorf("load season %d: %w", seasonID, err)
	}

	var err error
	if ret.Divisions, err = loadDivisions(ctx, conn, seasonID); err != nil {
		return nil, err
	}
	if ret.PointsSystems, err = loadPointsSystems(ctx, conn, seasonID); err != nil {
		return nil, err
	}
	if ret.BonusRules, err = loadBonusRules(ctx, conn, seasonID); err != nil {
		return nil, err
	}
	if ret.Rounds, err = loadRounds(ctx, conn, seasonID); err != nil {
		return nil, err
	}
	if ret.Events, err = loadEvents(ctx, conn, seasonID); err != nil {
		return nil, err
	}
	if ret.Drivers, err = loadDrivers(ctx, conn, seasonID); err != nil {
		return nil, err
	}
	if ret.Teams, ret.Rosters, err = loadTeams(ctx, conn, seasonID); err != nil {
		return nil, err
	}
	return ret, nil
}

func loadDivisions(
	ctx context.Context, conn repository.Querier, seasonID int,
) ([]model.Division, error) {
	rows, err := conn.Query(ctx, `
	select id, season_id, name from division where season_id=$1 order by id
	`, seasonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.Division])
}

func loadPointsSystems(
	ctx context.Context, conn repository.Querier, seasonID int,
) (map[int]*model.PointsSystem, error) {
	rows, err := conn.Query(ctx, `
	select id, name, pos_points, dnf_points, dns_points
	from points_system where season_id=$1
	`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ret := make(map[int]*model.PointsSystem)
	for rows.Next() {
		ps := &model.PointsSystem{}
		var rawTable []byte
		if err := rows.Scan(&ps.ID, &ps.Name, &rawTable,
			&ps.DNFPoints, &ps.DNSPoints); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(rawTable, &ps.Table); err != nil {
			return nil, fmt.Errorf("points system %d: %w", ps.ID, err)
		}
		ret[ps.ID] = ps
	}
	return ret, rows.Err()
}

func loadBonusRules(
	ctx context.Context, conn repository.Querier, seasonID int,
) ([]model.BonusRule, error) {
	rows, err := conn.Query(ctx, `
	select kind, value, restriction from bonus_rule where season_id=$1 order by id
	`, seasonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.BonusRule])
}

func loadRounds(
	ctx context.Context, conn repository.Querier, seasonID int,
) ([]model.Round, error) {
	rows, err := conn.Query(ctx, `
	select id, season_id, seq, name, status, round_points_system_id
	from round where season_id=$1 order by seq
	`, seasonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.Round])
}

func loadEvents(
	ctx context.Context, conn repository.Querier, seasonID int,
) ([]model.RaceEvent, error) {
	rows, err := conn.Query(ctx, `
	select e.id, e.round_id, e.kind, e.seq, e.points_system_id
	from race_event e join round r on r.id = e.round_id
	where r.season_id=$1 order by r.seq, e.seq
	`, seasonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.RaceEvent])
}

func loadDrivers(
	ctx context.Context, conn repository.Querier, seasonID int,
) ([]model.Driver, error) {
	rows, err := conn.Query(ctx, `
	select id, season_id, division_id, name from driver
	where season_id=$1 order by id
	`, seasonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.Driver])
}

func loadTeams(
	ctx context.Context, conn repository.Querier, seasonID int,
) ([]model.Team, []model.TeamRoster, error) {
	rows, err := conn.Query(ctx, `
	select id, season_id, name, drivers_for_calculation from team
	where season_id=$1 order by id
	`, seasonID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	teams := make([]model.Team, 0)
	rosterByTeam := make(map[int]*model.TeamRoster)
	for rows.Next() {
		var t model.Team
		var driversForCalc int
		if err := rows.Scan(&t.ID, &t.SeasonID, &t.Name, &driversForCalc); err != nil {
			return nil, nil, err
		}
		teams = append(teams, t)
		rosterByTeam[t.ID] = &model.TeamRoster{
			TeamID:                t.ID,
			DriversForCalculation: driversForCalc,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	rows.Close()

	entryRows, err := conn.Query(ctx, `
	select re.team_id, re.driver_id, re.from_round_seq, re.to_round_seq
	from roster_entry re join team t on t.id = re.team_id
	where t.season_id=$1 order by re.id
	`, seasonID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := pgx.CollectRows(entryRows, pgx.RowToStructByPos[model.RosterEntry])
	if err != nil {
		return nil, nil, err
	}
	for _, e := range entries {
		if roster, ok := rosterByTeam[e.TeamID]; ok {
			roster.Entries = append(roster.Entries, e)
		}
	}
	rosters := make([]model.TeamRoster, 0, len(teams))
	for _, t := range teams {
		rosters = append(rosters, *rosterByTeam[t.ID])
	}
	return teams, rosters, nil
}
