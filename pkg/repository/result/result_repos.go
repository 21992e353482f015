package result

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/repository"
)

func Create(ctx context.Context, conn repository.Querier, r *model.RaceResult) error {
	row := conn.QueryRow(ctx, `
	insert into race_result (
		race_event_id, driver_id, division_id, position,
		dnf, dns, fastest_lap, pole, status
	) values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	returning id, record_stamp
	`, r.RaceEventID, r.DriverID, r.DivisionID, r.Position,
		r.DNF, r.DNS, r.FastestLap, r.Pole, r.Status)
	return row.Scan(&r.ID, &r.RecordStamp)
}

// Confirm marks a result row confirmed, returns number of rows updated.
func Confirm(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx,
		"update race_result set status=$2 where id=$1", id, model.ResultConfirmed)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// deletes an entry from the database, returns number of rows deleted.
func DeleteByID(ctx context.Context, conn repository.Querier, id int) (int, error) {
	cmdTag, err := conn.Exec(ctx, "delete from race_result where id=$1", id)
	if err != nil {
		return 0, err
	}
	return int(cmdTag.RowsAffected()), nil
}

// LoadBySeason reads all result rows of a season regardless of status.
// Filtering confirmed rows is the ingester's job.
func LoadBySeason(
	ctx context.Context,
	conn repository.Querier,
	seasonID int,
) ([]model.RaceResult, error) {
	rows, err := conn.Query(ctx, `
	select rr.id, rr.race_event_id, rr.driver_id, rr.division_id, rr.position,
		rr.dnf, rr.dns, rr.fastest_lap, rr.pole, rr.status, rr.record_stamp
	from race_result rr
	join race_event e on e.id = rr.race_event_id
	join round r on r.id = e.round_id
	where r.season_id=$1
	order by rr.id
	`, seasonID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.RaceResult])
}

func LoadByEvent(
	ctx context.Context,
	conn repository.Querier,
	raceEventID int,
) ([]model.RaceResult, error) {
	rows, err := conn.Query(ctx, `
	select id, race_event_id, driver_id, division_id, position,
		dnf, dns, fastest_lap, pole, status, record_stamp
	from race_result where race_event_id=$1 order by id
	`, raceEventID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[model.RaceResult])
}
