package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/virtualracing/league-standings-go/log"
	"github.com/virtualracing/league-standings-go/pkg/model"
	"github.com/virtualracing/league-standings-go/pkg/processing"
	resultrepos "github.com/virtualracing/league-standings-go/pkg/repository/result"
	seasonrepos "github.com/virtualracing/league-standings-go/pkg/repository/season"
	"github.com/virtualracing/league-standings-go/pkg/utils/broadcast"
)

// StandingsService recomputes and publishes season standings. Computation
// is a pure function of one input snapshot; the only shared state is the
// published snapshot map, which gets swapped atomically per season. A
// reader sees either the prior or the new complete snapshot, never a mix.
type StandingsService struct {
	pool      *pgxpool.Pool
	processor *processing.Processor
	logger    *log.Logger

	mu        sync.RWMutex
	snapshots map[int]*model.StandingsSnapshot // by season id

	updates     chan *model.StandingsSnapshot
	broadcaster broadcast.BroadcastServer[*model.StandingsSnapshot]
}

type Option func(s *StandingsService)

func WithProcessor(proc *processing.Processor) Option {
	return func(s *StandingsService) {
		s.processor = proc
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *StandingsService) {
		s.logger = logger
	}
}

func NewStandingsService(pool *pgxpool.Pool, opts ...Option) *StandingsService {
	ret := &StandingsService{
		pool:      pool,
		processor: processing.NewProcessor(),
		logger:    log.Default().Named("standings"),
		snapshots: make(map[int]*model.StandingsSnapshot),
		updates:   make(chan *model.StandingsSnapshot, 8),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.broadcaster = broadcast.NewBroadcastServer("standings", "snapshots", ret.updates)
	return ret
}

// Subscribe delivers every published snapshot to the returned channel.
// Subscribers that lag behind miss intermediate snapshots; the latest one
// is always available via Snapshot.
func (s *StandingsService) Subscribe() <-chan *model.StandingsSnapshot {
	return s.broadcaster.Subscribe()
}

func (s *StandingsService) CancelSubscription(ch <-chan *model.StandingsSnapshot) {
	s.broadcaster.CancelSubscription(ch)
}

// Close shuts down the snapshot broadcast. Fetch and Recompute stay usable.
func (s *StandingsService) Close() {
	s.broadcaster.Close()
}

// Recompute runs a full standings computation for the season and publishes
// the outcome. It is idempotent and safe to call redundantly; on any error
// the previously published snapshot stays authoritative.
func (s *StandingsService) Recompute(ctx context.Context, seasonID int) error {
	start := time.Now()

	var cfg *model.SeasonConfig
	var results []model.RaceResult
	// read config and results as one consistent snapshot
	err := pgx.BeginTxFunc(ctx, s.pool,
		pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly},
		func(tx pgx.Tx) error {
			var txErr error
			if cfg, txErr = seasonrepos.LoadConfig(ctx, tx, seasonID); txErr != nil {
				return txErr
			}
			results, txErr = resultrepos.LoadBySeason(ctx, tx, seasonID)
			return txErr
		})
	if err != nil {
		return err
	}

	computed, err := s.processor.ComputeSeason(cfg, results)
	if err != nil {
		s.logger.Error("recompute failed, prior snapshot stays live",
			log.Int("seasonId", seasonID),
			log.ErrorField(err))
		return err
	}

	snapshot := &model.StandingsSnapshot{
		ID:         uuid.Must(uuid.NewV4()),
		SeasonID:   seasonID,
		ComputedAt: time.Now(),
		Drivers:    computed.Drivers,
		Teams:      computed.Teams,
	}
	s.publish(snapshot)

	s.logger.Info("standings recomputed",
		log.Int("seasonId", seasonID),
		log.String("snapshot", snapshot.ID.String()),
		log.Duration("took", time.Since(start)))
	return nil
}

// Fetch returns the ordered driver standings of a season. divisionID 0
// returns all divisions, ordered by division then rank. A missing snapshot
// triggers a lazy recompute.
func (s *StandingsService) Fetch(
	ctx context.Context,
	seasonID int,
	divisionID int,
) ([]model.DriverStanding, error) {
	snapshot, err := s.snapshotFor(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if divisionID != 0 {
		rows, ok := snapshot.Drivers[divisionID]
		if !ok {
			return nil, model.NewDataIntegrityError(
				"season %d has no division %d", seasonID, divisionID)
		}
		return rows, nil
	}
	divisionIDs := make([]int, 0, len(snapshot.Drivers))
	for id := range snapshot.Drivers {
		divisionIDs = append(divisionIDs, id)
	}
	// deterministic order across divisions
	sort.Ints(divisionIDs)
	ret := make([]model.DriverStanding, 0)
	for _, id := range divisionIDs {
		ret = append(ret, snapshot.Drivers[id]...)
	}
	return ret, nil
}

// FetchTeams returns the ordered team standings of a season.
func (s *StandingsService) FetchTeams(
	ctx context.Context,
	seasonID int,
) ([]model.TeamStanding, error) {
	snapshot, err := s.snapshotFor(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return snapshot.Teams, nil
}

// Snapshot returns the currently published snapshot without triggering a
// recompute.
func (s *StandingsService) Snapshot(seasonID int) (*model.StandingsSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[seasonID]
	return snapshot, ok
}

func (s *StandingsService) snapshotFor(
	ctx context.Context,
	seasonID int,
) (*model.StandingsSnapshot, error) {
	if snapshot, ok := s.Snapshot(seasonID); ok {
		return snapshot, nil
	}
	// stale read: compute on demand
	if err := s.Recompute(ctx, seasonID); err != nil {
		return nil, err
	}
	snapshot, _ := s.Snapshot(seasonID)
	return snapshot, nil
}

// publish swaps the season's snapshot. Last complete write wins.
func (s *StandingsService) publish(snapshot *model.StandingsSnapshot) {
	s.mu.Lock()
	s.snapshots[snapshot.SeasonID] = snapshot
	s.mu.Unlock()

	// never block publication on subscribers
	select {
	case s.updates <- snapshot:
	default:
	}
}
