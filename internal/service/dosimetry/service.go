package dosimetry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/microsievert/dosimetria/internal/domain"
	"github.com/microsievert/dosimetria/internal/pkg/constants"
	"github.com/microsievert/dosimetria/internal/pkg/logger"
)

// RecordStore is the remote system of record for the roster and the dose
// report history. Implemented by the Ninox client and the Postgres store.
type RecordStore interface {
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	ListDoseRecords(ctx context.Context) ([]domain.DoseRecord, error)
	InsertDoseRecords(ctx context.Context, records []domain.DoseRecord) (domain.InsertResult, error)
	UpdateAccumulations(ctx context.Context, updates []domain.AccumulationUpdate) (domain.UpdateResult, error)
}

// Run holds the immutable snapshots of one processing pass: the roster, the
// normalized readings and the produced record batch. It is discarded after
// use; nothing is cached across passes.
type Run struct {
	ID       string               `json:"run_id"`
	Roster   []domain.Participant `json:"-"`
	Readings []domain.RawReading  `json:"-"`
	Records  []domain.DoseRecord  `json:"records"`
}

type Service struct {
	store RecordStore
}

func NewService(store RecordStore) *Service {
	return &Service{store: store}
}

func (s *Service) Participants(ctx context.Context) ([]domain.Participant, error) {
	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListParticipants: %w", err)
	}
	return participants, nil
}

// Process runs one full engine pass over an uploaded row set: normalize,
// expand the roster, match, resolve periods and apply the control baseline.
// A run with zero records is not an error; callers decide how to surface it.
func (s *Service) Process(ctx context.Context, rows []map[string]string, periodFilter string) (*Run, error) {
	run := &Run{ID: uuid.New().String()}
	ctx = context.WithValue(ctx, constants.CtxKeyRunID, run.ID)

	if len(rows) == 0 {
		return nil, constants.ErrNoDoseRows
	}

	// The roster fetch goes over the wire; normalize the rows while it runs.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		participants, err := s.store.ListParticipants(gctx)
		if err != nil {
			return fmt.Errorf("store.ListParticipants: %w", err)
		}
		if len(participants) == 0 {
			return constants.ErrNoParticipants
		}
		run.Roster = participants
		return nil
	})

	run.Readings = NormalizeRows(rows)
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(run.Readings) == 0 {
		return nil, constants.ErrMissingDosimeterColumn
	}

	assignments := ExpandRoster(run.Roster)
	run.Records = ApplyControlBaseline(MatchReadings(assignments, run.Readings, periodFilter))

	if len(run.Records) == 0 {
		logger.Warnf(ctx, "no roster matches: %d assignments, %d readings, filter %q",
			len(assignments), len(run.Readings), periodFilter)
	} else {
		logger.Infof(ctx, "processed %d records from %d readings", len(run.Records), len(run.Readings))
	}

	return run, nil
}

// Upload processes a row set and persists the resulting batch to the report
// table. Insert failures surface with the partial-success count intact.
func (s *Service) Upload(ctx context.Context, rows []map[string]string, periodFilter string) (*Run, domain.InsertResult, error) {
	run, err := s.Process(ctx, rows, periodFilter)
	if err != nil {
		return nil, domain.InsertResult{}, err
	}
	if len(run.Records) == 0 {
		return nil, domain.InsertResult{}, constants.ErrNoMatches
	}

	res, err := s.store.InsertDoseRecords(ctx, run.Records)
	if err != nil {
		return run, res, fmt.Errorf("store.InsertDoseRecords: %w", err)
	}

	logger.Infof(ctx, "inserted %d of %d records", res.Inserted, res.Total)
	return run, res, nil
}

// UpdateAccumulations re-derives the three accumulation horizons from the
// full report history and writes them back onto every row of each person.
func (s *Service) UpdateAccumulations(ctx context.Context, opts AggregateOptions) ([]domain.PersonAccumulate, domain.UpdateResult, error) {
	history, err := s.store.ListDoseRecords(ctx)
	if err != nil {
		return nil, domain.UpdateResult{}, fmt.Errorf("store.ListDoseRecords: %w", err)
	}
	if len(history) == 0 {
		return nil, domain.UpdateResult{}, constants.ErrEmptyHistory
	}

	accumulates := Aggregate(history, opts)

	byPerson := make(map[domain.PersonKey]domain.PersonAccumulate, len(accumulates))
	for _, acc := range accumulates {
		if acc.Person.Name == domain.ControlName {
			continue
		}
		byPerson[acc.Person] = acc
	}

	var updates []domain.AccumulationUpdate
	for _, r := range history {
		if r.ID == "" {
			continue
		}
		acc, ok := byPerson[r.Person()]
		if !ok {
			continue
		}
		updates = append(updates, domain.AccumulationUpdate{
			RecordID: r.ID,
			Actual:   acc.Actual,
			Annual:   acc.Annual,
			Lifetime: acc.Lifetime,
		})
	}

	res, err := s.store.UpdateAccumulations(ctx, updates)
	if err != nil {
		return accumulates, res, fmt.Errorf("store.UpdateAccumulations: %w", err)
	}

	logger.Infof(ctx, "updated accumulations on %d of %d rows for %d persons",
		res.Updated, res.Total, len(byPerson))
	return accumulates, res, nil
}
