// Package store owns the ordered collection of logged workouts and its
// snapshot persistence.
package store

import (
	"context"

	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/workout"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
)

var (
	// ErrPersistence wraps failures of the underlying Medium. The in-memory
	// state stays authoritative when it is returned.
	ErrPersistence = errors.New("workout snapshot persistence failed", j.C("ERR_71d0a5e3c94b28f6"))
	ErrDuplicateID = errors.New("workout id already stored", j.C("ERR_e25b7f91a06c4d38"))
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "workouts"

// Store keeps workouts in insertion order. It is not safe for concurrent use.
type Store struct {
	medium  Medium
	key     string
	records []workout.Workout
	index   map[string]int
}

func New(medium Medium, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		medium: medium,
		key:    key,
		index:  map[string]int{},
	}
}

// Append adds w to the end of the sequence and persists the full snapshot.
// A persistence failure is returned but the record stays appended.
func (s *Store) Append(ctx context.Context, w workout.Workout) error {
	if _, exists := s.index[w.ID()]; exists {
		return errors.Wrap(ErrDuplicateID, "", j.MKV{"id": w.ID()})
	}

	s.records = append(s.records, w)
	s.index[w.ID()] = len(s.records) - 1

	return s.persist(ctx)
}

func (s *Store) FindByID(id string) (workout.Workout, bool) {
	i, ok := s.index[id]
	if !ok {
		return workout.Workout{}, false
	}
	return s.records[i], true
}

// All returns a copy of the current sequence.
func (s *Store) All() []workout.Workout {
	out := make([]workout.Workout, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	return len(s.records)
}

// Near returns the workouts within radiusKm of center, in stored order.
func (s *Store) Near(center geo.Coords, radiusKm float64) []workout.Workout {
	var out []workout.Workout
	for _, w := range s.records {
		if geo.DistanceKm(center, w.Coords()) <= radiusKm {
			out = append(out, w)
		}
	}
	return out
}

// LoadAll replaces the in-memory sequence with the persisted snapshot. A
// missing snapshot yields an empty store. An unreadable or malformed
// snapshot also leaves the store empty; the error is returned for reporting
// only and the store remains usable.
func (s *Store) LoadAll(ctx context.Context) ([]workout.Workout, error) {
	s.records = nil
	s.index = map[string]int{}

	payload, ok, err := s.medium.Load(ctx, s.key)
	if err != nil {
		return nil, errors.Wrap(ErrPersistence, err.Error(), j.MKV{"key": s.key})
	}
	if !ok {
		return nil, nil
	}

	records, err := workout.DecodeSnapshot(payload)
	if err != nil {
		return nil, err
	}

	s.records = records
	for i, w := range records {
		s.index[w.ID()] = i
	}
	return s.All(), nil
}

func (s *Store) persist(ctx context.Context) error {
	payload, err := workout.EncodeSnapshot(s.records)
	if err != nil {
		return errors.Wrap(ErrPersistence, err.Error())
	}
	if err := s.medium.Save(ctx, s.key, payload); err != nil {
		return errors.Wrap(ErrPersistence, err.Error(), j.MKV{"key": s.key})
	}
	return nil
}
