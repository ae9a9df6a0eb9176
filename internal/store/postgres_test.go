package store

import (
	"context"
	"testing"

	"backend-mapty/internal/shared/geo"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func london() geo.Coords {
	return geo.Coords{Lat: 51.5, Lng: -0.1}
}

func TestPostgresMediumSaveLoad(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO snapshots`).
		WithArgs("workouts", `[]`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectQuery(`SELECT payload::text FROM snapshots`).
		WithArgs("workouts").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(`[]`))

	m := NewPostgresMedium(mock)
	if err := m.Save(context.Background(), "workouts", []byte(`[]`)); err != nil {
		t.Fatalf("save: %v", err)
	}

	payload, ok, err := m.Load(context.Background(), "workouts")
	if err != nil || !ok || string(payload) != `[]` {
		t.Fatalf("load: %q ok=%v err=%v", payload, ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresMediumMissingKey(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`SELECT payload::text FROM snapshots`).
		WithArgs("workouts").
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := NewPostgresMedium(mock).Load(context.Background(), "workouts")
	if err != nil || ok {
		t.Fatalf("expected missing snapshot, ok=%v err=%v", ok, err)
	}
}

func TestPostgresMediumErrors(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO snapshots`).
		WithArgs("workouts", pgxmock.AnyArg()).
		WillReturnError(errMedium)
	mock.ExpectQuery(`SELECT payload::text FROM snapshots`).
		WithArgs("workouts").
		WillReturnError(errMedium)

	m := NewPostgresMedium(mock)
	if err := m.Save(context.Background(), "workouts", []byte(`[]`)); err == nil {
		t.Fatalf("expected save error")
	}
	if _, _, err := m.Load(context.Background(), "workouts"); err == nil {
		t.Fatalf("expected load error")
	}
}
