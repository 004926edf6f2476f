package repository_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	"water_heater/internal/models"
	"water_heater/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

const stateColumns = "SELECT id, gateway, mode, temp_c, target_c, is_on, updated_at"

func newStateRepo(t *testing.T) (*repository.StateSQLite, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewStateSQLite(db), mock
}

func TestStateSQLite_Save_SetsUTCWhenTimeZero(t *testing.T) {
	repo, mock := newStateRepo(t)

	target := 55.0
	state := models.HeaterState{
		GatewayID:    "gw-1",
		Mode:         models.ModeBoost,
		CurrentTempC: 42.5,
		TargetTempC:  &target,
		IsOn:         true,
	}

	isUTCRecent := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		if !ok || tm.Location() != time.UTC {
			return false
		}
		now := time.Now().UTC()
		return !tm.Before(now.Add(-5*time.Second)) && !tm.After(now.Add(5*time.Second))
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO heater_state")).
		WithArgs(1, "gw-1", "BOOST", 42.5, 55.0, true, isUTCRecent).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_NilTargetIsNullAndTimeConvertedToUTC(t *testing.T) {
	repo, mock := newStateRepo(t)

	locTokyo, _ := time.LoadLocation("Asia/Tokyo")
	original := time.Date(2023, 10, 5, 12, 34, 56, 0, locTokyo)
	expectedUTC := original.UTC()

	state := models.HeaterState{
		Mode:         models.ModeGreen,
		CurrentTempC: 61,
		UpdatedAt:    original,
	}

	isExactUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		tm, ok := v.(time.Time)
		return ok && tm.Equal(expectedUTC) && tm.Location() == time.UTC
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO heater_state")).
		WithArgs(1, "", "GREEN", 61.0, nil, false, isExactUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Save_ExecErrorIsPropagated(t *testing.T) {
	repo, mock := newStateRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO heater_state")).
		WillReturnError(errors.New("db down"))

	if err := repo.Save(context.Background(), models.HeaterState{}); err == nil {
		t.Fatalf("Save() expected error, got nil")
	}
}

func TestStateSQLite_Load_NoRowsReturnsZeroValueAndNilError(t *testing.T) {
	repo, mock := newStateRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(stateColumns)).
		WithArgs(1).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	var zero models.HeaterState
	if !reflect.DeepEqual(got, zero) {
		t.Fatalf("Load() expected zero state, got: %+v", got)
	}
}

func TestStateSQLite_Load_HappyPath(t *testing.T) {
	repo, mock := newStateRepo(t)

	cols := []string{"id", "gateway", "mode", "temp_c", "target_c", "is_on", "updated_at"}
	locNY, _ := time.LoadLocation("America/New_York")
	nonUTC := time.Date(2024, 2, 1, 8, 30, 0, 0, locNY)

	mock.ExpectQuery(regexp.QuoteMeta(stateColumns)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "gw-1", "BOOST", 48.0, 70.0, true, nonUTC))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.ID != 1 || got.GatewayID != "gw-1" || got.Mode != models.ModeBoost || got.CurrentTempC != 48.0 || !got.IsOn {
		t.Fatalf("Load() unexpected fields: %+v", got)
	}
	if got.TargetTempC == nil || *got.TargetTempC != 70.0 {
		t.Fatalf("Load() target mismatch: %v", got.TargetTempC)
	}
	if got.UpdatedAt.Location() != time.UTC {
		t.Fatalf("Load() UpdatedAt not UTC: %v", got.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStateSQLite_Load_NullTargetStaysNil(t *testing.T) {
	repo, mock := newStateRepo(t)

	cols := []string{"id", "gateway", "mode", "temp_c", "target_c", "is_on", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta(stateColumns)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "gw-1", "GREEN", 40.0, nil, true, time.Now()))

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.TargetTempC != nil {
		t.Fatalf("expected nil target, got %v", *got.TargetTempC)
	}
}

func TestStateSQLite_Load_UnknownModeReturnsError(t *testing.T) {
	repo, mock := newStateRepo(t)

	cols := []string{"id", "gateway", "mode", "temp_c", "target_c", "is_on", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta(stateColumns)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "gw-1", "TURBO", 40.0, nil, true, time.Now()))

	if _, err := repo.Load(context.Background()); err == nil {
		t.Fatalf("Load() expected error for unknown mode")
	}
}

type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool {
	return f(v)
}
