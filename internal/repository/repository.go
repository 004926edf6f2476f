package repository

import (
	"context"
	"database/sql"
	"time"

	"water_heater/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// StateRepo stores the last observed heater snapshot (single row).
type StateRepo interface {
	Save(ctx context.Context, s models.HeaterState) error
	Load(ctx context.Context) (models.HeaterState, error)
}

// EventRepo is the append-only heater log.
type EventRepo interface {
	Append(ctx context.Context, e models.HeaterEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.HeaterEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
