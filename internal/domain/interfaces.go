package domain

import (
	"context"
	"time"

	"fasilitas/internal/models"
)

// Store is the persistence contract consumed by the services. It stays dumb:
// overlap validation happens in the availability engine, never here.
type Store interface {
	// Catalog
	CreateResource(ctx context.Context, res *models.Resource) error
	GetResource(ctx context.Context, kind models.Kind, id int64) (*models.Resource, error)
	ListResourcesByKind(ctx context.Context, kind models.Kind) ([]models.Resource, error)
	UpdateResource(ctx context.Context, res *models.Resource) error
	DeleteResource(ctx context.Context, kind models.Kind, id int64) error
	SeedResources(ctx context.Context, resources []models.Resource) error

	// Reservations
	AddReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, kind models.Kind, id int64) (*models.Reservation, error)
	ListActiveByResource(ctx context.Context, kind models.Kind, resourceID int64) ([]models.Reservation, error)
	ListActiveByKind(ctx context.Context, kind models.Kind) ([]models.Reservation, error)
	ListReservations(ctx context.Context, kind models.Kind) ([]models.Record, error)
	ListReservationsByRequester(ctx context.Context, requesterID int64) ([]models.Record, error)
	SetReservationStatus(ctx context.Context, kind models.Kind, id int64, status string) error
	Statistics(ctx context.Context) (*models.Statistics, error)

	// Accounts
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	VerifyAccount(ctx context.Context, username, password string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ReplaceAccounts(ctx context.Context, accounts []models.Account) (int, error)
}

// Locker serializes the validate+insert window per resource. Acquire blocks
// until the key is free or ctx is done; ttl caps how long a crashed holder
// can keep the key.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// EventPublisher broadcasts lifecycle events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportScheduler asks for the report files to be rebuilt.
type ExportScheduler interface {
	EnqueueExport(ctx context.Context) error
}
