package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"fasilitas/internal/domain"
	"fasilitas/internal/events"
	"fasilitas/internal/models"
)

// CatalogService manages the bookable inventory. Deleting a resource never
// touches its reservations; history keeps the name snapshot instead.
type CatalogService struct {
	store  domain.Store
	bus    domain.EventPublisher
	logger *zerolog.Logger
}

func NewCatalogService(store domain.Store, bus domain.EventPublisher, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{store: store, bus: bus, logger: logger}
}

// ListByKind returns the full catalog of one kind, including entries that are
// currently unusable, ordered by id.
func (s *CatalogService) ListByKind(ctx context.Context, kind models.Kind) ([]models.Resource, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.store.ListResourcesByKind(ctx, kind)
}

// Get returns one catalog entry or database.ErrNotFound.
func (s *CatalogService) Get(ctx context.Context, kind models.Kind, id int64) (*models.Resource, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.store.GetResource(ctx, kind, id)
}

// Create adds a catalog entry. Status defaults to available; asset condition
// defaults to good.
func (s *CatalogService) Create(ctx context.Context, res *models.Resource) error {
	if err := validateResource(res); err != nil {
		return err
	}
	if err := s.store.CreateResource(ctx, res); err != nil {
		return fmt.Errorf("create %s: %w", res.Kind, err)
	}
	s.logger.Info().
		Str("kind", res.Kind.String()).
		Int64("resource_id", res.ID).
		Str("name", res.Name).
		Msg("resource created")
	return nil
}

// Update replaces the mutable columns of a catalog entry.
func (s *CatalogService) Update(ctx context.Context, res *models.Resource) error {
	if err := validateResource(res); err != nil {
		return err
	}
	if res.ID <= 0 {
		return fmt.Errorf("%w: resource id", ErrMissingField)
	}
	if err := s.store.UpdateResource(ctx, res); err != nil {
		return err
	}
	s.logger.Info().
		Str("kind", res.Kind.String()).
		Int64("resource_id", res.ID).
		Msg("resource updated")
	return nil
}

// Delete removes a catalog entry. Existing reservations stay untouched and
// keep reporting through their stored name snapshot.
func (s *CatalogService) Delete(ctx context.Context, kind models.Kind, id int64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	resource, err := s.store.GetResource(ctx, kind, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteResource(ctx, kind, id); err != nil {
		return err
	}
	s.logger.Info().
		Str("kind", kind.String()).
		Int64("resource_id", id).
		Msg("resource deleted")
	if s.bus != nil {
		payload := events.ResourceEventPayload{ResourceID: id, Kind: kind, Name: resource.Name}
		if err := s.bus.PublishJSON(events.EventResourceDeleted, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish event")
		}
	}
	return nil
}

// Seed loads the configured catalog into any kind whose table section is
// still empty. Kinds that already have rows are left alone, so restarts do
// not duplicate inventory.
func (s *CatalogService) Seed(ctx context.Context, resources []models.Resource) error {
	for i := range resources {
		if err := validateResource(&resources[i]); err != nil {
			return fmt.Errorf("seed entry %d: %w", i, err)
		}
	}
	if err := s.store.SeedResources(ctx, resources); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	s.logger.Info().Int("entries", len(resources)).Msg("catalog seeded")
	return nil
}

func validateResource(res *models.Resource) error {
	if !res.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, res.Kind)
	}
	if strings.TrimSpace(res.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	if res.Kind == models.KindRoom && res.Capacity < 0 {
		return fmt.Errorf("%w: negative capacity", ErrMissingField)
	}
	return nil
}
