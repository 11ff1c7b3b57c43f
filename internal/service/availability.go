package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"fasilitas/internal/domain"
	"fasilitas/internal/interval"
	"fasilitas/internal/metrics"
	"fasilitas/internal/models"
)

// AvailabilityService answers "what is free for this span" and "is this
// resource free for this span". Both questions run the same per-kind conflict
// rule so the booking path and the listing path can never disagree.
type AvailabilityService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewAvailabilityService(store domain.Store, logger *zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{store: store, logger: logger}
}

// FindAvailable returns the catalog entries of the given kind that are both
// usable (assets in good condition, vehicles marked available) and free of
// conflicting active reservations for the requested span. typeFilter narrows
// assets and vehicles by their type column; empty means all.
func (s *AvailabilityService) FindAvailable(ctx context.Context, kind models.Kind, span interval.Span, typeFilter string) ([]models.Resource, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	metrics.IncAvailabilityQuery(kind.String())

	resources, err := s.store.ListResourcesByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s resources: %w", kind, err)
	}

	active, err := s.store.ListActiveByKind(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list active %s reservations: %w", kind, err)
	}
	byResource := make(map[int64][]models.Reservation, len(resources))
	for _, r := range active {
		byResource[r.ResourceID] = append(byResource[r.ResourceID], r)
	}

	available := make([]models.Resource, 0, len(resources))
	for _, res := range resources {
		if !usable(kind, &res) {
			continue
		}
		if typeFilter != "" && res.Type != typeFilter {
			continue
		}
		if hasConflict(kind, span, byResource[res.ID]) {
			continue
		}
		available = append(available, res)
	}

	s.logger.Debug().
		Str("kind", kind.String()).
		Int("candidates", len(resources)).
		Int("available", len(available)).
		Msg("availability query")
	return available, nil
}

// CheckResource reports whether a single resource is free for the span. It is
// the commit-time recheck and must be called with the resource lock held.
func (s *AvailabilityService) CheckResource(ctx context.Context, kind models.Kind, resourceID int64, span interval.Span) (bool, error) {
	active, err := s.store.ListActiveByResource(ctx, kind, resourceID)
	if err != nil {
		return false, fmt.Errorf("list active reservations for %s %d: %w", kind, resourceID, err)
	}
	return !hasConflict(kind, span, active), nil
}

func hasConflict(kind models.Kind, span interval.Span, active []models.Reservation) bool {
	for i := range active {
		if conflicts(kind, span, active[i].Span()) {
			return true
		}
	}
	return false
}

// conflicts applies the kind's overlap rule. Rooms and vehicles collide only
// when the same start day carries overlapping half-open time ranges; assets
// collide whenever the inclusive borrow/return date spans touch.
func conflicts(kind models.Kind, a, b interval.Span) bool {
	switch kind {
	case models.KindAsset:
		return interval.DatesOverlap(a.StartDate, a.EndDate, b.StartDate, b.EndDate)
	default:
		return interval.SameDay(a.StartDate, b.StartDate) &&
			interval.TimesOverlap(a.StartTime, a.EndTime, b.StartTime, b.EndTime)
	}
}

// usable reports whether the catalog row may be offered at all, before any
// overlap check. Rooms are always offered regardless of status.
func usable(kind models.Kind, res *models.Resource) bool {
	switch kind {
	case models.KindAsset:
		return res.Condition == models.ConditionGood
	case models.KindVehicle:
		return res.Status == models.ResourceAvailable
	default:
		return true
	}
}
