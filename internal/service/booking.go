package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fasilitas/internal/database"
	"fasilitas/internal/domain"
	"fasilitas/internal/events"
	"fasilitas/internal/interval"
	"fasilitas/internal/metrics"
	"fasilitas/internal/models"
)

// CreateRequest carries everything needed to book a resource. StartTime and
// EndTime are required for rooms and vehicles and ignored for assets; EndDate
// is required for assets and optional for vehicles (defaults to StartDate).
type CreateRequest struct {
	Kind          models.Kind
	ResourceID    int64
	RequesterID   int64
	RequesterName string
	StartDate     time.Time
	EndDate       time.Time
	StartTime     string
	EndTime       string
	Destination   string
	Purpose       string
}

// BookingService owns the reservation lifecycle. The create path holds a
// per-resource lock across the availability recheck and the insert, so two
// racing requests for the same slot cannot both pass validation.
type BookingService struct {
	store        domain.Store
	availability *AvailabilityService
	locker       domain.Locker
	bus          domain.EventPublisher
	exports      domain.ExportScheduler
	logger       *zerolog.Logger
	lockTTL      time.Duration
}

func NewBookingService(
	store domain.Store,
	availability *AvailabilityService,
	locker domain.Locker,
	bus domain.EventPublisher,
	exports domain.ExportScheduler,
	logger *zerolog.Logger,
	lockTTL time.Duration,
) *BookingService {
	if lockTTL <= 0 {
		lockTTL = time.Duration(models.DefaultLockTTL) * time.Second
	}
	return &BookingService{
		store:        store,
		availability: availability,
		locker:       locker,
		bus:          bus,
		exports:      exports,
		logger:       logger,
		lockTTL:      lockTTL,
	}
}

// Create validates the request, confirms the slot is still free under the
// resource lock, and persists the reservation. Returns database.ErrNotFound
// when the resource or requester account does not exist, and
// database.ErrNotAvailable when the span conflicts with an active reservation.
func (s *BookingService) Create(ctx context.Context, req CreateRequest) (*models.Reservation, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	resource, err := s.store.GetResource(ctx, req.Kind, req.ResourceID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.RequesterName)
	if name == "" {
		account, err := s.store.GetAccountByID(ctx, req.RequesterID)
		if err != nil {
			return nil, fmt.Errorf("resolve requester %d: %w", req.RequesterID, err)
		}
		name = account.Name
	}

	lockKey := fmt.Sprintf("%s:%d", req.Kind, req.ResourceID)
	if err := s.locker.Acquire(ctx, lockKey, s.lockTTL); err != nil {
		return nil, fmt.Errorf("acquire lock for %s: %w", lockKey, err)
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn().Err(err).Str("key", lockKey).Msg("failed to release lock")
		}
	}()

	span := interval.Span{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	free, err := s.availability.CheckResource(ctx, req.Kind, req.ResourceID, span)
	if err != nil {
		return nil, err
	}
	if !free {
		metrics.IncConflict(req.Kind.String())
		return nil, fmt.Errorf("%s %q for %s: %w",
			req.Kind, resource.Name, interval.FormatDate(req.StartDate), database.ErrNotAvailable)
	}

	reservation := &models.Reservation{
		Kind:          req.Kind,
		ResourceID:    req.ResourceID,
		ResourceName:  resource.Name,
		RequesterID:   req.RequesterID,
		RequesterName: name,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Destination:   req.Destination,
		Purpose:       req.Purpose,
		Status:        models.StatusActive,
	}
	if err := s.store.AddReservation(ctx, reservation); err != nil {
		return nil, fmt.Errorf("add reservation: %w", err)
	}

	metrics.IncReservationCreated(req.Kind.String())
	s.logger.Info().
		Str("kind", req.Kind.String()).
		Int64("reservation_id", reservation.ID).
		Int64("resource_id", req.ResourceID).
		Str("requester", name).
		Msg("reservation created")

	s.publish(events.EventReservationCreated, reservation)
	s.scheduleExport(ctx)
	return reservation, nil
}

// Cancel moves an active reservation to cancelled. Cancelling an already
// cancelled reservation is a no-op; an unknown id returns
// database.ErrNotFound.
func (s *BookingService) Cancel(ctx context.Context, kind models.Kind, id int64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	reservation, err := s.store.GetReservation(ctx, kind, id)
	if err != nil {
		return err
	}
	if reservation.Status == models.StatusCancelled {
		return nil
	}

	if err := s.store.SetReservationStatus(ctx, kind, id, models.StatusCancelled); err != nil {
		return fmt.Errorf("cancel reservation %d: %w", id, err)
	}

	metrics.IncReservationCancelled(kind.String())
	s.logger.Info().
		Str("kind", kind.String()).
		Int64("reservation_id", id).
		Msg("reservation cancelled")

	reservation.Status = models.StatusCancelled
	s.publish(events.EventReservationCancelled, reservation)
	s.scheduleExport(ctx)
	return nil
}

// Get returns one reservation or database.ErrNotFound.
func (s *BookingService) Get(ctx context.Context, kind models.Kind, id int64) (*models.Reservation, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.store.GetReservation(ctx, kind, id)
}

// ListRecords returns the reporting view of all reservations of a kind,
// newest first, including cancelled rows.
func (s *BookingService) ListRecords(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return s.store.ListReservations(ctx, kind)
}

// ListByRequester returns all reservations placed by one account, across
// kinds, newest first.
func (s *BookingService) ListByRequester(ctx context.Context, requesterID int64) ([]models.Record, error) {
	return s.store.ListReservationsByRequester(ctx, requesterID)
}

// Statistics returns the dashboard aggregates.
func (s *BookingService) Statistics(ctx context.Context) (*models.Statistics, error) {
	return s.store.Statistics(ctx)
}

func (s *BookingService) validate(req *CreateRequest) error {
	if !req.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, req.Kind)
	}
	if req.ResourceID <= 0 {
		return fmt.Errorf("%w: resource id", ErrMissingField)
	}
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requester id", ErrMissingField)
	}
	if strings.TrimSpace(req.Purpose) == "" {
		return ErrEmptyPurpose
	}
	if req.StartDate.IsZero() {
		return fmt.Errorf("%w: start date", ErrMissingField)
	}

	switch req.Kind {
	case models.KindAsset:
		if req.EndDate.IsZero() {
			return fmt.Errorf("%w: end date", ErrMissingField)
		}
		if interval.Day(req.EndDate).Before(interval.Day(req.StartDate)) {
			return fmt.Errorf("%w: end date before start date", ErrInvalidInterval)
		}
		req.StartTime, req.EndTime = "", ""
	default:
		start, err := interval.ParseTime(req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}
		end, err := interval.ParseTime(req.EndTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}
		if start >= end {
			return fmt.Errorf("%w: start time %s not before end time %s", ErrInvalidInterval, start, end)
		}
		req.StartTime, req.EndTime = start, end
		if req.EndDate.IsZero() {
			req.EndDate = req.StartDate
		}
		if interval.Day(req.EndDate).Before(interval.Day(req.StartDate)) {
			return fmt.Errorf("%w: end date before start date", ErrInvalidInterval)
		}
	}
	return nil
}

func (s *BookingService) publish(eventType string, r *models.Reservation) {
	if s.bus == nil {
		return
	}
	payload := events.ReservationEventPayload{
		ReservationID: r.ID,
		Kind:          r.Kind,
		ResourceID:    r.ResourceID,
		ResourceName:  r.ResourceName,
		RequesterID:   r.RequesterID,
		RequesterName: r.RequesterName,
		Status:        r.Status,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Purpose:       r.Purpose,
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}

func (s *BookingService) scheduleExport(ctx context.Context) {
	if s.exports == nil {
		return
	}
	if err := s.exports.EnqueueExport(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to schedule export")
	}
}
