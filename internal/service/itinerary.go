package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/repo"
)

// ItineraryService implements business logic for itinerary CRUD. Segment
// mutations live on SegmentService; this service only touches trip-level
// metadata.
type ItineraryService struct {
	repo repo.ItineraryRepo
}

// NewItineraryService constructs an ItineraryService backed by the provided repo.
func NewItineraryService(r repo.ItineraryRepo) *ItineraryService {
	return &ItineraryService{repo: r}
}

// Create validates and persists a new itinerary. The version counter starts
// at 1; callers cannot supply segments at creation time.
func (s *ItineraryService) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	if err := validateItinerary(it); err != nil {
		return domain.Itinerary{}, err
	}

	it.Version = 1
	it.Segments = nil

	result, err := s.repo.Create(ctx, it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single itinerary by ID.
func (s *ItineraryService) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of itineraries plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ItineraryService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
	items, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ItineraryService.ListPaged: %w", err)
	}
	if items == nil {
		items = []domain.Itinerary{}
	}
	return items, total, nil
}

// UpdateMeta overwrites the trip-level metadata of an itinerary (title,
// dates, destinations, travelers, tags) while preserving its segments.
// Like any mutation it bumps the version; a concurrent writer surfaces as
// domain.ErrVersionConflict from the compare-and-swap save.
func (s *ItineraryService) UpdateMeta(ctx context.Context, meta domain.Itinerary) (domain.Itinerary, error) {
	if err := validateItinerary(meta); err != nil {
		return domain.Itinerary{}, err
	}

	current, err := s.repo.GetByID(ctx, meta.ID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.UpdateMeta: %w", err)
	}

	updated := current
	updated.Title = meta.Title
	updated.StartDate = meta.StartDate
	updated.EndDate = meta.EndDate
	updated.Destinations = meta.Destinations
	updated.Travelers = meta.Travelers
	updated.Tags = meta.Tags
	updated.Version++

	result, err := s.repo.Update(ctx, updated, current.Version)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.ItineraryService.UpdateMeta: %w", err)
	}
	return result, nil
}

// Delete removes an itinerary by ID.
func (s *ItineraryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ItineraryService.Delete: %w", err)
	}
	return nil
}

// validateItinerary enforces trip-level rules common to Create and UpdateMeta.
//   - Title must be non-empty (whitespace-only titles are rejected).
//   - EndDate, if both dates are set, must not be before StartDate.
func validateItinerary(it domain.Itinerary) error {
	if strings.TrimSpace(it.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if it.StartDate != nil && it.EndDate != nil && it.EndDate.Before(*it.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
