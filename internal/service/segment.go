// Package service contains the business logic for the TripWeaver API.
// Services validate inputs, enforce business rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/dedup"
	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/repo"
	"github.com/tripweaver/backend/internal/rules"
)

// AddResult is what a successful segment add returns: the full updated
// itinerary plus the added segment's own ID, so callers never have to fish
// the new segment out of the list (or worse, confuse it with the itinerary
// ID). Non-blocking rule outcomes ride along.
type AddResult struct {
	Itinerary      domain.Itinerary
	AddedSegmentID uuid.UUID
	Warnings       []rules.Note
	Infos          []rules.Note
}

// UpdateResult mirrors AddResult for segment updates.
type UpdateResult struct {
	Itinerary domain.Itinerary
	SegmentID uuid.UUID
	Warnings  []rules.Note
	Infos     []rules.Note
}

// Preview is the outcome of a dry-run validation: what would happen if the
// candidate were added, without mutating anything.
type Preview struct {
	Duplicate *dedup.Match
	Result    rules.Result
	TimeOfDay *rules.TimeAssessment
}

// SegmentService is the mutation entry point for segments. Every mutation
// follows the same shape: load → dedup → rules → copy-on-write mutate →
// version+1 → compare-and-swap save. Validation is pure, so a storage
// failure on save can never leave a half-mutated itinerary behind.
//
// Mutations on the same itinerary are serialized by a per-ID mutex; the repo
// CAS additionally protects against writers in other processes.
type SegmentService struct {
	repo   repo.ItineraryRepo
	engine *rules.Engine

	locks sync.Map // uuid.UUID -> *sync.Mutex
}

// NewSegmentService constructs a SegmentService backed by the provided repo
// and rule engine.
func NewSegmentService(r repo.ItineraryRepo, engine *rules.Engine) *SegmentService {
	return &SegmentService{repo: r, engine: engine}
}

// Add validates and appends a candidate segment to an itinerary.
// Returns domain.ErrNotFound if the itinerary does not exist,
// domain.ErrDuplicate (as *domain.ConflictError) if the candidate duplicates
// an existing segment, and domain.ErrValidation (as *domain.RuleViolationError
// or wrapped sentinel) if it violates a blocking rule.
func (s *SegmentService) Add(ctx context.Context, itineraryID uuid.UUID, seg domain.Segment) (AddResult, error) {
	unlock := s.lock(itineraryID)
	defer unlock()

	it, err := s.repo.GetByID(ctx, itineraryID)
	if err != nil {
		return AddResult{}, fmt.Errorf("service.SegmentService.Add: %w", err)
	}

	seg = applyDefaults(seg)
	if err := validateShape(seg); err != nil {
		return AddResult{}, err
	}

	if m := dedup.FindDuplicate(it.Segments, seg); m != nil {
		return AddResult{}, &domain.ConflictError{
			ExistingSegmentID: m.Existing.ID,
			Message:           m.Message,
		}
	}

	res := s.engine.ValidateAdd(it, seg)
	if !res.Valid {
		return AddResult{}, violationError(res)
	}

	updated := it.WithSegment(seg)
	updated.Version++
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Update(ctx, updated, it.Version)
	if err != nil {
		return AddResult{}, fmt.Errorf("service.SegmentService.Add: %w", err)
	}

	return AddResult{
		Itinerary:      saved,
		AddedSegmentID: seg.ID,
		Warnings:       res.Warnings,
		Infos:          res.Infos,
	}, nil
}

// Update validates and replaces an existing segment, excluding the segment
// being updated from dedup and overlap self-comparison. The segment keeps
// its ID regardless of what the patch carries.
func (s *SegmentService) Update(ctx context.Context, itineraryID, segmentID uuid.UUID, seg domain.Segment) (UpdateResult, error) {
	unlock := s.lock(itineraryID)
	defer unlock()

	it, err := s.repo.GetByID(ctx, itineraryID)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("service.SegmentService.Update: %w", err)
	}

	existing, ok := it.SegmentByID(segmentID)
	if !ok {
		return UpdateResult{}, fmt.Errorf("service.SegmentService.Update: segment: %w", domain.ErrNotFound)
	}

	seg.ID = segmentID
	if seg.Origin == "" {
		seg.Origin = existing.Origin
	}
	seg = applyDefaults(seg)
	if err := validateShape(seg); err != nil {
		return UpdateResult{}, err
	}

	if m := dedup.FindDuplicateExcluding(it.Segments, seg, segmentID); m != nil {
		return UpdateResult{}, &domain.ConflictError{
			ExistingSegmentID: m.Existing.ID,
			Message:           m.Message,
		}
	}

	res := s.engine.ValidateUpdate(it, segmentID, seg)
	if !res.Valid {
		return UpdateResult{}, violationError(res)
	}

	updated := it.WithSegmentReplaced(seg)
	updated.Version++
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Update(ctx, updated, it.Version)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("service.SegmentService.Update: %w", err)
	}

	return UpdateResult{
		Itinerary: saved,
		SegmentID: segmentID,
		Warnings:  res.Warnings,
		Infos:     res.Infos,
	}, nil
}

// Remove deletes a segment. Removal has no dedup or rule implications, but
// it is still a mutation: the version bumps and the save is version-checked.
func (s *SegmentService) Remove(ctx context.Context, itineraryID, segmentID uuid.UUID) (domain.Itinerary, error) {
	unlock := s.lock(itineraryID)
	defer unlock()

	it, err := s.repo.GetByID(ctx, itineraryID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.SegmentService.Remove: %w", err)
	}
	if _, ok := it.SegmentByID(segmentID); !ok {
		return domain.Itinerary{}, fmt.Errorf("service.SegmentService.Remove: segment: %w", domain.ErrNotFound)
	}

	updated := it.WithSegmentRemoved(segmentID)
	updated.Version++
	updated.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Update(ctx, updated, it.Version)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("service.SegmentService.Remove: %w", err)
	}
	return saved, nil
}

// Validate runs the full dedup + rule + time-of-day pipeline against a
// candidate without mutating anything.
func (s *SegmentService) Validate(ctx context.Context, itineraryID uuid.UUID, seg domain.Segment) (Preview, error) {
	it, err := s.repo.GetByID(ctx, itineraryID)
	if err != nil {
		return Preview{}, fmt.Errorf("service.SegmentService.Validate: %w", err)
	}

	seg = applyDefaults(seg)
	if err := validateShape(seg); err != nil {
		return Preview{}, err
	}

	return Preview{
		Duplicate: dedup.FindDuplicate(it.Segments, seg),
		Result:    s.engine.ValidateAdd(it, seg),
		TimeOfDay: rules.ClassifyStart(seg),
	}, nil
}

// lock acquires the per-itinerary mutex and returns its unlock func.
// Mutexes are created on first use and kept for the process lifetime; the
// set of itineraries touched by one process is small enough not to matter.
func (s *SegmentService) lock(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// applyDefaults assigns an ID when the caller did not supply one and fills
// status/origin defaults.
func applyDefaults(seg domain.Segment) domain.Segment {
	if seg.ID == uuid.Nil {
		seg.ID = uuid.New()
	}
	if seg.Status == "" {
		seg.Status = domain.StatusConfirmed
	}
	if seg.Origin == "" {
		seg.Origin = domain.OriginUser
	}
	return seg
}

// validateShape enforces the structural rules common to add and update:
// a known type, exactly one detail struct matching it, and the type's
// required identity fields. Range chronology is a business rule, not a
// shape check — it belongs to the engine.
func validateShape(seg domain.Segment) error {
	switch seg.Type {
	case domain.SegmentFlight, domain.SegmentHotel, domain.SegmentActivity,
		domain.SegmentTransfer, domain.SegmentMeeting, domain.SegmentCustom:
	default:
		return fmt.Errorf("%w: unknown segment type %q", domain.ErrValidation, seg.Type)
	}
	if !seg.DetailsMatchType() {
		return fmt.Errorf("%w: segment details do not match type %s", domain.ErrValidation, seg.Type)
	}

	switch seg.Type {
	case domain.SegmentFlight:
		if strings.TrimSpace(seg.Flight.FlightNumber) == "" {
			return fmt.Errorf("%w: flight number is required", domain.ErrValidation)
		}
	case domain.SegmentHotel:
		if strings.TrimSpace(seg.Hotel.PropertyName) == "" {
			return fmt.Errorf("%w: property name is required", domain.ErrValidation)
		}
	case domain.SegmentActivity:
		if strings.TrimSpace(seg.Activity.Name) == "" {
			return fmt.Errorf("%w: activity name is required", domain.ErrValidation)
		}
	case domain.SegmentTransfer:
		if strings.TrimSpace(seg.Transfer.TransferType) == "" ||
			strings.TrimSpace(seg.Transfer.Pickup) == "" ||
			strings.TrimSpace(seg.Transfer.Dropoff) == "" {
			return fmt.Errorf("%w: transfer type, pickup, and dropoff are required", domain.ErrValidation)
		}
	case domain.SegmentMeeting, domain.SegmentCustom:
		if strings.TrimSpace(seg.Meeting.Title) == "" {
			return fmt.Errorf("%w: title is required", domain.ErrValidation)
		}
	}
	return nil
}

// violationError converts an invalid rule result into a typed error.
func violationError(res rules.Result) error {
	v := res.Violation
	return &domain.RuleViolationError{
		RuleID:            v.RuleID,
		Message:           v.Message,
		Suggestion:        v.Suggestion,
		RelatedSegmentIDs: v.RelatedSegmentIDs,
	}
}
