package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/repo"
	"github.com/tripweaver/backend/internal/service"
)

// ---- mock repo ---------------------------------------------------------------

// mockItineraryRepo is a hand-written test double for repo.ItineraryRepo.
// Set only the method fields your test needs.
type mockItineraryRepo struct {
	create    func(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error)
	update    func(ctx context.Context, it domain.Itinerary, expectedVersion int64) (domain.Itinerary, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockItineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	return m.create(ctx, it)
}
func (m *mockItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	return m.getByID(ctx, id)
}
func (m *mockItineraryRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockItineraryRepo) Update(ctx context.Context, it domain.Itinerary, expectedVersion int64) (domain.Itinerary, error) {
	return m.update(ctx, it, expectedVersion)
}
func (m *mockItineraryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockItineraryRepo must satisfy repo.ItineraryRepo.
var _ repo.ItineraryRepo = (*mockItineraryRepo)(nil)

// ---- helpers -------------------------------------------------------------------

func validItinerary() domain.Itinerary {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	return domain.Itinerary{
		Title:     "Summer Trip",
		StartDate: &start,
		EndDate:   &end,
		Travelers: []string{"alice", "bob"},
	}
}

// ---- Create ----------------------------------------------------------------------

func TestItineraryService_Create_OK(t *testing.T) {
	var captured domain.Itinerary
	svc := service.NewItineraryService(&mockItineraryRepo{
		create: func(_ context.Context, it domain.Itinerary) (domain.Itinerary, error) {
			captured = it
			it.ID = uuid.New()
			return it, nil
		},
	})

	got, err := svc.Create(context.Background(), validItinerary())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, int64(1), captured.Version)
	assert.Nil(t, captured.Segments)
}

func TestItineraryService_Create_StripsCallerSegments(t *testing.T) {
	input := validItinerary()
	input.Segments = []domain.Segment{{ID: uuid.New(), Type: domain.SegmentCustom}}

	svc := service.NewItineraryService(&mockItineraryRepo{
		create: func(_ context.Context, it domain.Itinerary) (domain.Itinerary, error) {
			assert.Nil(t, it.Segments)
			return it, nil
		},
	})

	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
}

func TestItineraryService_Create_TitleRequired(t *testing.T) {
	svc := service.NewItineraryService(&mockItineraryRepo{})

	input := validItinerary()
	input.Title = "   "

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItineraryService_Create_EndBeforeStart(t *testing.T) {
	svc := service.NewItineraryService(&mockItineraryRepo{})

	input := validItinerary()
	earlier := input.StartDate.Add(-24 * time.Hour)
	input.EndDate = &earlier

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestItineraryService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	svc := service.NewItineraryService(&mockItineraryRepo{
		create: func(_ context.Context, _ domain.Itinerary) (domain.Itinerary, error) {
			return domain.Itinerary{}, repoErr
		},
	})

	_, err := svc.Create(context.Background(), validItinerary())
	assert.ErrorIs(t, err, repoErr)
}

// ---- GetByID -----------------------------------------------------------------------

func TestItineraryService_GetByID_NotFound(t *testing.T) {
	svc := service.NewItineraryService(&mockItineraryRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Itinerary, error) {
			return domain.Itinerary{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- ListPaged -----------------------------------------------------------------------

func TestItineraryService_ListPaged_ReturnsEmptySlice(t *testing.T) {
	svc := service.NewItineraryService(&mockItineraryRepo{
		listPaged: func(_ context.Context, _ domain.PaginationParams) ([]domain.Itinerary, int64, error) {
			return nil, 0, nil
		},
	})

	got, total, err := svc.ListPaged(context.Background(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

// ---- UpdateMeta -----------------------------------------------------------------------

func TestItineraryService_UpdateMeta_PreservesSegmentsAndBumpsVersion(t *testing.T) {
	id := uuid.New()
	seg := domain.Segment{ID: uuid.New(), Type: domain.SegmentCustom,
		Meeting: &domain.MeetingDetails{Title: "Packing"}}
	current := validItinerary()
	current.ID = id
	current.Version = 3
	current.Segments = []domain.Segment{seg}

	var savedVersion int64
	var expectedVersion int64
	svc := service.NewItineraryService(&mockItineraryRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Itinerary, error) {
			return current, nil
		},
		update: func(_ context.Context, it domain.Itinerary, expected int64) (domain.Itinerary, error) {
			savedVersion = it.Version
			expectedVersion = expected
			assert.Len(t, it.Segments, 1)
			return it, nil
		},
	})

	meta := validItinerary()
	meta.ID = id
	meta.Title = "Renamed Trip"

	got, err := svc.UpdateMeta(context.Background(), meta)

	require.NoError(t, err)
	assert.Equal(t, "Renamed Trip", got.Title)
	assert.Equal(t, int64(4), savedVersion)
	assert.Equal(t, int64(3), expectedVersion)
}

func TestItineraryService_UpdateMeta_VersionConflict(t *testing.T) {
	current := validItinerary()
	current.ID = uuid.New()
	current.Version = 3

	svc := service.NewItineraryService(&mockItineraryRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Itinerary, error) {
			return current, nil
		},
		update: func(_ context.Context, _ domain.Itinerary, _ int64) (domain.Itinerary, error) {
			return domain.Itinerary{}, domain.ErrVersionConflict
		},
	})

	meta := validItinerary()
	meta.ID = current.ID

	_, err := svc.UpdateMeta(context.Background(), meta)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
}

func TestItineraryService_UpdateMeta_ValidationFails(t *testing.T) {
	svc := service.NewItineraryService(&mockItineraryRepo{})

	meta := validItinerary()
	meta.Title = ""

	_, err := svc.UpdateMeta(context.Background(), meta)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete --------------------------------------------------------------------------

func TestItineraryService_Delete_OK(t *testing.T) {
	svc := service.NewItineraryService(&mockItineraryRepo{
		delete: func(_ context.Context, _ uuid.UUID) error { return nil },
	})

	require.NoError(t, svc.Delete(context.Background(), uuid.New()))
}

func TestItineraryService_Delete_NotFound(t *testing.T) {
	svc := service.NewItineraryService(&mockItineraryRepo{
		delete: func(_ context.Context, _ uuid.UUID) error { return domain.ErrNotFound },
	})

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
