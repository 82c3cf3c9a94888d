// Package repo contains all database access logic for the TripWeaver API.
// No business logic lives here — only SQL and type mapping. Segments,
// travelers, destinations, and tags are stored as JSONB on the itinerary row
// because the itinerary is the aggregate: it is always loaded and saved
// whole, and the version column guards the whole document.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripweaver/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ItineraryRepo defines the persistence operations for itineraries.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type ItineraryRepo interface {
	// Create inserts a new itinerary and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// GetByID retrieves a single itinerary by its UUID primary key.
	// Returns domain.ErrNotFound if no itinerary with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)

	// ListPaged returns one page of itineraries ordered by created_at
	// descending, plus the total row count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error)

	// Update saves the full itinerary document if and only if the stored row
	// is still at expectedVersion (compare-and-swap). Returns
	// domain.ErrVersionConflict when the row exists at another version and
	// domain.ErrNotFound when it does not exist at all.
	Update(ctx context.Context, it domain.Itinerary, expectedVersion int64) (domain.Itinerary, error)

	// Delete removes an itinerary by ID. Returns domain.ErrNotFound if it
	// does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db db
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewItineraryRepo(db db) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryColumns = `id, version, title, start_date, end_date,
		destinations, travelers, segments, tags, created_at, updated_at`

func (r *pgItineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	const q = `
		INSERT INTO itineraries (version, title, start_date, end_date, destinations, travelers, segments, tags)
		VALUES (@version, @title, @start_date, @end_date, @destinations, @travelers, @segments, @tags)
		RETURNING ` + itineraryColumns

	args, err := itineraryArgs(it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanItinerary(row)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	const q = `
		SELECT ` + itineraryColumns + `
		FROM itineraries
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanItinerary(row)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgItineraryRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error) {
	const q = `
		SELECT ` + itineraryColumns + `, count(*) OVER () AS total
		FROM itineraries
		ORDER BY created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	var (
		items []domain.Itinerary
		total int64
	)
	for rows.Next() {
		it, n, err := scanItineraryWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: scan: %w", err)
		}
		items = append(items, it)
		total = n
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ItineraryRepo.ListPaged: rows: %w", err)
	}

	return items, total, nil
}

// Update is a compare-and-swap: the WHERE clause pins the version the caller
// loaded, so a concurrent writer makes this a no-op instead of a lost update.
func (r *pgItineraryRepo) Update(ctx context.Context, it domain.Itinerary, expectedVersion int64) (domain.Itinerary, error) {
	const q = `
		UPDATE itineraries
		SET version      = @version,
		    title        = @title,
		    start_date   = @start_date,
		    end_date     = @end_date,
		    destinations = @destinations,
		    travelers    = @travelers,
		    segments     = @segments,
		    tags         = @tags,
		    updated_at   = now()
		WHERE id = @id AND version = @expected_version
		RETURNING ` + itineraryColumns

	args, err := itineraryArgs(it)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", err)
	}
	args["id"] = it.ID
	args["expected_version"] = expectedVersion

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanItinerary(row)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", err)
	}

	// No row matched: distinguish "gone" from "someone else won the race".
	var exists bool
	checkErr := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM itineraries WHERE id = @id)`,
		pgx.NamedArgs{"id": it.ID},
	).Scan(&exists)
	if checkErr != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: existence check: %w", checkErr)
	}
	if exists {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", domain.ErrVersionConflict)
	}
	return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Update: %w", domain.ErrNotFound)
}

func (r *pgItineraryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM itineraries WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItineraryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// itineraryArgs builds the NamedArgs shared by Create and Update, marshaling
// the JSONB columns. Nil slices/maps are stored as empty JSON documents so
// round-trips never produce SQL NULLs.
func itineraryArgs(it domain.Itinerary) (pgx.NamedArgs, error) {
	destinations, err := json.Marshal(orEmptySlice(it.Destinations))
	if err != nil {
		return nil, fmt.Errorf("marshal destinations: %w", err)
	}
	travelers, err := json.Marshal(orEmptySlice(it.Travelers))
	if err != nil {
		return nil, fmt.Errorf("marshal travelers: %w", err)
	}
	segments, err := json.Marshal(orEmptySegments(it.Segments))
	if err != nil {
		return nil, fmt.Errorf("marshal segments: %w", err)
	}
	tags, err := json.Marshal(orEmptyMap(it.Tags))
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	return pgx.NamedArgs{
		"version":      it.Version,
		"title":        it.Title,
		"start_date":   it.StartDate, // nil becomes NULL
		"end_date":     it.EndDate,
		"destinations": destinations,
		"travelers":    travelers,
		"segments":     segments,
		"tags":         tags,
	}, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanItinerary
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanItinerary maps a single database row into a domain.Itinerary,
// handling the UUID, nullable date, and JSONB conversions.
func scanItinerary(s scanner) (domain.Itinerary, error) {
	it, _, err := scanItineraryColumns(s, false)
	return it, err
}

func scanItineraryWithTotal(s scanner) (domain.Itinerary, int64, error) {
	return scanItineraryColumns(s, true)
}

func scanItineraryColumns(s scanner, withTotal bool) (domain.Itinerary, int64, error) {
	var (
		it           domain.Itinerary
		id           pgtype.UUID
		startDate    pgtype.Date
		endDate      pgtype.Date
		destinations []byte
		travelers    []byte
		segments     []byte
		tags         []byte
		total        int64
	)

	dest := []any{&id, &it.Version, &it.Title, &startDate, &endDate,
		&destinations, &travelers, &segments, &tags, &it.CreatedAt, &it.UpdatedAt}
	if withTotal {
		dest = append(dest, &total)
	}

	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, 0, domain.ErrNotFound
		}
		return domain.Itinerary{}, 0, err
	}

	it.ID = uuid.UUID(id.Bytes)
	if startDate.Valid {
		sd := startDate.Time
		it.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		it.EndDate = &ed
	}

	if err := json.Unmarshal(destinations, &it.Destinations); err != nil {
		return domain.Itinerary{}, 0, fmt.Errorf("unmarshal destinations: %w", err)
	}
	if err := json.Unmarshal(travelers, &it.Travelers); err != nil {
		return domain.Itinerary{}, 0, fmt.Errorf("unmarshal travelers: %w", err)
	}
	if err := json.Unmarshal(segments, &it.Segments); err != nil {
		return domain.Itinerary{}, 0, fmt.Errorf("unmarshal segments: %w", err)
	}
	if err := json.Unmarshal(tags, &it.Tags); err != nil {
		return domain.Itinerary{}, 0, fmt.Errorf("unmarshal tags: %w", err)
	}

	return it, total, nil
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptySegments(s []domain.Segment) []domain.Segment {
	if s == nil {
		return []domain.Segment{}
	}
	return s
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
