// Package handler implements the HTTP handlers for the TripWeaver API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (itinerary.go, segment.go, toolcall.go, health.go) but all share the
// same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripweaver/backend/internal/domain"
	"github.com/tripweaver/backend/internal/service"
	"github.com/tripweaver/backend/internal/toolcall"
	"github.com/tripweaver/backend/spec"
)

// ItineraryServicer defines the business operations the itinerary handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type ItineraryServicer interface {
	Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Itinerary, int64, error)
	UpdateMeta(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SegmentServicer defines the segment mutation operations the handlers
// depend on.
type SegmentServicer interface {
	Add(ctx context.Context, itineraryID uuid.UUID, seg domain.Segment) (service.AddResult, error)
	Update(ctx context.Context, itineraryID, segmentID uuid.UUID, seg domain.Segment) (service.UpdateResult, error)
	Remove(ctx context.Context, itineraryID, segmentID uuid.UUID) (domain.Itinerary, error)
	Validate(ctx context.Context, itineraryID uuid.UUID, seg domain.Segment) (service.Preview, error)
}

// ToolDispatcher executes one assistant tool call against an itinerary.
type ToolDispatcher interface {
	Execute(ctx context.Context, itineraryID uuid.UUID, call toolcall.Call) toolcall.Result
}

// Server holds the handler dependencies. Methods live in domain-specific
// files but all operate on this struct.
type Server struct {
	itineraries ItineraryServicer
	segments    SegmentServicer
	tools       ToolDispatcher
}

// NewServer constructs the Server with all its dependencies.
func NewServer(itineraries ItineraryServicer, segments SegmentServicer, tools ToolDispatcher) *Server {
	return &Server{itineraries: itineraries, segments: segments, tools: tools}
}

// Routes mounts every endpoint on a fresh chi router. Middleware is applied
// by the caller (main.go) so tests get a bare router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	r.Route("/itineraries", func(r chi.Router) {
		r.Post("/", s.CreateItinerary)
		r.Get("/", s.ListItineraries)
		r.Route("/{itineraryID}", func(r chi.Router) {
			r.Get("/", s.GetItinerary)
			r.Put("/", s.UpdateItinerary)
			r.Delete("/", s.DeleteItinerary)
			r.Get("/context", s.GetTripContext)
			r.Post("/tool-calls", s.ExecuteToolCall)
			r.Route("/segments", func(r chi.Router) {
				r.Get("/", s.ListSegments)
				r.Post("/", s.AddSegment)
				r.Post("/validate", s.ValidateSegment)
				r.Put("/{segmentID}", s.UpdateSegment)
				r.Delete("/{segmentID}", s.DeleteSegment)
			})
		})
	})

	return r
}

// urlUUID parses a UUID path parameter, returning false after writing a 404
// when the value is malformed. A malformed ID can never name a resource, so
// 404 matches what a lookup would have produced.
func urlUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", param+" is not a valid ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
