// Package handler implements the HTTP surface of the trip gateway.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/session"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the upstream API.
type TripServicer interface {
	List(ctx context.Context, sess *session.Session, idToken string, spec domain.FilterSpec, page *int, pageSize int) ([]domain.Trip, domain.Pagination, error)
	Get(ctx context.Context, idToken string, id int) (domain.Trip, error)
	GetByToken(ctx context.Context, token string) (domain.Trip, error)
	Create(ctx context.Context, sess *session.Session, idToken string, params domain.CreateTripParams) (domain.Trip, error)
	Update(ctx context.Context, sess *session.Session, idToken string, id int, patch domain.TripPatch, image *domain.ImageFile) (domain.Trip, error)
	Delete(ctx context.Context, sess *session.Session, idToken string, id int) error
	DeleteDate(ctx context.Context, sess *session.Session, idToken string, id int, date string) (domain.Trip, error)
	Copy(ctx context.Context, sess *session.Session, idToken string, id int) (domain.Trip, error)
}

// SpotServicer defines the business operations the spot handlers depend on.
type SpotServicer interface {
	List(ctx context.Context, idToken string, tripID int) ([]domain.Spot, error)
	Create(ctx context.Context, idToken string, params domain.CreateSpotParams) (domain.Spot, error)
	Update(ctx context.Context, idToken string, tripID, spotID int, patch domain.SpotPatch) (domain.Spot, error)
	Delete(ctx context.Context, idToken string, tripID, spotID int) error
}

// UserServicer defines the business operations the user handlers depend on.
type UserServicer interface {
	Get(ctx context.Context, idToken, uid string) (domain.User, error)
	Create(ctx context.Context, idToken string, params domain.CreateUserParams) (domain.User, error)
	Update(ctx context.Context, idToken, uid string, patch domain.UserPatch, icon *domain.ImageFile) (domain.User, error)
	Delete(ctx context.Context, idToken, uid string) error
}

// Server holds the handler dependencies for all endpoints.
type Server struct {
	trips    TripServicer
	spots    SpotServicer
	users    UserServicer
	sessions *session.Store
	pageSize int
}

// NewServer constructs the Server with all its dependencies. pageSize is the
// number of trips per collection page.
func NewServer(trips TripServicer, spots SpotServicer, users UserServicer, sessions *session.Store, pageSize int) *Server {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &Server{trips: trips, spots: spots, users: users, sessions: sessions, pageSize: pageSize}
}

// Routes builds the route tree. auth guards everything except the health
// check and the public shared-trip view.
func (s *Server) Routes(auth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/shared/{tripToken}", s.handleGetSharedTrip)

	r.Group(func(pr chi.Router) {
		pr.Use(auth)

		pr.Route("/trips", func(tr chi.Router) {
			tr.Get("/", s.handleListTrips)
			tr.Post("/", s.handleCreateTrip)

			tr.Route("/{tripID}", func(ir chi.Router) {
				ir.Get("/", s.handleGetTrip)
				ir.Patch("/", s.handleUpdateTrip)
				ir.Delete("/", s.handleDeleteTrip)
				ir.Delete("/dates/{date}", s.handleDeleteTripDate)
				ir.Post("/copies", s.handleCopyTrip)

				ir.Route("/spots", func(sr chi.Router) {
					sr.Get("/", s.handleListSpots)
					sr.Post("/", s.handleCreateSpot)
					sr.Patch("/{spotID}", s.handleUpdateSpot)
					sr.Delete("/{spotID}", s.handleDeleteSpot)
				})
			})
		})

		pr.Route("/users", func(ur chi.Router) {
			ur.Post("/", s.handleCreateUser)
			ur.Get("/me", s.handleGetUser)
			ur.Patch("/me", s.handleUpdateUser)
			ur.Delete("/me", s.handleDeleteUser)
		})
	})

	return r
}
