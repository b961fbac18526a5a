package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/hayabusatrip/gateway/internal/apiclient"
	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/notify"
	"github.com/hayabusatrip/gateway/internal/session"
)

// UserService implements business logic for account records.
type UserService struct {
	api      apiclient.UserAPI
	sessions *session.Store
	notifier notify.Notifier
}

// NewUserService constructs a UserService. sessions is needed so that
// deleting an account also discards its cached trip collection.
func NewUserService(api apiclient.UserAPI, sessions *session.Store, notifier notify.Notifier) *UserService {
	return &UserService{api: api, sessions: sessions, notifier: notifier}
}

// Get returns the account record for uid.
func (s *UserService) Get(ctx context.Context, idToken, uid string) (domain.User, error) {
	u, err := s.api.GetUser(ctx, idToken, uid)
	if err != nil {
		s.report(err)
		return domain.User{}, fmt.Errorf("service.UserService.Get: %w", err)
	}
	return u, nil
}

// Create registers an account record for a freshly authenticated subject.
func (s *UserService) Create(ctx context.Context, idToken string, params domain.CreateUserParams) (domain.User, error) {
	if strings.TrimSpace(params.UID) == "" {
		return domain.User{}, fmt.Errorf("%w: uid is required", domain.ErrValidation)
	}
	if strings.TrimSpace(params.Name) == "" {
		return domain.User{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	u, err := s.api.CreateUser(ctx, idToken, params)
	if err != nil {
		s.report(err)
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	return u, nil
}

// Update applies a partial update, optionally with a new icon image.
func (s *UserService) Update(ctx context.Context, idToken, uid string, patch domain.UserPatch, icon *domain.ImageFile) (domain.User, error) {
	if patch.IsZero() && icon == nil {
		return domain.User{}, fmt.Errorf("%w: empty update", domain.ErrValidation)
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return domain.User{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	u, err := s.api.UpdateUser(ctx, idToken, uid, patch, icon)
	if err != nil {
		s.report(err)
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	return u, nil
}

// Delete removes the account record and discards the cached session state.
func (s *UserService) Delete(ctx context.Context, idToken, uid string) error {
	if err := s.api.DeleteUser(ctx, idToken, uid); err != nil {
		s.report(err)
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	s.sessions.Drop(uid)
	return nil
}

func (s *UserService) report(err error) {
	s.notifier.Notify(notify.SeverityError, domain.UserMessage(err))
}
