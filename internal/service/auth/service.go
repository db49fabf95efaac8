package auth

import (
	"context"
	"fmt"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/session"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

// ErrNotAdmin is returned when the API accepted the credentials but the
// account is not an administrator. Nothing is persisted in that case.
var ErrNotAdmin = &errors.AppError{Code: errors.ErrForbidden, Message: "admin access required"}

type Service struct {
	api     apiclient.Doer
	session *session.Manager
}

func NewService(api apiclient.Doer, sess *session.Manager) *Service {
	return &Service{api: api, session: sess}
}

// Login exchanges credentials for a token and persists the session when
// the account is an admin.
func (s *Service) Login(ctx context.Context, email, password string) (*model.CurrentUser, error) {
	var resp model.LoginResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := s.api.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.Token == "" || resp.User == nil || !resp.User.IsAdmin() {
		return nil, ErrNotAdmin
	}
	if err := s.session.Save(ctx, resp.Token, *resp.User); err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to persist session: %w", err))
	}
	return resp.User, nil
}

func (s *Service) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

func (s *Service) CurrentUser(ctx context.Context) (*model.CurrentUser, error) {
	return s.session.CurrentUser(ctx)
}

func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.session.IsAuthenticated(ctx)
}
