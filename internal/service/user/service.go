package user

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type UserServicer interface {
	ListUsers(ctx context.Context, params model.ListParams, filter model.UserFilter) (model.Page[model.User], error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	BlockUser(ctx context.Context, id string) error
	UnblockUser(ctx context.Context, id string) error
	BulkBlock(ctx context.Context, ids []string) error
	BulkUnblock(ctx context.Context, ids []string) error
	ExportUsers(ctx context.Context, filter model.UserFilter) ([]byte, error)
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListUsers(ctx context.Context, params model.ListParams, filter model.UserFilter) (model.Page[model.User], error) {
	q := params.Values()
	model.SetIf(q, "role", filter.Role)
	model.SetIf(q, "search", filter.Search)
	model.SetIf(q, "blocked", filter.Blocked)

	var resp model.ListResponse[model.User]
	if err := s.api.Get(ctx, "/admin/users", q, &resp); err != nil {
		return model.Page[model.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	var resp model.ItemResponse[model.User]
	if err := s.api.Get(ctx, "/admin/users/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	var resp model.ItemResponse[model.User]
	if err := s.api.Put(ctx, "/admin/users/"+id, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/users/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *Service) BlockUser(ctx context.Context, id string) error {
	if err := s.api.Put(ctx, "/admin/users/"+id+"/block", nil, nil); err != nil {
		return fmt.Errorf("failed to block user: %w", err)
	}
	return nil
}

func (s *Service) UnblockUser(ctx context.Context, id string) error {
	if err := s.api.Put(ctx, "/admin/users/"+id+"/unblock", nil, nil); err != nil {
		return fmt.Errorf("failed to unblock user: %w", err)
	}
	return nil
}

func (s *Service) BulkBlock(ctx context.Context, ids []string) error {
	if err := s.api.Post(ctx, "/admin/users/bulk-block", model.BulkUsersRequest{UserIDs: ids}, nil); err != nil {
		return fmt.Errorf("failed to block users: %w", err)
	}
	return nil
}

func (s *Service) BulkUnblock(ctx context.Context, ids []string) error {
	if err := s.api.Post(ctx, "/admin/users/bulk-unblock", model.BulkUsersRequest{UserIDs: ids}, nil); err != nil {
		return fmt.Errorf("failed to unblock users: %w", err)
	}
	return nil
}

// ExportUsers returns the CSV export of the filtered users as sent by the API.
func (s *Service) ExportUsers(ctx context.Context, filter model.UserFilter) ([]byte, error) {
	q := url.Values{}
	model.SetIf(q, "role", filter.Role)
	model.SetIf(q, "blocked", filter.Blocked)
	return s.api.Download(ctx, "/admin/export/users", q)
}
