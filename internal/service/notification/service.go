package notification

import (
	"context"
	"fmt"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type NotificationServicer interface {
	ListNotifications(ctx context.Context, params model.ListParams, filter model.NotificationFilter) (model.NotificationPage, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, notificationType string) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllRead(ctx context.Context) error
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListNotifications(ctx context.Context, params model.ListParams, filter model.NotificationFilter) (model.NotificationPage, error) {
	q := params.Values()
	model.SetIf(q, "isRead", filter.IsRead)
	model.SetIf(q, "type", filter.Type)
	model.SetIf(q, "priority", filter.Priority)

	var resp model.NotificationListResponse
	if err := s.api.Get(ctx, "/notifications", q, &resp); err != nil {
		return model.NotificationPage{}, fmt.Errorf("failed to list notifications: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	var resp model.UnreadCountResponse
	if err := s.api.Get(ctx, "/notifications/unread-count", nil, &resp); err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return resp.Count, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	if err := s.api.Put(ctx, "/notifications/"+id+"/read", nil, nil); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every notification read, or only those of notificationType.
func (s *Service) MarkAllRead(ctx context.Context, notificationType string) error {
	if err := s.api.Put(ctx, "/notifications/read-all", model.MarkAllReadRequest{Type: notificationType}, nil); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (s *Service) DeleteNotification(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/notifications/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *Service) DeleteAllRead(ctx context.Context) error {
	if err := s.api.Delete(ctx, "/notifications/read", nil); err != nil {
		return fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return nil
}
