package chat

import (
	"context"
	"fmt"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type ChatServicer interface {
	ListRooms(ctx context.Context, params model.ListParams) (model.Page[model.ChatRoom], error)
	CreateRoom(ctx context.Context, req model.CreateRoomRequest) (*model.ChatRoom, error)
	DeleteRoom(ctx context.Context, id string) error
	ListMessages(ctx context.Context, params model.ListParams, filter model.ChatMessageFilter) (model.Page[model.ChatMessage], error)
	ListFlagged(ctx context.Context, params model.ListParams) (model.Page[model.ChatMessage], error)
	DeleteMessage(ctx context.Context, id string) error
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListRooms(ctx context.Context, params model.ListParams) (model.Page[model.ChatRoom], error) {
	var resp model.ListResponse[model.ChatRoom]
	if err := s.api.Get(ctx, "/admin/chat/rooms", params.Values(), &resp); err != nil {
		return model.Page[model.ChatRoom]{}, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) CreateRoom(ctx context.Context, req model.CreateRoomRequest) (*model.ChatRoom, error) {
	var resp model.ItemResponse[model.ChatRoom]
	if err := s.api.Post(ctx, "/admin/chat/rooms", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create chat room: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/chat/rooms/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete chat room: %w", err)
	}
	return nil
}

func (s *Service) ListMessages(ctx context.Context, params model.ListParams, filter model.ChatMessageFilter) (model.Page[model.ChatMessage], error) {
	q := params.Values()
	model.SetIf(q, "roomId", filter.RoomID)
	model.SetIf(q, "flagged", filter.Flagged)

	var resp model.ListResponse[model.ChatMessage]
	if err := s.api.Get(ctx, "/admin/chat/messages", q, &resp); err != nil {
		return model.Page[model.ChatMessage]{}, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) ListFlagged(ctx context.Context, params model.ListParams) (model.Page[model.ChatMessage], error) {
	var resp model.ListResponse[model.ChatMessage]
	if err := s.api.Get(ctx, "/admin/chat/flagged", params.Values(), &resp); err != nil {
		return model.Page[model.ChatMessage]{}, fmt.Errorf("failed to list flagged messages: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/chat/messages/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete chat message: %w", err)
	}
	return nil
}
