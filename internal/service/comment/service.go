package comment

import (
	"context"
	"fmt"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type CommentServicer interface {
	ListComments(ctx context.Context, params model.ListParams, filter model.CommentFilter) (model.Page[model.Comment], error)
	ApproveComment(ctx context.Context, id string) error
	RejectComment(ctx context.Context, id string) error
	DeleteComment(ctx context.Context, id string) error
	BulkApprove(ctx context.Context, ids []string) error
	BulkReject(ctx context.Context, ids []string) error
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListComments(ctx context.Context, params model.ListParams, filter model.CommentFilter) (model.Page[model.Comment], error) {
	q := params.Values()
	model.SetIf(q, "status", filter.Status)

	var resp model.ListResponse[model.Comment]
	if err := s.api.Get(ctx, "/admin/comments", q, &resp); err != nil {
		return model.Page[model.Comment]{}, fmt.Errorf("failed to list comments: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) ApproveComment(ctx context.Context, id string) error {
	if err := s.api.Put(ctx, "/admin/comments/"+id+"/approve", nil, nil); err != nil {
		return fmt.Errorf("failed to approve comment: %w", err)
	}
	return nil
}

func (s *Service) RejectComment(ctx context.Context, id string) error {
	if err := s.api.Put(ctx, "/admin/comments/"+id+"/reject", nil, nil); err != nil {
		return fmt.Errorf("failed to reject comment: %w", err)
	}
	return nil
}

func (s *Service) DeleteComment(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/comments/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *Service) BulkApprove(ctx context.Context, ids []string) error {
	if err := s.api.Post(ctx, "/admin/comments/bulk-approve", model.BulkCommentsRequest{CommentIDs: ids}, nil); err != nil {
		return fmt.Errorf("failed to approve comments: %w", err)
	}
	return nil
}

func (s *Service) BulkReject(ctx context.Context, ids []string) error {
	if err := s.api.Post(ctx, "/admin/comments/bulk-reject", model.BulkCommentsRequest{CommentIDs: ids}, nil); err != nil {
		return fmt.Errorf("failed to reject comments: %w", err)
	}
	return nil
}
