package post

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type PostServicer interface {
	ListPosts(ctx context.Context, params model.ListParams, filter model.PostFilter) (model.Page[model.Post], error)
	ApprovePost(ctx context.Context, id, notes string) error
	RejectPost(ctx context.Context, id, reason string) error
	DeletePost(ctx context.Context, id string) error
	BulkApprove(ctx context.Context, ids []string, notes string) error
	BulkReject(ctx context.Context, ids []string, reason string) error
	ExportPosts(ctx context.Context, filter model.PostFilter) ([]byte, error)
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListPosts(ctx context.Context, params model.ListParams, filter model.PostFilter) (model.Page[model.Post], error) {
	q := params.Values()
	model.SetIf(q, "status", filter.Status)
	model.SetIf(q, "search", filter.Search)

	var resp model.ListResponse[model.Post]
	if err := s.api.Get(ctx, "/admin/posts", q, &resp); err != nil {
		return model.Page[model.Post]{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) ApprovePost(ctx context.Context, id, notes string) error {
	if err := s.api.Put(ctx, "/admin/posts/"+id+"/approve", model.ModerationRequest{Notes: notes}, nil); err != nil {
		return fmt.Errorf("failed to approve post: %w", err)
	}
	return nil
}

func (s *Service) RejectPost(ctx context.Context, id, reason string) error {
	if err := s.api.Put(ctx, "/admin/posts/"+id+"/reject", model.ModerationRequest{Reason: reason}, nil); err != nil {
		return fmt.Errorf("failed to reject post: %w", err)
	}
	return nil
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/admin/posts/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

func (s *Service) BulkApprove(ctx context.Context, ids []string, notes string) error {
	req := model.BulkPostsRequest{PostIDs: ids, Notes: notes}
	if err := s.api.Post(ctx, "/admin/posts/bulk-approve", req, nil); err != nil {
		return fmt.Errorf("failed to approve posts: %w", err)
	}
	return nil
}

func (s *Service) BulkReject(ctx context.Context, ids []string, reason string) error {
	req := model.BulkPostsRequest{PostIDs: ids, Reason: reason}
	if err := s.api.Post(ctx, "/admin/posts/bulk-reject", req, nil); err != nil {
		return fmt.Errorf("failed to reject posts: %w", err)
	}
	return nil
}

func (s *Service) ExportPosts(ctx context.Context, filter model.PostFilter) ([]byte, error) {
	q := url.Values{}
	model.SetIf(q, "status", filter.Status)
	return s.api.Download(ctx, "/admin/export/posts", q)
}
