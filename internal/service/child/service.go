package child

import (
	"context"
	"fmt"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type ChildServicer interface {
	ListChildren(ctx context.Context, params model.ListParams) (model.Page[model.Child], error)
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListChildren(ctx context.Context, params model.ListParams) (model.Page[model.Child], error) {
	var resp model.ListResponse[model.Child]
	if err := s.api.Get(ctx, "/admin/children", params.Values(), &resp); err != nil {
		return model.Page[model.Child]{}, fmt.Errorf("failed to list children: %w", err)
	}
	return resp.Page(), nil
}
