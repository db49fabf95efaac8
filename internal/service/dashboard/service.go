package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type DashboardServicer interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
	Analytics(ctx context.Context, days int) (*model.Analytics, error)
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var resp model.ItemResponse[model.DashboardStats]
	if err := s.api.Get(ctx, "/admin/dashboard/stats", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) Analytics(ctx context.Context, days int) (*model.Analytics, error) {
	q := url.Values{"days": {strconv.Itoa(days)}}
	var resp model.ItemResponse[model.Analytics]
	if err := s.api.Get(ctx, "/admin/dashboard/analytics", q, &resp); err != nil {
		return nil, fmt.Errorf("failed to get analytics: %w", err)
	}
	return &resp.Data, nil
}
