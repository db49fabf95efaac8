package subscription

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

const planVisibilityPath = "/admin/subscriptions/plan-visibility"

type SubscriptionServicer interface {
	ListSubscriptions(ctx context.Context, params model.ListParams, filter model.SubscriptionFilter) (model.Page[model.Subscription], error)
	Stats(ctx context.Context) (*model.SubscriptionStats, error)
	UserSubscriptions(ctx context.Context, userID string) (*model.UserSubscriptions, error)
	Assign(ctx context.Context, req model.AssignSubscriptionRequest) (*model.Subscription, error)
	Update(ctx context.Context, id string, req model.UpdateSubscriptionRequest) (*model.Subscription, error)
	Cancel(ctx context.Context, id, reason string) (*model.Subscription, error)

	ListPlanVisibility(ctx context.Context, userType string) ([]model.PlanVisibility, error)
	CreatePlanVisibility(ctx context.Context, req model.CreatePlanVisibilityRequest) (*model.PlanVisibility, error)
	UpdatePlanVisibility(ctx context.Context, id string, req model.UpdatePlanVisibilityRequest) (*model.PlanVisibility, error)
	InitPlanVisibility(ctx context.Context) error
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

// ListSubscriptions pages with skip/limit; the page number is converted here.
func (s *Service) ListSubscriptions(ctx context.Context, params model.ListParams, filter model.SubscriptionFilter) (model.Page[model.Subscription], error) {
	params = params.Normalize()
	q := url.Values{
		"limit": {strconv.Itoa(params.Limit)},
		"skip":  {strconv.Itoa((params.Page - 1) * params.Limit)},
	}
	setFilter(q, "status", filter.Status)
	setFilter(q, "userType", filter.UserType)
	setFilter(q, "plan", filter.Plan)

	var resp model.SubscriptionListResponse
	if err := s.api.Get(ctx, "/admin/subscriptions", q, &resp); err != nil {
		return model.Page[model.Subscription]{}, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return resp.Page(), nil
}

// setFilter skips the "all" sentinel the page uses for an unset filter.
func setFilter(q url.Values, key, value string) {
	if value != "all" {
		model.SetIf(q, key, value)
	}
}

func (s *Service) Stats(ctx context.Context) (*model.SubscriptionStats, error) {
	var resp model.ItemResponse[model.SubscriptionStats]
	if err := s.api.Get(ctx, "/admin/subscriptions/stats", nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get subscription stats: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) UserSubscriptions(ctx context.Context, userID string) (*model.UserSubscriptions, error) {
	var resp model.ItemResponse[model.UserSubscriptions]
	if err := s.api.Get(ctx, "/admin/subscriptions/user/"+userID, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get user subscriptions: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) Assign(ctx context.Context, req model.AssignSubscriptionRequest) (*model.Subscription, error) {
	var resp model.ItemResponse[model.Subscription]
	if err := s.api.Post(ctx, "/admin/subscriptions/assign", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to assign subscription: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) Update(ctx context.Context, id string, req model.UpdateSubscriptionRequest) (*model.Subscription, error) {
	var resp model.ItemResponse[model.Subscription]
	if err := s.api.Put(ctx, "/admin/subscriptions/"+id, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) Cancel(ctx context.Context, id, reason string) (*model.Subscription, error) {
	var resp model.ItemResponse[model.Subscription]
	req := model.CancelSubscriptionRequest{Reason: reason}
	if err := s.api.Post(ctx, "/admin/subscriptions/"+id+"/cancel", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) ListPlanVisibility(ctx context.Context, userType string) ([]model.PlanVisibility, error) {
	q := url.Values{}
	model.SetIf(q, "userType", userType)

	var resp model.ItemResponse[[]model.PlanVisibility]
	if err := s.api.Get(ctx, planVisibilityPath, q, &resp); err != nil {
		return nil, fmt.Errorf("failed to list plan visibility: %w", err)
	}
	if resp.Data == nil {
		return []model.PlanVisibility{}, nil
	}
	return resp.Data, nil
}

func (s *Service) CreatePlanVisibility(ctx context.Context, req model.CreatePlanVisibilityRequest) (*model.PlanVisibility, error) {
	var resp model.ItemResponse[model.PlanVisibility]
	if err := s.api.Post(ctx, planVisibilityPath, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create plan visibility: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) UpdatePlanVisibility(ctx context.Context, id string, req model.UpdatePlanVisibilityRequest) (*model.PlanVisibility, error) {
	var resp model.ItemResponse[model.PlanVisibility]
	if err := s.api.Put(ctx, planVisibilityPath+"/"+id, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to update plan visibility: %w", err)
	}
	return &resp.Data, nil
}

// InitPlanVisibility asks the API to seed the default visibility rows.
func (s *Service) InitPlanVisibility(ctx context.Context) error {
	if err := s.api.Post(ctx, planVisibilityPath+"/init", nil, nil); err != nil {
		return fmt.Errorf("failed to initialize plan visibility: %w", err)
	}
	return nil
}
