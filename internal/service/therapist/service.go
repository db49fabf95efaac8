package therapist

import (
	"context"
	"fmt"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type TherapistServicer interface {
	ListProfiles(ctx context.Context, params model.ListParams, filter model.TherapistFilter) (model.Page[model.TherapistProfile], error)
	GetProfile(ctx context.Context, id string) (*model.TherapistProfile, error)
	Verify(ctx context.Context, id, notes string) error
	Unverify(ctx context.Context, id, reason string) error
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListProfiles(ctx context.Context, params model.ListParams, filter model.TherapistFilter) (model.Page[model.TherapistProfile], error) {
	q := params.Values()
	model.SetIf(q, "isVerified", filter.IsVerified)
	model.SetIf(q, "role", filter.Role)
	model.SetIf(q, "search", filter.Search)

	var resp model.ListResponse[model.TherapistProfile]
	if err := s.api.Get(ctx, "/admin/therapists", q, &resp); err != nil {
		return model.Page[model.TherapistProfile]{}, fmt.Errorf("failed to list therapist profiles: %w", err)
	}
	return resp.Page(), nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*model.TherapistProfile, error) {
	var resp model.ItemResponse[model.TherapistProfile]
	if err := s.api.Get(ctx, "/admin/therapists/"+id, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get therapist profile: %w", err)
	}
	return &resp.Data, nil
}

func (s *Service) Verify(ctx context.Context, id, notes string) error {
	if err := s.api.Put(ctx, "/admin/therapists/"+id+"/verify", model.VerifyRequest{VerificationNotes: notes}, nil); err != nil {
		return fmt.Errorf("failed to verify therapist profile: %w", err)
	}
	return nil
}

func (s *Service) Unverify(ctx context.Context, id, reason string) error {
	if err := s.api.Put(ctx, "/admin/therapists/"+id+"/unverify", model.UnverifyRequest{Reason: reason}, nil); err != nil {
		return fmt.Errorf("failed to unverify therapist profile: %w", err)
	}
	return nil
}
