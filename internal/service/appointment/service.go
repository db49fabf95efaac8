package appointment

import (
	"context"
	"fmt"

	"github.com/jwalitptl/admin-console/internal/apiclient"
	"github.com/jwalitptl/admin-console/internal/model"
)

type AppointmentServicer interface {
	ListAppointments(ctx context.Context, params model.ListParams, filter model.AppointmentFilter) (model.Page[model.Appointment], error)
}

type Service struct {
	api apiclient.Doer
}

func NewService(api apiclient.Doer) *Service {
	return &Service{api: api}
}

func (s *Service) ListAppointments(ctx context.Context, params model.ListParams, filter model.AppointmentFilter) (model.Page[model.Appointment], error) {
	q := params.Values()
	model.SetIf(q, "status", filter.Status)

	var resp model.ListResponse[model.Appointment]
	if err := s.api.Get(ctx, "/admin/appointments", q, &resp); err != nil {
		return model.Page[model.Appointment]{}, fmt.Errorf("failed to list appointments: %w", err)
	}
	return resp.Page(), nil
}
