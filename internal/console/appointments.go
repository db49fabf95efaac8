package console

import (
	"context"

	"github.com/jwalitptl/admin-console/internal/model"
)

const (
	familyAppointments = "admin-appointments"
	familyChildren     = "admin-children"
)

// AppointmentsPage is a read-only list filtered by status.
type AppointmentsPage struct {
	*List[model.Appointment, model.AppointmentFilter]
}

func NewAppointmentsPage(d Deps) *AppointmentsPage {
	return &AppointmentsPage{
		List: NewList[model.Appointment, model.AppointmentFilter](d.Cache, familyAppointments, model.AppointmentFilter{},
			func(f model.AppointmentFilter) map[string]string {
				return map[string]string{"status": f.Status}
			},
			d.Appointments.ListAppointments),
	}
}

type ChildrenPage struct {
	*List[model.Child, NoFilter]
}

func NewChildrenPage(d Deps) *ChildrenPage {
	children := d.Children
	return &ChildrenPage{
		List: NewList[model.Child, NoFilter](d.Cache, familyChildren, NoFilter{}, noParams,
			func(ctx context.Context, p model.ListParams, _ NoFilter) (model.Page[model.Child], error) {
				return children.ListChildren(ctx, p)
			}),
	}
}
