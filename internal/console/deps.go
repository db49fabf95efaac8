package console

import (
	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/internal/service/appointment"
	"github.com/jwalitptl/admin-console/internal/service/audit"
	"github.com/jwalitptl/admin-console/internal/service/chat"
	"github.com/jwalitptl/admin-console/internal/service/child"
	"github.com/jwalitptl/admin-console/internal/service/comment"
	"github.com/jwalitptl/admin-console/internal/service/dashboard"
	"github.com/jwalitptl/admin-console/internal/service/notification"
	"github.com/jwalitptl/admin-console/internal/service/post"
	"github.com/jwalitptl/admin-console/internal/service/subscription"
	"github.com/jwalitptl/admin-console/internal/service/therapist"
	"github.com/jwalitptl/admin-console/internal/service/user"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

// Services are the admin API modules a workspace talks through.
type Services struct {
	Users         user.UserServicer
	Posts         post.PostServicer
	Comments      comment.CommentServicer
	Chat          chat.ChatServicer
	Appointments  appointment.AppointmentServicer
	Children      child.ChildServicer
	Therapists    therapist.TherapistServicer
	Subscriptions subscription.SubscriptionServicer
	Notifications notification.NotificationServicer
	Dashboard     dashboard.DashboardServicer
}

// Deps is what every page controller is built from.
type Deps struct {
	Services
	Cache   *query.Cache
	Audit   audit.Recorder
	Metrics *metrics.Metrics
	Logger  zerolog.Logger
}
