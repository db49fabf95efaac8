package console

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/pkg/errors"
	"github.com/jwalitptl/admin-console/pkg/messaging"
	"github.com/jwalitptl/admin-console/pkg/metrics"
)

const (
	familyNotifications = "notifications"

	bellLimit = 10
	// DefaultBellInterval is how often the bell polls when not configured.
	DefaultBellInterval = 30 * time.Second
)

// Bell icons
const (
	IconWarning = "warning"
	IconPost    = "post"
	IconBell    = "bell"
)

// Badge renders the unread counter: hidden at zero, capped at "9+".
func Badge(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > 9:
		return "9+"
	default:
		return strconv.Itoa(unread)
	}
}

// RelativeTime renders t relative to now for the bell dropdown.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return strconv.Itoa(int(d/time.Minute)) + "m ago"
	case d < 24*time.Hour:
		return strconv.Itoa(int(d/time.Hour)) + "h ago"
	case d < 7*24*time.Hour:
		return strconv.Itoa(int(d/(24*time.Hour))) + "d ago"
	default:
		return t.Format("2006-01-02")
	}
}

func Icon(notificationType string) string {
	switch notificationType {
	case model.NotificationModerationAction, model.NotificationContentFlagged:
		return IconWarning
	case model.NotificationPostApproved, model.NotificationPostRejected:
		return IconPost
	default:
		return IconBell
	}
}

// BellItem is one row of the bell dropdown.
type BellItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Icon     string `json:"icon"`
	When     string `json:"when"`
	Target   string `json:"target"`
	IsRead   bool   `json:"isRead"`
	Priority string `json:"priority"`
}

// BellState is what the header renders and what the stream carries.
type BellState struct {
	Unread int        `json:"unread"`
	Badge  string     `json:"badge"`
	Items  []BellItem `json:"items"`
	Error  string     `json:"error,omitempty"`
}

// Bell polls the latest notifications of a workspace and publishes every
// applied result on the workspace's bell channel.
type Bell struct {
	svc     Services
	cache   *query.Cache
	query   *query.Query[model.NotificationPage]
	poller  *query.Poller
	broker  messaging.Broker
	channel string
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// BellChannel names the broker channel of a workspace's bell.
func BellChannel(workspace string) string {
	return "bell:" + workspace
}

func NewBell(d Deps, broker messaging.Broker, workspace string, interval time.Duration) *Bell {
	if interval <= 0 {
		interval = DefaultBellInterval
	}
	b := &Bell{
		svc:     d.Services,
		cache:   d.Cache,
		query:   query.New[model.NotificationPage](d.Cache, familyNotifications),
		broker:  broker,
		channel: BellChannel(workspace),
		metrics: d.Metrics,
		logger:  d.Logger.With().Str("component", "bell").Logger(),
		now:     time.Now,
	}
	b.poller = query.NewPoller(b.Refresh, interval)
	b.poller.OnResult = b.observe
	return b
}

func (b *Bell) Channel() string { return b.channel }

// Start begins polling. The first poll runs immediately.
func (b *Bell) Start(ctx context.Context) { b.poller.Start(ctx) }

func (b *Bell) Stop() { b.poller.Stop() }

// Refresh fetches the latest notifications and publishes the new state.
func (b *Bell) Refresh(ctx context.Context) error {
	params := model.ListParams{Page: 1, Limit: bellLimit}
	key := query.NewKey(familyNotifications, 1, bellLimit, nil)
	_, err := b.query.Fetch(ctx, key, func(ctx context.Context) (model.NotificationPage, error) {
		return b.svc.Notifications.ListNotifications(ctx, params, model.NotificationFilter{})
	})
	if superseded(err) {
		return nil
	}
	if err != nil {
		return err
	}
	b.publish(ctx)
	return nil
}

func (b *Bell) observe(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
		b.logger.Warn().Err(err).Msg("bell poll failed")
	}
	if b.metrics != nil {
		b.metrics.BellPolls.WithLabelValues(outcome).Inc()
	}
}

func (b *Bell) publish(ctx context.Context) {
	if b.broker == nil {
		return
	}
	if err := b.broker.Publish(ctx, b.channel, b.State()); err != nil {
		b.logger.Warn().Err(err).Str("channel", b.channel).Msg("failed to publish bell state")
	}
}

// State renders the last applied poll.
func (b *Bell) State() BellState {
	snap := b.query.Snapshot()
	now := b.now()
	s := BellState{
		Unread: snap.Data.UnreadCount,
		Badge:  Badge(snap.Data.UnreadCount),
		Items:  make([]BellItem, 0, len(snap.Data.Items)),
	}
	for _, n := range snap.Data.Items {
		s.Items = append(s.Items, BellItem{
			ID:       n.ID,
			Title:    n.Title,
			Message:  n.Message,
			Icon:     Icon(n.Type),
			When:     RelativeTime(n.CreatedAt, now),
			Target:   n.Target(),
			IsRead:   n.IsRead,
			Priority: n.Priority,
		})
	}
	if snap.Err != nil {
		s.Error = snap.Err.Error()
	}
	return s
}

// Open marks the notification read if it is not already, and returns
// where to navigate. Read notifications cause no request.
func (b *Bell) Open(ctx context.Context, id string) (string, error) {
	var target string
	var found, unread bool
	for _, n := range b.query.Snapshot().Data.Items {
		if n.ID == id {
			target, found, unread = n.Target(), true, !n.IsRead
			break
		}
	}
	if !found {
		return "", errors.NotFound("notification", nil)
	}
	if !unread {
		return target, nil
	}
	if err := b.svc.Notifications.MarkRead(ctx, id); err != nil {
		return "", err
	}
	if err := b.cache.Invalidate(ctx, familyNotifications); err != nil {
		b.logger.Warn().Err(err).Msg("refetch after mark read failed")
	}
	b.publish(ctx)
	return target, nil
}
