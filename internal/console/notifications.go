package console

import (
	"context"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
)

// NotificationsPage is the full notifications list. It shares the
// notifications family with the bell, so actions here refresh both.
type NotificationsPage struct {
	*List[model.Notification, model.NotificationFilter]
	svc Services
	mut *Mutator

	mu     sync.Mutex
	unread int
}

type NotificationsView struct {
	ListView[model.Notification, model.NotificationFilter]
	Unread int `json:"unread"`
}

func NewNotificationsPage(d Deps) *NotificationsPage {
	p := &NotificationsPage{svc: d.Services, mut: newMutator("notifications", d)}
	p.List = NewList[model.Notification, model.NotificationFilter](d.Cache, familyNotifications, model.NotificationFilter{},
		func(f model.NotificationFilter) map[string]string {
			return map[string]string{"isRead": f.IsRead, "type": f.Type, "priority": f.Priority}
		},
		p.fetch)
	return p
}

func (p *NotificationsPage) fetch(ctx context.Context, params model.ListParams, f model.NotificationFilter) (model.Page[model.Notification], error) {
	np, err := p.svc.Notifications.ListNotifications(ctx, params, f)
	if err != nil {
		return model.Page[model.Notification]{}, err
	}
	p.mu.Lock()
	p.unread = np.UnreadCount
	p.mu.Unlock()
	return np.Page, nil
}

func (p *NotificationsPage) Unread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.unread
}

// CountUnread asks the API for the unread total without reloading the list.
func (p *NotificationsPage) CountUnread(ctx context.Context) (int, error) {
	n, err := p.svc.Notifications.UnreadCount(ctx)
	if err != nil {
		return p.Unread(), err
	}
	p.mu.Lock()
	p.unread = n
	p.mu.Unlock()
	return n, nil
}

func (p *NotificationsPage) Render() NotificationsView {
	return NotificationsView{ListView: p.View(), Unread: p.Unread()}
}

func (p *NotificationsPage) MarkRead(ctx context.Context, id string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "mark-read",
		IDs:      []string{id},
		Families: []string{familyNotifications},
		Do:       func(ctx context.Context) error { return p.svc.Notifications.MarkRead(ctx, id) },
	})
}

// MarkAllRead marks everything read, or only notifications of type when set.
func (p *NotificationsPage) MarkAllRead(ctx context.Context, notificationType string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "mark-all-read",
		Meta:     notesMeta("type", notificationType),
		Families: []string{familyNotifications},
		Do: func(ctx context.Context) error {
			return p.svc.Notifications.MarkAllRead(ctx, notificationType)
		},
	})
}

func (p *NotificationsPage) Delete(ctx context.Context, id string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "delete",
		IDs:      []string{id},
		Families: []string{familyNotifications},
		Do:       func(ctx context.Context) error { return p.svc.Notifications.DeleteNotification(ctx, id) },
	})
}

func (p *NotificationsPage) DeleteAllRead(ctx context.Context) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "delete-all-read",
		Families: []string{familyNotifications},
		Do:       p.svc.Notifications.DeleteAllRead,
	})
}
