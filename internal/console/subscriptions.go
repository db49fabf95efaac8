package console

import (
	"context"
	"strings"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

const (
	familySubscriptions     = "admin-subscriptions"
	familySubscriptionStats = "subscription-stats"
	familyUsersForAssign    = "admin-users-for-assign"

	assignUserLimit = 100
)

// AssignForm is the assign subscription dialog.
type AssignForm struct {
	UserID    string `json:"userId" form:"userId"`
	Plan      string `json:"plan" form:"plan" binding:"omitempty,oneof=monthly quarterly yearly"`
	UserType  string `json:"userType" form:"userType" binding:"omitempty,oneof=doctor parent"`
	Amount    string `json:"amount" form:"amount"`
	StartDate string `json:"startDate" form:"startDate"`
	EndDate   string `json:"endDate" form:"endDate"`
}

// NewAssignForm returns the dialog defaults.
func NewAssignForm() AssignForm {
	return AssignForm{Plan: model.PlanMonthly, UserType: model.UserTypeParent}
}

func (f AssignForm) Request() model.AssignSubscriptionRequest {
	return model.AssignSubscriptionRequest{
		UserID:    f.UserID,
		Plan:      f.Plan,
		UserType:  f.UserType,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Amount:    ParseAmount(f.Amount),
	}
}

// EditForm is the edit subscription dialog, prefilled from the row.
type EditForm struct {
	Status    string `json:"status" form:"status" binding:"omitempty,oneof=active expired cancelled pending"`
	Plan      string `json:"plan" form:"plan" binding:"omitempty,oneof=monthly quarterly yearly"`
	Amount    string `json:"amount" form:"amount"`
	AutoRenew bool   `json:"autoRenew" form:"autoRenew"`
	StartDate string `json:"startDate" form:"startDate"`
	EndDate   string `json:"endDate" form:"endDate"`
}

func EditFormFor(s model.Subscription) EditForm {
	f := EditForm{
		Status:    s.Status,
		Plan:      s.Plan,
		Amount:    FormatAmount(&s.FinalAmount),
		AutoRenew: s.AutoRenew,
	}
	if s.StartDate != nil {
		f.StartDate = s.StartDate.Format("2006-01-02")
	}
	if s.EndDate != nil {
		f.EndDate = s.EndDate.Format("2006-01-02")
	}
	return f
}

func (f EditForm) Request() model.UpdateSubscriptionRequest {
	autoRenew := f.AutoRenew
	return model.UpdateSubscriptionRequest{
		Status:    optional(f.Status),
		Plan:      optional(f.Plan),
		StartDate: optional(f.StartDate),
		EndDate:   optional(f.EndDate),
		Amount:    ParseAmount(f.Amount),
		AutoRenew: &autoRenew,
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SubscriptionsPage lists subscriptions with their stats and hosts the
// assign and edit dialogs.
type SubscriptionsPage struct {
	*List[model.Subscription, model.SubscriptionFilter]
	svc   Services
	mut   *Mutator
	stats *query.Query[*model.SubscriptionStats]
	users *query.Query[model.Page[model.User]]

	mu      sync.Mutex
	assign  *AssignForm
	editing *model.Subscription
}

// SubscriptionsView is the rendered page.
type SubscriptionsView struct {
	ListView[model.Subscription, model.SubscriptionFilter]
	Stats   *model.SubscriptionStats `json:"stats,omitempty"`
	Assign  *AssignForm              `json:"assign,omitempty"`
	Editing *model.Subscription      `json:"editing,omitempty"`
}

func NewSubscriptionsPage(d Deps) *SubscriptionsPage {
	p := &SubscriptionsPage{
		svc:   d.Services,
		mut:   newMutator("subscriptions", d),
		stats: query.New[*model.SubscriptionStats](d.Cache, familySubscriptionStats),
		users: query.New[model.Page[model.User]](d.Cache, familyUsersForAssign),
	}
	p.List = NewList[model.Subscription, model.SubscriptionFilter](d.Cache, familySubscriptions, model.SubscriptionFilter{},
		func(f model.SubscriptionFilter) map[string]string {
			return map[string]string{"status": f.Status, "userType": f.UserType, "plan": f.Plan}
		},
		d.Subscriptions.ListSubscriptions)
	return p
}

// Load fetches the list and the stats. A stats failure does not hide the list.
func (p *SubscriptionsPage) Load(ctx context.Context) (SubscriptionsView, error) {
	_, err := p.List.Load(ctx)
	if serr := p.loadStats(ctx); serr != nil && err == nil {
		err = serr
	}
	return p.View(), err
}

func (p *SubscriptionsPage) loadStats(ctx context.Context) error {
	_, err := p.stats.Fetch(ctx, query.NewKey(familySubscriptionStats, 0, 0, nil), p.svc.Subscriptions.Stats)
	if superseded(err) {
		return nil
	}
	return err
}

func (p *SubscriptionsPage) View() SubscriptionsView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return SubscriptionsView{
		ListView: p.List.View(),
		Stats:    p.stats.Snapshot().Data,
		Assign:   p.assign,
		Editing:  p.editing,
	}
}

// AssignableUsers returns the first 100 users for the assign dialog.
func (p *SubscriptionsPage) AssignableUsers(ctx context.Context) ([]model.User, error) {
	params := model.ListParams{Page: 1, Limit: assignUserLimit}
	key := query.NewKey(familyUsersForAssign, 1, assignUserLimit, nil)
	page, err := p.users.Fetch(ctx, key, func(ctx context.Context) (model.Page[model.User], error) {
		return p.svc.Users.ListUsers(ctx, params, model.UserFilter{})
	})
	if superseded(err) {
		return p.users.Snapshot().Data.Items, nil
	}
	return page.Items, err
}

// UserHistory returns every subscription a user has held, for the row
// detail of the subscriptions table.
func (p *SubscriptionsPage) UserHistory(ctx context.Context, userID string) (*model.UserSubscriptions, error) {
	if userID == "" {
		return nil, errors.NewBadRequest("a user must be selected", nil)
	}
	return p.svc.Subscriptions.UserSubscriptions(ctx, userID)
}

// OpenAssign opens the assign dialog with its defaults.
func (p *SubscriptionsPage) OpenAssign() AssignForm {
	f := NewAssignForm()
	p.mu.Lock()
	p.assign = &f
	p.mu.Unlock()
	return f
}

func (p *SubscriptionsPage) CloseAssign() {
	p.mu.Lock()
	p.assign = nil
	p.mu.Unlock()
}

// Assign submits the assign dialog. The dialog closes only on success.
func (p *SubscriptionsPage) Assign(ctx context.Context, form AssignForm) (*model.Subscription, error) {
	if form.UserID == "" {
		return nil, errors.NewBadRequest("a user must be selected", nil)
	}
	req := form.Request()
	var sub *model.Subscription
	err := p.mut.Run(ctx, Mutation{
		Action:   "assign",
		IDs:      []string{form.UserID},
		Meta:     map[string]string{"plan": req.Plan, "userType": req.UserType},
		Families: []string{familySubscriptions, familySubscriptionStats},
		Do: func(ctx context.Context) error {
			var err error
			sub, err = p.svc.Subscriptions.Assign(ctx, req)
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	p.CloseAssign()
	return sub, nil
}

// OpenEdit opens the edit dialog for a row of the rendered page.
func (p *SubscriptionsPage) OpenEdit(id string) (EditForm, error) {
	sub, ok := p.Find(id)
	if !ok {
		return EditForm{}, errors.NotFound("subscription", nil)
	}
	p.mu.Lock()
	p.editing = &sub
	p.mu.Unlock()
	return EditFormFor(sub), nil
}

func (p *SubscriptionsPage) CloseEdit() {
	p.mu.Lock()
	p.editing = nil
	p.mu.Unlock()
}

func (p *SubscriptionsPage) Update(ctx context.Context, id string, form EditForm) (*model.Subscription, error) {
	req := form.Request()
	var sub *model.Subscription
	err := p.mut.Run(ctx, Mutation{
		Action:   "update",
		IDs:      []string{id},
		Families: []string{familySubscriptions, familySubscriptionStats},
		Do: func(ctx context.Context) error {
			var err error
			sub, err = p.svc.Subscriptions.Update(ctx, id, req)
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	p.CloseEdit()
	return sub, nil
}

func (p *SubscriptionsPage) Cancel(ctx context.Context, id, reason string, confirmed bool) error {
	if err := Confirm(confirmed, "Are you sure you want to cancel this subscription?"); err != nil {
		return err
	}
	return p.mut.Run(ctx, Mutation{
		Action:   "cancel",
		IDs:      []string{id},
		Meta:     notesMeta("reason", reason),
		Families: []string{familySubscriptions, familySubscriptionStats},
		Do: func(ctx context.Context) error {
			_, err := p.svc.Subscriptions.Cancel(ctx, id, reason)
			return err
		},
	})
}
