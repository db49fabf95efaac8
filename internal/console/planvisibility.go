package console

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

const familyPlanVisibility = "plan-visibility"

// PlanGroup is the rows of one user type, sorted by order.
type PlanGroup struct {
	UserType string                 `json:"userType"`
	Plans    []model.PlanVisibility `json:"plans"`
}

// GroupPlans groups rows by user type in order of first appearance and
// sorts each group by order, keeping ties in server order.
func GroupPlans(rows []model.PlanVisibility) []PlanGroup {
	var groups []PlanGroup
	index := map[string]int{}
	for _, r := range rows {
		i, ok := index[r.UserType]
		if !ok {
			i = len(groups)
			index[r.UserType] = i
			groups = append(groups, PlanGroup{UserType: r.UserType})
		}
		groups[i].Plans = append(groups[i].Plans, r)
	}
	for _, g := range groups {
		plans := g.Plans
		sort.SliceStable(plans, func(a, b int) bool { return plans[a].Order < plans[b].Order })
	}
	return groups
}

// PlanDraft is the inline edit state of one row. Prices are kept as typed.
type PlanDraft struct {
	ID             string `json:"id" form:"id"`
	IsVisible      bool   `json:"isVisible" form:"isVisible"`
	IsDefault      bool   `json:"isDefault" form:"isDefault"`
	CustomPrice    string `json:"customPrice" form:"customPrice"`
	CustomDiscount string `json:"customDiscount" form:"customDiscount"`
	Description    string `json:"description" form:"description"`
	Order          int    `json:"order" form:"order"`
}

func DraftFor(p model.PlanVisibility) PlanDraft {
	return PlanDraft{
		ID:             p.ID,
		IsVisible:      p.IsVisible,
		IsDefault:      p.IsDefault,
		CustomPrice:    FormatAmount(p.CustomPrice),
		CustomDiscount: FormatAmount(p.CustomDiscount),
		Description:    p.Description,
		Order:          p.Order,
	}
}

// Request always carries both prices; a blank one is sent as null.
func (d PlanDraft) Request() model.UpdatePlanVisibilityRequest {
	return model.UpdatePlanVisibilityRequest{
		IsVisible:      d.IsVisible,
		IsDefault:      d.IsDefault,
		CustomPrice:    ParseAmount(d.CustomPrice),
		CustomDiscount: ParseAmount(d.CustomDiscount),
		Description:    d.Description,
		Order:          d.Order,
	}
}

// PlanForm is the create dialog.
type PlanForm struct {
	UserType       string `json:"userType" form:"userType" binding:"required,oneof=doctor parent all"`
	Plan           string `json:"plan" form:"plan" binding:"required,oneof=monthly quarterly yearly"`
	IsVisible      bool   `json:"isVisible" form:"isVisible"`
	IsDefault      bool   `json:"isDefault" form:"isDefault"`
	CustomPrice    string `json:"customPrice" form:"customPrice"`
	CustomDiscount string `json:"customDiscount" form:"customDiscount"`
	Description    string `json:"description" form:"description"`
	Order          int    `json:"order" form:"order"`
}

// Request omits blank prices so the server stores null.
func (f PlanForm) Request() model.CreatePlanVisibilityRequest {
	return model.CreatePlanVisibilityRequest{
		UserType:       f.UserType,
		Plan:           f.Plan,
		IsVisible:      f.IsVisible,
		IsDefault:      f.IsDefault,
		CustomPrice:    ParseAmount(f.CustomPrice),
		CustomDiscount: ParseAmount(f.CustomDiscount),
		Description:    strings.TrimSpace(f.Description),
		Order:          f.Order,
	}
}

// PlanVisibilityPage edits which plans each user type is offered.
type PlanVisibilityPage struct {
	svc   Services
	mut   *Mutator
	query *query.Query[[]model.PlanVisibility]

	mu       sync.Mutex
	userType string
	draft    *PlanDraft
}

type PlanVisibilityView struct {
	UserType string      `json:"userType"`
	Groups   []PlanGroup `json:"groups"`
	Draft    *PlanDraft  `json:"draft,omitempty"`
	Loading  bool        `json:"loading"`
	Error    string      `json:"error,omitempty"`
}

func NewPlanVisibilityPage(d Deps) *PlanVisibilityPage {
	return &PlanVisibilityPage{
		svc:   d.Services,
		mut:   newMutator("plan-visibility", d),
		query: query.New[[]model.PlanVisibility](d.Cache, familyPlanVisibility),
	}
}

func (p *PlanVisibilityPage) Load(ctx context.Context) (PlanVisibilityView, error) {
	p.mu.Lock()
	userType := p.userType
	p.mu.Unlock()
	return p.load(ctx, userType)
}

// SetUserType filters by doctor, parent or all; empty shows every row.
func (p *PlanVisibilityPage) SetUserType(ctx context.Context, userType string) (PlanVisibilityView, error) {
	switch userType {
	case "", model.UserTypeDoctor, model.UserTypeParent, model.UserTypeAll:
	default:
		return p.View(), errors.NewBadRequest("unknown user type "+userType, nil)
	}
	p.mu.Lock()
	p.userType = userType
	p.draft = nil
	p.mu.Unlock()
	return p.load(ctx, userType)
}

func (p *PlanVisibilityPage) load(ctx context.Context, userType string) (PlanVisibilityView, error) {
	key := query.NewKey(familyPlanVisibility, 0, 0, map[string]string{"userType": userType})
	_, err := p.query.Fetch(ctx, key, func(ctx context.Context) ([]model.PlanVisibility, error) {
		return p.svc.Subscriptions.ListPlanVisibility(ctx, userType)
	})
	if superseded(err) {
		err = nil
	}
	return p.View(), err
}

func (p *PlanVisibilityPage) View() PlanVisibilityView {
	snap := p.query.Snapshot()
	p.mu.Lock()
	defer p.mu.Unlock()
	v := PlanVisibilityView{
		UserType: p.userType,
		Groups:   GroupPlans(append([]model.PlanVisibility(nil), snap.Data...)),
		Draft:    p.draft,
		Loading:  snap.Loading,
	}
	if v.Groups == nil {
		v.Groups = []PlanGroup{}
	}
	if snap.Err != nil {
		v.Error = snap.Err.Error()
	}
	return v
}

func (p *PlanVisibilityPage) find(id string) (model.PlanVisibility, bool) {
	for _, r := range p.query.Snapshot().Data {
		if r.ID == id {
			return r, true
		}
	}
	return model.PlanVisibility{}, false
}

// BeginEdit opens a draft for id, discarding any other open draft.
func (p *PlanVisibilityPage) BeginEdit(id string) (PlanDraft, error) {
	row, ok := p.find(id)
	if !ok {
		return PlanDraft{}, errors.NotFound("plan visibility", nil)
	}
	d := DraftFor(row)
	p.mu.Lock()
	p.draft = &d
	p.mu.Unlock()
	return d, nil
}

func (p *PlanVisibilityPage) CancelEdit() {
	p.mu.Lock()
	p.draft = nil
	p.mu.Unlock()
}

func (p *PlanVisibilityPage) Draft() *PlanDraft {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// Save submits the open draft with the edited values.
func (p *PlanVisibilityPage) Save(ctx context.Context, d PlanDraft) error {
	open := p.Draft()
	if open == nil || open.ID != d.ID {
		return errors.NewBadRequest("no open draft for this plan", nil)
	}
	req := d.Request()
	err := p.mut.Run(ctx, Mutation{
		Action:   "update",
		IDs:      []string{d.ID},
		Families: []string{familyPlanVisibility},
		Do: func(ctx context.Context) error {
			_, err := p.svc.Subscriptions.UpdatePlanVisibility(ctx, d.ID, req)
			return err
		},
	})
	if err == nil {
		p.CancelEdit()
	}
	return err
}

func (p *PlanVisibilityPage) Create(ctx context.Context, f PlanForm) (*model.PlanVisibility, error) {
	req := f.Request()
	var created *model.PlanVisibility
	err := p.mut.Run(ctx, Mutation{
		Action:   "create",
		Meta:     map[string]string{"userType": req.UserType, "plan": req.Plan},
		Families: []string{familyPlanVisibility},
		Do: func(ctx context.Context) error {
			var err error
			created, err = p.svc.Subscriptions.CreatePlanVisibility(ctx, req)
			return err
		},
	})
	return created, err
}

// InitDefaults asks the server to seed the default visibility rows.
func (p *PlanVisibilityPage) InitDefaults(ctx context.Context) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "init",
		Families: []string{familyPlanVisibility},
		Do:       p.svc.Subscriptions.InitPlanVisibility,
	})
}
