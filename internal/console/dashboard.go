package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

const (
	familyDashboardStats = "dashboard-stats"
	familyAnalytics      = "admin-analytics"
)

// QuickLink is a shortcut card on the dashboard.
type QuickLink struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

var dashboardLinks = []QuickLink{
	{Title: "Manage Users", Path: "/users"},
	{Title: "Moderate Posts", Path: "/posts"},
	{Title: "View Analytics", Path: "/analytics"},
}

type DashboardView struct {
	Stats   *model.DashboardStats `json:"stats,omitempty"`
	Links   []QuickLink           `json:"links"`
	Loading bool                  `json:"loading"`
	Error   string                `json:"error,omitempty"`
}

type DashboardPage struct {
	svc   Services
	query *query.Query[*model.DashboardStats]
}

func NewDashboardPage(d Deps) *DashboardPage {
	return &DashboardPage{
		svc:   d.Services,
		query: query.New[*model.DashboardStats](d.Cache, familyDashboardStats),
	}
}

func (p *DashboardPage) Load(ctx context.Context) (DashboardView, error) {
	_, err := p.query.Fetch(ctx, query.NewKey(familyDashboardStats, 0, 0, nil), p.svc.Dashboard.Stats)
	if superseded(err) {
		err = nil
	}
	return p.View(), err
}

func (p *DashboardPage) View() DashboardView {
	snap := p.query.Snapshot()
	v := DashboardView{Stats: snap.Data, Links: dashboardLinks, Loading: snap.Loading}
	if snap.Err != nil {
		v.Error = snap.Err.Error()
	}
	return v
}

type AnalyticsView struct {
	Days      int              `json:"days"`
	Windows   []int            `json:"windows"`
	Analytics *model.Analytics `json:"analytics,omitempty"`
	Loading   bool             `json:"loading"`
	Error     string           `json:"error,omitempty"`
}

// AnalyticsPage shows growth series over a selectable window.
type AnalyticsPage struct {
	svc   Services
	query *query.Query[*model.Analytics]

	mu   sync.Mutex
	days int
}

func NewAnalyticsPage(d Deps) *AnalyticsPage {
	return &AnalyticsPage{
		svc:   d.Services,
		query: query.New[*model.Analytics](d.Cache, familyAnalytics),
		days:  model.DefaultAnalyticsWindow,
	}
}

func (p *AnalyticsPage) Load(ctx context.Context) (AnalyticsView, error) {
	p.mu.Lock()
	days := p.days
	p.mu.Unlock()
	return p.load(ctx, days)
}

// SetDays picks another window; only 7, 30, 90 and 365 are offered.
func (p *AnalyticsPage) SetDays(ctx context.Context, days int) (AnalyticsView, error) {
	if !model.ValidAnalyticsWindow(days) {
		return p.View(), errors.NewBadRequest(fmt.Sprintf("unsupported analytics window: %d days", days), nil)
	}
	p.mu.Lock()
	p.days = days
	p.mu.Unlock()
	return p.load(ctx, days)
}

func (p *AnalyticsPage) load(ctx context.Context, days int) (AnalyticsView, error) {
	key := query.NewKey(familyAnalytics, 0, 0, map[string]string{"days": fmt.Sprint(days)})
	_, err := p.query.Fetch(ctx, key, func(ctx context.Context) (*model.Analytics, error) {
		return p.svc.Dashboard.Analytics(ctx, days)
	})
	if superseded(err) {
		err = nil
	}
	return p.View(), err
}

func (p *AnalyticsPage) View() AnalyticsView {
	snap := p.query.Snapshot()
	p.mu.Lock()
	days := p.days
	p.mu.Unlock()
	v := AnalyticsView{
		Days:      days,
		Windows:   model.AnalyticsWindows,
		Analytics: snap.Data,
		Loading:   snap.Loading,
	}
	if snap.Err != nil {
		v.Error = snap.Err.Error()
	}
	return v
}

// SettingsView is a placeholder until settings exist.
type SettingsView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func SettingsPage() SettingsView {
	return SettingsView{Title: "Settings", Message: "Settings page coming soon..."}
}
