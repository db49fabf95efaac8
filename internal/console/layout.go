package console

import (
	"context"
)

// MenuItem is one sidebar entry.
type MenuItem struct {
	Path   string `json:"path"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
}

var menu = []MenuItem{
	{Path: "/", Label: "Dashboard", Icon: "layout-dashboard"},
	{Path: "/users", Label: "Users", Icon: "users"},
	{Path: "/posts", Label: "Posts", Icon: "file-text"},
	{Path: "/comments", Label: "Comments", Icon: "message-square"},
	{Path: "/chat", Label: "Chat", Icon: "message-circle"},
	{Path: "/appointments", Label: "Appointments", Icon: "calendar"},
	{Path: "/children", Label: "Children", Icon: "baby"},
	{Path: "/therapists", Label: "Therapists", Icon: "stethoscope"},
	{Path: "/subscriptions", Label: "Subscriptions", Icon: "credit-card"},
	{Path: "/plan-visibility", Label: "Plan Visibility", Icon: "eye"},
	{Path: "/analytics", Label: "Analytics", Icon: "bar-chart-3"},
	{Path: "/settings", Label: "Settings", Icon: "settings"},
}

// Menu returns the sidebar with the entry matching path exactly marked active.
func Menu(path string) []MenuItem {
	items := make([]MenuItem, len(menu))
	for i, m := range menu {
		m.Active = m.Path == path
		items[i] = m
	}
	return items
}

type Header struct {
	UserName string    `json:"userName"`
	Bell     BellState `json:"bell"`
}

// LayoutView is the chrome around every page.
type LayoutView struct {
	Menu   []MenuItem `json:"menu"`
	Header Header     `json:"header"`
}

// Layout renders the chrome for path.
func (w *Workspace) Layout(ctx context.Context, path string) (LayoutView, error) {
	v := LayoutView{Menu: Menu(path), Header: Header{Bell: w.Bell.State()}}
	user, err := w.Auth.CurrentUser(ctx)
	if err != nil {
		return v, err
	}
	if user != nil {
		v.Header.UserName = user.Name
	}
	return v, nil
}
