package console

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/internal/query"
	"github.com/jwalitptl/admin-console/internal/selection"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

func seedUsers(api *fakeAPI) {
	api.users = []model.User{
		{ID: "u1", Name: "Ada", Role: model.RoleParent},
		{ID: "u2", Name: "Grace", Role: model.RoleTherapist},
	}
}

func TestUsersFilterChangeIssuesOneRequest(t *testing.T) {
	api := newFakeAPI(t)
	seedUsers(api)
	d, _ := api.deps()
	page := NewUsersPage(d)
	ctx := context.Background()

	_, err := page.SetPage(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, page.Toggle("u1"))

	view, err := page.SetFilter(ctx, model.UserFilter{Role: model.RoleParent})
	require.NoError(t, err)

	assert.Equal(t, 2, api.count("GET", "/admin/users"))
	last, _ := api.last("GET", "/admin/users")
	assert.Equal(t, "parent", last.Query.Get("role"))
	assert.Equal(t, "1", last.Query.Get("page"))
	assert.Equal(t, "20", last.Query.Get("limit"))
	assert.Equal(t, 1, view.Page)
	assert.Len(t, view.Items, 1)
	assert.Empty(t, view.Selected)
	assert.Equal(t, selection.None, view.Selection)
}

func TestUsersBlockThenUnblock(t *testing.T) {
	api := newFakeAPI(t)
	seedUsers(api)
	d, rec := api.deps()
	page := NewUsersPage(d)
	ctx := context.Background()

	_, err := page.Load(ctx)
	require.NoError(t, err)

	require.NoError(t, page.Block(ctx, "u1"))
	u, ok := page.Find("u1")
	require.True(t, ok)
	assert.Equal(t, "Blocked", u.Status())

	require.NoError(t, page.Unblock(ctx, "u1"))
	u, _ = page.Find("u1")
	assert.Equal(t, "Active", u.Status())

	assert.Equal(t, 3, api.count("GET", "/admin/users"))
	assert.Equal(t, []string{"users:block:success", "users:unblock:success"}, rec.actions())
}

func TestUsersDeleteNeedsConfirmation(t *testing.T) {
	api := newFakeAPI(t)
	seedUsers(api)
	d, rec := api.deps()
	page := NewUsersPage(d)

	err := page.Delete(context.Background(), "u1", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfirmationRequired))
	assert.Equal(t, "Are you sure you want to delete this user?", err.Error())
	assert.Zero(t, api.count("DELETE", "/admin/users/u1"))
	assert.Empty(t, rec.actions())

	require.NoError(t, page.Delete(context.Background(), "u1", true))
	assert.Equal(t, 1, api.count("DELETE", "/admin/users/u1"))
}

func TestUsersExport(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewUsersPage(d)
	page.now = func() time.Time { return time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("x", -5*3600)) }

	name, payload, err := page.Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "users-export-2024-03-10.csv", name)
	assert.Equal(t, "name,email\nAda,ada@example.com\n", string(payload))
}

func TestPostsExportFailure(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewPostsPage(d)

	_, _, err := page.Export(context.Background())
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Failed to export posts", appErr.Message)
	assert.Equal(t, errors.ErrInternal, appErr.Code)
}

func TestPostsBulkApprove(t *testing.T) {
	api := newFakeAPI(t)
	api.posts = []model.Post{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	d, rec := api.deps()
	page := NewPostsPage(d)
	ctx := context.Background()

	_, err := page.Load(ctx)
	require.NoError(t, err)
	page.ToggleAll()
	assert.Equal(t, selection.All, page.View().Selection)

	require.NoError(t, page.BulkApprove(ctx, "looks fine"))

	assert.Equal(t, 1, api.count("POST", "/admin/posts/bulk-approve"))
	c, _ := api.last("POST", "/admin/posts/bulk-approve")
	var body model.BulkPostsRequest
	require.NoError(t, json.Unmarshal(c.Body, &body))
	assert.Equal(t, []string{"p1", "p2", "p3"}, body.PostIDs)
	assert.Equal(t, "looks fine", body.Notes)
	assert.Empty(t, page.Selected())
	assert.Equal(t, []string{"posts:bulk-approve:success"}, rec.actions())
}

func TestBulkWithEmptySelection(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewPostsPage(d)

	err := page.BulkReject(context.Background(), "spam")
	assert.Equal(t, ErrEmptySelection, err)
	assert.Zero(t, api.count("POST", "/admin/posts/bulk-reject"))
}

func TestMutatorRejectsSameActionInFlight(t *testing.T) {
	d := Deps{Cache: query.NewCache(), Logger: zerolog.Nop()}
	m := newMutator("posts", d)
	ctx := context.Background()

	release := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = m.Run(ctx, Mutation{Action: "approve", Do: func(context.Context) error {
			close(started)
			<-release
			return nil
		}})
	}()
	<-started

	assert.True(t, m.InFlight("approve"))
	err := m.Run(ctx, Mutation{Action: "approve", Do: func(context.Context) error { return nil }})
	assert.Equal(t, ErrActionPending, err)
	assert.NoError(t, m.Run(ctx, Mutation{Action: "reject", Do: func(context.Context) error { return nil }}))

	close(release)
	wg.Wait()
	assert.False(t, m.InFlight("approve"))
}

func TestMutatorFailureSkipsInvalidation(t *testing.T) {
	api := newFakeAPI(t)
	seedUsers(api)
	d, rec := api.deps()
	page := NewUsersPage(d)
	ctx := context.Background()
	_, err := page.Load(ctx)
	require.NoError(t, err)

	boom := errors.BadRequest("nope", nil)
	err = page.mut.Run(ctx, Mutation{
		Action:   "block",
		Families: []string{familyUsers},
		Do:       func(context.Context) error { return boom },
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, api.count("GET", "/admin/users"))
	assert.Equal(t, []string{"users:block:failure"}, rec.actions())
}

func TestListKeepsNewestOfOverlappingSearches(t *testing.T) {
	slow := make(chan struct{})
	fetch := func(ctx context.Context, p model.ListParams, f model.UserFilter) (model.Page[model.User], error) {
		if f.Search == "ad" {
			<-slow
		}
		return model.Page[model.User]{Items: []model.User{{ID: f.Search}}}, nil
	}
	l := NewList[model.User, model.UserFilter](query.NewCache(), familyUsers, model.UserFilter{},
		func(f model.UserFilter) map[string]string { return map[string]string{"search": f.Search} }, fetch)
	ctx := context.Background()

	done := make(chan ListView[model.User, model.UserFilter])
	go func() {
		v, err := l.SetFilter(ctx, model.UserFilter{Search: "ad"})
		assert.NoError(t, err)
		done <- v
	}()

	// give the first search time to be issued before the second
	time.Sleep(20 * time.Millisecond)
	v, err := l.SetFilter(ctx, model.UserFilter{Search: "ada"})
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "ada", v.Items[0].ID)

	close(slow)
	stale := <-done
	require.Len(t, stale.Items, 1)
	assert.Equal(t, "ada", stale.Items[0].ID)
	assert.Equal(t, "ada", stale.Filter.Search)
	assert.Equal(t, "ada", l.Filter().Search)
}

func TestListViewKeepsFilterOfRenderedRows(t *testing.T) {
	boom := errors.BadRequest("search is unavailable", nil)
	fetch := func(ctx context.Context, p model.ListParams, f model.UserFilter) (model.Page[model.User], error) {
		if f.Search == "grace" {
			return model.Page[model.User]{}, boom
		}
		return model.Page[model.User]{Items: []model.User{{ID: f.Search}}, Pagination: model.Pagination{Page: p.Page, Pages: 1}}, nil
	}
	l := NewList[model.User, model.UserFilter](query.NewCache(), familyUsers, model.UserFilter{},
		func(f model.UserFilter) map[string]string { return map[string]string{"search": f.Search} }, fetch)
	ctx := context.Background()

	v := l.View()
	assert.Equal(t, 1, v.Page)
	assert.Empty(t, v.Filter.Search)

	_, err := l.SetFilter(ctx, model.UserFilter{Search: "ada"})
	require.NoError(t, err)

	v, err = l.SetFilter(ctx, model.UserFilter{Search: "grace"})
	assert.Equal(t, boom, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "ada", v.Items[0].ID)
	assert.Equal(t, "ada", v.Filter.Search)
	assert.NotEmpty(t, v.Error)
	assert.Equal(t, "grace", l.Filter().Search)
}

func TestSetPageClamps(t *testing.T) {
	var pages []int
	fetch := func(ctx context.Context, p model.ListParams, _ NoFilter) (model.Page[model.Child], error) {
		pages = append(pages, p.Page)
		return model.Page[model.Child]{Pagination: model.Pagination{Page: p.Page, Pages: 3}}, nil
	}
	l := NewList[model.Child, NoFilter](nil, familyChildren, NoFilter{}, noParams, fetch)
	ctx := context.Background()

	_, err := l.Load(ctx)
	require.NoError(t, err)
	_, err = l.SetPage(ctx, 9)
	require.NoError(t, err)
	_, err = l.SetPage(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 1}, pages)
}

func TestChatTabs(t *testing.T) {
	api := newFakeAPI(t)
	api.messages = []model.ChatMessage{
		{ID: "m1", Content: "hi"},
		{ID: "m2", Content: "bad", IsFlagged: true},
	}
	d, _ := api.deps()
	page := NewChatPage(d)
	ctx := context.Background()

	view, err := page.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, TabFlagged, view.Tab)
	require.NotNil(t, view.Flagged)
	assert.Len(t, view.Flagged.Items, 1)

	view, err = page.SetTab(ctx, TabMessages)
	require.NoError(t, err)
	require.NotNil(t, view.Messages)
	assert.Equal(t, 1, view.Messages.Page)
	assert.Len(t, view.Messages.Items, 2)

	_, err = page.SetTab(ctx, "archive")
	assert.True(t, errors.Is(err, errors.ErrBadRequest))

	require.NoError(t, page.DeleteMessage(ctx, "m2", true))
	assert.Equal(t, 2, api.count("GET", "/admin/chat/flagged"))
	assert.Equal(t, 2, api.count("GET", "/admin/chat/messages"))
	assert.Empty(t, page.Flagged.Items())
	assert.Len(t, page.Messages.Items(), 1)
}

func TestChatDeleteRoomPromptNamesRoom(t *testing.T) {
	api := newFakeAPI(t)
	api.rooms = []model.ChatRoom{{ID: "r1", Name: "Autism Support"}}
	d, _ := api.deps()
	page := NewChatPage(d)
	ctx := context.Background()
	_, err := page.SetTab(ctx, TabRooms)
	require.NoError(t, err)

	err = page.DeleteRoom(ctx, "r1", false)
	require.Error(t, err)
	assert.Equal(t, `Are you sure you want to delete "Autism Support"? This will delete all messages in this room.`, err.Error())
	assert.Zero(t, api.count("DELETE", "/admin/chat/rooms/r1"))
}

func TestChatCreateRoomGeneratesSlug(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewChatPage(d)

	room, err := page.CreateRoom(context.Background(), RoomForm{Name: "Autism Support"})
	require.NoError(t, err)
	assert.Equal(t, "autism-support", room.Slug)

	room, err = page.CreateRoom(context.Background(), RoomForm{Name: "Autism Support", Slug: "asd", SlugEdited: true})
	require.NoError(t, err)
	assert.Equal(t, "asd", room.Slug)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Autism Support":         "autism-support",
		"  Parents & Teachers! ": "parents-teachers",
		"ADHD -- Q&A 2024":       "adhd-q-a-2024",
		"---":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestParseAmount(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	cases := []struct {
		in   string
		want *float64
	}{
		{"", nil},
		{"   ", nil},
		{"abc", nil},
		{"0", f(0)},
		{"499", f(499)},
		{"12.5abc", f(12.5)},
		{" 7.25 ", f(7.25)},
		{".5", f(0.5)},
		{"-3", f(-3)},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		if tc.want == nil {
			assert.Nil(t, got, tc.in)
			continue
		}
		require.NotNil(t, got, tc.in)
		assert.Equal(t, *tc.want, *got, tc.in)
	}
}

func TestGroupTherapists(t *testing.T) {
	profiles := []model.TherapistProfile{
		{ID: "a", IsVerified: true, IsProfileComplete: true},
		{ID: "b", IsProfileComplete: true},
		{ID: "c"},
	}
	g := GroupTherapists(profiles)
	assert.Len(t, g.Verified, 1)
	assert.Len(t, g.Unverified, 2)
	require.Len(t, g.Pending, 1)
	assert.Equal(t, "b", g.Pending[0].ID)
}

func TestTherapistVerifyClosesDetail(t *testing.T) {
	api := newFakeAPI(t)
	api.therapists = []model.TherapistProfile{
		{ID: "t1", IsProfileComplete: true},
		{ID: "t2", IsVerified: true, IsProfileComplete: true},
	}
	d, rec := api.deps()
	page := NewTherapistsPage(d)
	ctx := context.Background()

	_, err := page.Load(ctx)
	require.NoError(t, err)
	_, err = page.OpenDetail(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, page.Detail())

	require.NoError(t, page.Verify(ctx, "t1", "license checked"))
	assert.Nil(t, page.Detail())
	c, ok := api.last("PUT", "/admin/therapists/t1/verify")
	require.True(t, ok)
	var verify model.VerifyRequest
	require.NoError(t, json.Unmarshal(c.Body, &verify))
	assert.Equal(t, "license checked", verify.VerificationNotes)
	assert.Equal(t, 2, api.count("GET", "/admin/therapists"))

	_, err = page.OpenDetail(ctx, "t2")
	require.NoError(t, err)
	err = page.Unverify(ctx, "t2", "expired license", false)
	require.Error(t, err)
	assert.Equal(t, "Are you sure you want to unverify this profile?", err.Error())
	assert.Zero(t, api.count("PUT", "/admin/therapists/t2/unverify"))
	assert.NotNil(t, page.Detail())

	require.NoError(t, page.Unverify(ctx, "t2", "expired license", true))
	assert.Nil(t, page.Detail())
	c, _ = api.last("PUT", "/admin/therapists/t2/unverify")
	var unverify model.UnverifyRequest
	require.NoError(t, json.Unmarshal(c.Body, &unverify))
	assert.Equal(t, "expired license", unverify.Reason)
	assert.Equal(t, []string{"therapists:verify:success", "therapists:unverify:success"}, rec.actions())
}

func TestCommentsBulkModeration(t *testing.T) {
	api := newFakeAPI(t)
	api.comments = []model.Comment{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
	d, _ := api.deps()
	page := NewCommentsPage(d)
	ctx := context.Background()

	_, err := page.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, page.Toggle("c1"))
	require.NoError(t, page.Toggle("c3"))

	require.NoError(t, page.BulkApprove(ctx))
	c, ok := api.last("POST", "/admin/comments/bulk-approve")
	require.True(t, ok)
	var body model.BulkCommentsRequest
	require.NoError(t, json.Unmarshal(c.Body, &body))
	assert.Equal(t, []string{"c1", "c3"}, body.CommentIDs)
	assert.Empty(t, page.Selected())
	assert.Equal(t, 2, api.count("GET", "/admin/comments"))

	page.ToggleAll()
	require.NoError(t, page.BulkReject(ctx))
	c, _ = api.last("POST", "/admin/comments/bulk-reject")
	require.NoError(t, json.Unmarshal(c.Body, &body))
	assert.Equal(t, []string{"c1", "c2", "c3"}, body.CommentIDs)
	assert.Empty(t, page.Selected())

	assert.Equal(t, ErrEmptySelection, page.BulkReject(ctx))
	assert.Equal(t, 1, api.count("POST", "/admin/comments/bulk-reject"))
}

func TestNotificationsMarkAllReadByTypeAndDeleteRead(t *testing.T) {
	api := newFakeAPI(t)
	api.notifications = []model.Notification{
		{ID: "n1", Type: model.NotificationPostApproved, IsRead: true},
		{ID: "n2", Type: model.NotificationContentFlagged},
		{ID: "n3", Type: model.NotificationPostRejected},
	}
	d, _ := api.deps()
	page := NewNotificationsPage(d)
	ctx := context.Background()

	_, err := page.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Unread())

	require.NoError(t, page.MarkAllRead(ctx, model.NotificationContentFlagged))
	c, ok := api.last("PUT", "/notifications/read-all")
	require.True(t, ok)
	var body model.MarkAllReadRequest
	require.NoError(t, json.Unmarshal(c.Body, &body))
	assert.Equal(t, model.NotificationContentFlagged, body.Type)
	assert.Equal(t, 1, page.Unread())

	require.NoError(t, page.DeleteAllRead(ctx))
	assert.Equal(t, 1, api.count("DELETE", "/notifications/read"))
	require.Len(t, page.Items(), 1)
	assert.Equal(t, "n3", page.Items()[0].ID)
	assert.Equal(t, 3, api.count("GET", "/notifications"))

	n, err := page.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, page.Render().Unread)
}

func TestSubscriptionsMutationsRefetchListAndStats(t *testing.T) {
	api := newFakeAPI(t)
	api.subscriptions = []model.Subscription{{ID: "s1", Status: model.SubscriptionActive, Plan: model.PlanMonthly, FinalAmount: 10}}
	d, rec := api.deps()
	page := NewSubscriptionsPage(d)
	ctx := context.Background()

	_, err := page.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, api.count("GET", "/admin/subscriptions"))
	require.Equal(t, 1, api.count("GET", "/admin/subscriptions/stats"))

	page.OpenAssign()
	require.NotNil(t, page.View().Assign)
	sub, err := page.Assign(ctx, AssignForm{UserID: "u1", Plan: model.PlanYearly, UserType: model.UserTypeParent, Amount: "49.5"})
	require.NoError(t, err)
	assert.Equal(t, "s-new", sub.ID)
	assert.Nil(t, page.View().Assign)
	assert.Equal(t, 2, api.count("GET", "/admin/subscriptions"))
	assert.Equal(t, 2, api.count("GET", "/admin/subscriptions/stats"))
	c, _ := api.last("POST", "/admin/subscriptions/assign")
	var assign model.AssignSubscriptionRequest
	require.NoError(t, json.Unmarshal(c.Body, &assign))
	assert.Equal(t, "u1", assign.UserID)
	require.NotNil(t, assign.Amount)
	assert.Equal(t, 49.5, *assign.Amount)

	form, err := page.OpenEdit("s1")
	require.NoError(t, err)
	require.NotNil(t, page.View().Editing)
	form.Status = model.SubscriptionExpired
	form.Amount = ""
	_, err = page.Update(ctx, "s1", form)
	require.NoError(t, err)
	assert.Nil(t, page.View().Editing)
	assert.Equal(t, 3, api.count("GET", "/admin/subscriptions"))
	assert.Equal(t, 3, api.count("GET", "/admin/subscriptions/stats"))
	c, _ = api.last("PUT", "/admin/subscriptions/s1")
	var update map[string]interface{}
	require.NoError(t, json.Unmarshal(c.Body, &update))
	assert.Equal(t, "expired", update["status"])
	assert.NotContains(t, update, "amount")

	require.NoError(t, page.Cancel(ctx, "s1", "moved abroad", true))
	assert.Equal(t, 4, api.count("GET", "/admin/subscriptions"))
	assert.Equal(t, 4, api.count("GET", "/admin/subscriptions/stats"))

	assert.Equal(t, []string{
		"subscriptions:assign:success",
		"subscriptions:update:success",
		"subscriptions:cancel:success",
	}, rec.actions())
}

func TestSubscriptionsUserHistory(t *testing.T) {
	api := newFakeAPI(t)
	api.subscriptions = []model.Subscription{{ID: "s1"}, {ID: "s2"}}
	d, _ := api.deps()
	page := NewSubscriptionsPage(d)
	ctx := context.Background()

	history, err := page.UserHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, history.Subscriptions, 2)
	assert.Equal(t, 1, api.count("GET", "/admin/subscriptions/user/u1"))

	_, err = page.UserHistory(ctx, "")
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
}

func TestSubscriptionsCancelNeedsConfirmation(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewSubscriptionsPage(d)
	ctx := context.Background()

	err := page.Cancel(ctx, "s1", "", false)
	assert.Equal(t, "Are you sure you want to cancel this subscription?", err.Error())

	require.NoError(t, page.Cancel(ctx, "s1", "refund", true))
	assert.Equal(t, 1, api.count("POST", "/admin/subscriptions/s1/cancel"))
}

func TestSubscriptionsPagingAndFilters(t *testing.T) {
	api := newFakeAPI(t)
	api.subscriptions = []model.Subscription{{ID: "s1"}}
	d, _ := api.deps()
	page := NewSubscriptionsPage(d)
	ctx := context.Background()

	_, err := page.SetFilter(ctx, model.SubscriptionFilter{Status: "all", Plan: model.PlanYearly})
	require.NoError(t, err)
	_, err = page.SetPage(ctx, 2)
	require.NoError(t, err)

	c, ok := api.last("GET", "/admin/subscriptions")
	require.True(t, ok)
	assert.Equal(t, "20", c.Query.Get("skip"))
	assert.Equal(t, "20", c.Query.Get("limit"))
	assert.Equal(t, "yearly", c.Query.Get("plan"))
	assert.False(t, c.Query.Has("status"))

	view, err := page.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, view.Stats)
	assert.Equal(t, 45, view.Stats.Total)
	assert.Equal(t, 3, view.Pagination.Pages)
}

func TestAssignRequiresUser(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewSubscriptionsPage(d)

	_, err := page.Assign(context.Background(), NewAssignForm())
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
	assert.Zero(t, api.count("POST", "/admin/subscriptions/assign"))
}

func TestGroupPlans(t *testing.T) {
	rows := []model.PlanVisibility{
		{ID: "1", UserType: "parent", Order: 2},
		{ID: "2", UserType: "doctor", Order: 1},
		{ID: "3", UserType: "parent", Order: 1},
		{ID: "4", UserType: "parent", Order: 1},
	}
	groups := GroupPlans(rows)
	require.Len(t, groups, 2)
	assert.Equal(t, "parent", groups[0].UserType)
	assert.Equal(t, []string{"3", "4", "1"}, model.IDs(groups[0].Plans))
	assert.Equal(t, "doctor", groups[1].UserType)
}

func TestPlanVisibilityDraft(t *testing.T) {
	api := newFakeAPI(t)
	price := 499.0
	api.plans = []model.PlanVisibility{
		{ID: "a", UserType: "parent", Plan: "monthly", CustomPrice: &price},
		{ID: "b", UserType: "parent", Plan: "yearly"},
	}
	d, _ := api.deps()
	page := NewPlanVisibilityPage(d)
	ctx := context.Background()
	_, err := page.Load(ctx)
	require.NoError(t, err)

	draft, err := page.BeginEdit("a")
	require.NoError(t, err)
	assert.Equal(t, "499", draft.CustomPrice)

	draft, err = page.BeginEdit("b")
	require.NoError(t, err)
	assert.Equal(t, "b", page.Draft().ID)

	assert.Error(t, page.Save(ctx, PlanDraft{ID: "a"}))

	draft.CustomPrice = "  "
	draft.CustomDiscount = "10abc"
	require.NoError(t, page.Save(ctx, draft))
	assert.Nil(t, page.Draft())

	c, ok := api.last("PUT", "/admin/subscriptions/plan-visibility/b")
	require.True(t, ok)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(c.Body, &body))
	assert.Contains(t, body, "customPrice")
	assert.Nil(t, body["customPrice"])
	assert.Equal(t, 10.0, body["customDiscount"])
}

func TestPlanVisibilityCreateOmitsBlankPrices(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewPlanVisibilityPage(d)

	_, err := page.Create(context.Background(), PlanForm{UserType: "doctor", Plan: "monthly", CustomPrice: "0"})
	require.NoError(t, err)
	c, _ := api.last("POST", "/admin/subscriptions/plan-visibility")
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(c.Body, &body))
	assert.Equal(t, 0.0, body["customPrice"])
	assert.NotContains(t, body, "customDiscount")
}

func TestAnalyticsWindow(t *testing.T) {
	api := newFakeAPI(t)
	d, _ := api.deps()
	page := NewAnalyticsPage(d)

	assert.Equal(t, 30, page.View().Days)
	_, err := page.SetDays(context.Background(), 14)
	assert.True(t, errors.Is(err, errors.ErrBadRequest))
	assert.Equal(t, 30, page.View().Days)
}

func TestMenu(t *testing.T) {
	items := Menu("/users")
	require.Len(t, items, 12)
	for _, it := range items {
		assert.Equal(t, it.Path == "/users", it.Active, it.Path)
	}
	assert.False(t, Menu("/users/u1")[1].Active)
}
