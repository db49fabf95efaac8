package console

import (
	"context"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
)

const familyUsers = "admin-users"

// UsersPage lists platform accounts and dispatches moderation on them.
type UsersPage struct {
	*List[model.User, model.UserFilter]
	svc Services
	mut *Mutator
	now func() time.Time
}

func NewUsersPage(d Deps) *UsersPage {
	p := &UsersPage{svc: d.Services, mut: newMutator("users", d), now: time.Now}
	p.List = NewList[model.User, model.UserFilter](d.Cache, familyUsers, model.UserFilter{},
		func(f model.UserFilter) map[string]string {
			return map[string]string{"role": f.Role, "search": f.Search, "blocked": f.Blocked}
		},
		d.Users.ListUsers)
	return p
}

func (p *UsersPage) Block(ctx context.Context, id string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "block",
		IDs:      []string{id},
		Families: []string{familyUsers},
		Do:       func(ctx context.Context) error { return p.svc.Users.BlockUser(ctx, id) },
	})
}

func (p *UsersPage) Unblock(ctx context.Context, id string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "unblock",
		IDs:      []string{id},
		Families: []string{familyUsers},
		Do:       func(ctx context.Context) error { return p.svc.Users.UnblockUser(ctx, id) },
	})
}

func (p *UsersPage) ChangeRole(ctx context.Context, id, role string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "change-role",
		IDs:      []string{id},
		Meta:     map[string]string{"role": role},
		Families: []string{familyUsers},
		Do: func(ctx context.Context) error {
			_, err := p.svc.Users.UpdateUser(ctx, id, model.UpdateUserRequest{Role: &role})
			return err
		},
	})
}

func (p *UsersPage) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := Confirm(confirmed, "Are you sure you want to delete this user?"); err != nil {
		return err
	}
	return p.mut.Run(ctx, Mutation{
		Action:   "delete",
		IDs:      []string{id},
		Families: []string{familyUsers},
		Do:       func(ctx context.Context) error { return p.svc.Users.DeleteUser(ctx, id) },
	})
}

func (p *UsersPage) BulkBlock(ctx context.Context) error {
	return p.bulk(ctx, "bulk-block", p.svc.Users.BulkBlock)
}

func (p *UsersPage) BulkUnblock(ctx context.Context) error {
	return p.bulk(ctx, "bulk-unblock", p.svc.Users.BulkUnblock)
}

func (p *UsersPage) bulk(ctx context.Context, action string, fn func(context.Context, []string) error) error {
	ids := p.Selected()
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	err := p.mut.Run(ctx, Mutation{
		Action:   action,
		IDs:      ids,
		Families: []string{familyUsers},
		Do:       func(ctx context.Context) error { return fn(ctx, ids) },
	})
	if err == nil {
		p.ClearSelection()
	}
	return err
}

// Export returns the CSV of the users matching the current role and blocked filters.
func (p *UsersPage) Export(ctx context.Context) (string, []byte, error) {
	payload, err := p.svc.Users.ExportUsers(ctx, p.Filter())
	if err != nil {
		return "", nil, exportError("users", err)
	}
	return ExportFilename("users", p.now()), payload, nil
}
