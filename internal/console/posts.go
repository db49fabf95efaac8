package console

import (
	"context"
	"time"

	"github.com/jwalitptl/admin-console/internal/model"
)

const familyPosts = "admin-posts"

type PostsPage struct {
	*List[model.Post, model.PostFilter]
	svc Services
	mut *Mutator
	now func() time.Time
}

func NewPostsPage(d Deps) *PostsPage {
	p := &PostsPage{svc: d.Services, mut: newMutator("posts", d), now: time.Now}
	p.List = NewList[model.Post, model.PostFilter](d.Cache, familyPosts, model.PostFilter{},
		func(f model.PostFilter) map[string]string {
			return map[string]string{"status": f.Status, "search": f.Search}
		},
		d.Posts.ListPosts)
	return p
}

func (p *PostsPage) Approve(ctx context.Context, id, notes string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "approve",
		IDs:      []string{id},
		Meta:     notesMeta("notes", notes),
		Families: []string{familyPosts},
		Do:       func(ctx context.Context) error { return p.svc.Posts.ApprovePost(ctx, id, notes) },
	})
}

func (p *PostsPage) Reject(ctx context.Context, id, reason string) error {
	return p.mut.Run(ctx, Mutation{
		Action:   "reject",
		IDs:      []string{id},
		Meta:     notesMeta("reason", reason),
		Families: []string{familyPosts},
		Do:       func(ctx context.Context) error { return p.svc.Posts.RejectPost(ctx, id, reason) },
	})
}

func (p *PostsPage) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := Confirm(confirmed, "Are you sure you want to delete this post?"); err != nil {
		return err
	}
	return p.mut.Run(ctx, Mutation{
		Action:   "delete",
		IDs:      []string{id},
		Families: []string{familyPosts},
		Do:       func(ctx context.Context) error { return p.svc.Posts.DeletePost(ctx, id) },
	})
}

// BulkApprove approves every selected post in one request.
func (p *PostsPage) BulkApprove(ctx context.Context, notes string) error {
	return p.bulk(ctx, "bulk-approve", notesMeta("notes", notes), func(ctx context.Context, ids []string) error {
		return p.svc.Posts.BulkApprove(ctx, ids, notes)
	})
}

func (p *PostsPage) BulkReject(ctx context.Context, reason string) error {
	return p.bulk(ctx, "bulk-reject", notesMeta("reason", reason), func(ctx context.Context, ids []string) error {
		return p.svc.Posts.BulkReject(ctx, ids, reason)
	})
}

func (p *PostsPage) bulk(ctx context.Context, action string, meta interface{}, fn func(context.Context, []string) error) error {
	ids := p.Selected()
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	err := p.mut.Run(ctx, Mutation{
		Action:   action,
		IDs:      ids,
		Meta:     meta,
		Families: []string{familyPosts},
		Do:       func(ctx context.Context) error { return fn(ctx, ids) },
	})
	if err == nil {
		p.ClearSelection()
	}
	return err
}

// Export returns the CSV of the posts matching the current status filter.
func (p *PostsPage) Export(ctx context.Context) (string, []byte, error) {
	payload, err := p.svc.Posts.ExportPosts(ctx, model.PostFilter{Status: p.Filter().Status})
	if err != nil {
		return "", nil, exportError("posts", err)
	}
	return ExportFilename("posts", p.now()), payload, nil
}

func notesMeta(key, value string) interface{} {
	if value == "" {
		return nil
	}
	return map[string]string{key: value}
}
