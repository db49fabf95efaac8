package console

import (
	"context"

	"github.com/jwalitptl/admin-console/internal/model"
)

const familyComments = "admin-comments"

type CommentsPage struct {
	*List[model.Comment, model.CommentFilter]
	svc Services
	mut *Mutator
}

func NewCommentsPage(d Deps) *CommentsPage {
	p := &CommentsPage{svc: d.Services, mut: newMutator("comments", d)}
	p.List = NewList[model.Comment, model.CommentFilter](d.Cache, familyComments, model.CommentFilter{},
		func(f model.CommentFilter) map[string]string {
			return map[string]string{"status": f.Status}
		},
		d.Comments.ListComments)
	return p
}

func (p *CommentsPage) Approve(ctx context.Context, id string) error {
	return p.one(ctx, "approve", id, p.svc.Comments.ApproveComment)
}

func (p *CommentsPage) Reject(ctx context.Context, id string) error {
	return p.one(ctx, "reject", id, p.svc.Comments.RejectComment)
}

func (p *CommentsPage) Delete(ctx context.Context, id string, confirmed bool) error {
	if err := Confirm(confirmed, "Are you sure you want to delete this comment?"); err != nil {
		return err
	}
	return p.one(ctx, "delete", id, p.svc.Comments.DeleteComment)
}

func (p *CommentsPage) one(ctx context.Context, action, id string, fn func(context.Context, string) error) error {
	return p.mut.Run(ctx, Mutation{
		Action:   action,
		IDs:      []string{id},
		Families: []string{familyComments},
		Do:       func(ctx context.Context) error { return fn(ctx, id) },
	})
}

func (p *CommentsPage) BulkApprove(ctx context.Context) error {
	return p.bulk(ctx, "bulk-approve", p.svc.Comments.BulkApprove)
}

func (p *CommentsPage) BulkReject(ctx context.Context) error {
	return p.bulk(ctx, "bulk-reject", p.svc.Comments.BulkReject)
}

func (p *CommentsPage) bulk(ctx context.Context, action string, fn func(context.Context, []string) error) error {
	ids := p.Selected()
	if len(ids) == 0 {
		return ErrEmptySelection
	}
	err := p.mut.Run(ctx, Mutation{
		Action:   action,
		IDs:      ids,
		Families: []string{familyComments},
		Do:       func(ctx context.Context) error { return fn(ctx, ids) },
	})
	if err == nil {
		p.ClearSelection()
	}
	return err
}
