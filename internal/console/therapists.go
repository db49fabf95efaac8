package console

import (
	"context"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
)

const familyTherapists = "admin-therapists"

// TherapistGroups splits the rendered page for the summary cards. Pending
// profiles are also counted as unverified.
type TherapistGroups struct {
	Verified   []model.TherapistProfile `json:"verified"`
	Unverified []model.TherapistProfile `json:"unverified"`
	Pending    []model.TherapistProfile `json:"pending"`
}

func GroupTherapists(profiles []model.TherapistProfile) TherapistGroups {
	g := TherapistGroups{
		Verified:   []model.TherapistProfile{},
		Unverified: []model.TherapistProfile{},
		Pending:    []model.TherapistProfile{},
	}
	for _, p := range profiles {
		if p.IsVerified {
			g.Verified = append(g.Verified, p)
			continue
		}
		g.Unverified = append(g.Unverified, p)
		if p.PendingReview() {
			g.Pending = append(g.Pending, p)
		}
	}
	return g
}

// TherapistsPage reviews therapist and doctor profiles.
type TherapistsPage struct {
	*List[model.TherapistProfile, model.TherapistFilter]
	svc Services
	mut *Mutator

	mu     sync.Mutex
	detail *model.TherapistProfile
}

func NewTherapistsPage(d Deps) *TherapistsPage {
	p := &TherapistsPage{svc: d.Services, mut: newMutator("therapists", d)}
	p.List = NewList[model.TherapistProfile, model.TherapistFilter](d.Cache, familyTherapists, model.TherapistFilter{},
		func(f model.TherapistFilter) map[string]string {
			return map[string]string{"isVerified": f.IsVerified, "role": f.Role, "search": f.Search}
		},
		d.Therapists.ListProfiles)
	return p
}

func (p *TherapistsPage) Groups() TherapistGroups {
	return GroupTherapists(p.Items())
}

// OpenDetail loads one profile into the detail view. On failure the view
// stays as it was.
func (p *TherapistsPage) OpenDetail(ctx context.Context, id string) (*model.TherapistProfile, error) {
	profile, err := p.svc.Therapists.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.detail = profile
	p.mu.Unlock()
	return profile, nil
}

// Detail returns the open profile, nil when the detail view is closed.
func (p *TherapistsPage) Detail() *model.TherapistProfile {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.detail
}

func (p *TherapistsPage) CloseDetail() {
	p.mu.Lock()
	p.detail = nil
	p.mu.Unlock()
}

func (p *TherapistsPage) Verify(ctx context.Context, id, notes string) error {
	err := p.mut.Run(ctx, Mutation{
		Action:   "verify",
		IDs:      []string{id},
		Meta:     notesMeta("notes", notes),
		Families: []string{familyTherapists},
		Do:       func(ctx context.Context) error { return p.svc.Therapists.Verify(ctx, id, notes) },
	})
	if err == nil {
		p.CloseDetail()
	}
	return err
}

func (p *TherapistsPage) Unverify(ctx context.Context, id, reason string, confirmed bool) error {
	if err := Confirm(confirmed, "Are you sure you want to unverify this profile?"); err != nil {
		return err
	}
	err := p.mut.Run(ctx, Mutation{
		Action:   "unverify",
		IDs:      []string{id},
		Meta:     notesMeta("reason", reason),
		Families: []string{familyTherapists},
		Do:       func(ctx context.Context) error { return p.svc.Therapists.Unverify(ctx, id, reason) },
	})
	if err == nil {
		p.CloseDetail()
	}
	return err
}
