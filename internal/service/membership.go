package service

import (
	"context"

	"orgroster/internal/domain"
	"orgroster/internal/repository"
)

// Membership resolves the one-to-many link between units and members
type Membership struct {
	units   repository.UnitFinder
	members repository.MemberLister
}

// NewMembership creates a relationship accessor over the two stores
func NewMembership(units repository.UnitFinder, members repository.MemberLister) *Membership {
	return &Membership{
		units:   units,
		members: members,
	}
}

// MembersOf returns the members whose unit id equals unit.ID, in storage order.
// An unsaved unit has no members.
func (m *Membership) MembersOf(ctx context.Context, unit *domain.Unit) ([]*domain.Member, error) {
	if !unit.Persisted() {
		return []*domain.Member{}, nil
	}

	all, err := m.members.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Member, 0)
	for _, member := range all {
		if member.BelongsTo(unit) {
			out = append(out, member)
		}
	}
	return out, nil
}

// UnitOf returns the unit a member references, or nil when the reference is
// dangling
func (m *Membership) UnitOf(ctx context.Context, member *domain.Member) (*domain.Unit, error) {
	if member == nil || member.UnitID == 0 {
		return nil, nil
	}
	return m.units.FindByID(ctx, member.UnitID)
}
