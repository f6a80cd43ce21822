package service

import (
	"context"
	"errors"
	"fmt"

	"orgroster/internal/domain"
	"orgroster/internal/logger"
	"orgroster/internal/repository"
)

// ErrNotFound is returned when an operation targets an id with no row
var ErrNotFound = errors.New("not found")

// RosterService provides business logic over units and members
type RosterService struct {
	units      repository.UnitStore
	members    repository.MemberStore
	membership *Membership
	eventBus   *EventBus
	log        logger.Logger
}

// NewRosterService creates a new roster service
func NewRosterService(units repository.UnitStore, members repository.MemberStore, eventBus *EventBus, log logger.Logger) *RosterService {
	if log == nil {
		log = logger.Nop()
	}
	return &RosterService{
		units:      units,
		members:    members,
		membership: NewMembership(units, members),
		eventBus:   eventBus,
		log:        log,
	}
}

// Membership exposes the relationship accessor used by the service
func (s *RosterService) Membership() *Membership {
	return s.membership
}

// Init creates both tables
func (s *RosterService) Init(ctx context.Context) error {
	if err := s.units.CreateTable(ctx); err != nil {
		return err
	}
	return s.members.CreateTable(ctx)
}

// Reset drops both tables, members first since they reference units
func (s *RosterService) Reset(ctx context.Context) error {
	if err := s.members.DropTable(ctx); err != nil {
		return err
	}
	if err := s.units.DropTable(ctx); err != nil {
		return err
	}
	s.eventBus.Publish(Event{Type: EventRosterReset})
	return nil
}

// AddUnit creates a new unit
func (s *RosterService) AddUnit(ctx context.Context, name, location string) (*domain.Unit, error) {
	unit, err := s.units.Create(ctx, name, location)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventUnitCreated,
		Payload: map[string]any{"unit_id": unit.ID, "name": unit.Name},
	})
	return unit, nil
}

// GetUnit returns the unit with the given id
func (s *RosterService) GetUnit(ctx context.Context, id int64) (*domain.Unit, error) {
	unit, err := s.units.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("unit %d: %w", id, ErrNotFound)
	}
	return unit, nil
}

// RenameUnit changes a unit's name and location
func (s *RosterService) RenameUnit(ctx context.Context, id int64, name, location string) (*domain.Unit, error) {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return nil, err
	}

	unit.Name = name
	unit.Location = location
	if err := s.units.Update(ctx, unit); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventUnitUpdated,
		Payload: map[string]any{"unit_id": unit.ID},
	})
	return unit, nil
}

// RemoveUnit deletes a unit. Its members keep the now dangling unit id.
func (s *RosterService) RemoveUnit(ctx context.Context, id int64) error {
	unit, err := s.GetUnit(ctx, id)
	if err != nil {
		return err
	}

	orphans, err := s.membership.MembersOf(ctx, unit)
	if err != nil {
		return err
	}
	if err := s.units.Delete(ctx, unit); err != nil {
		return err
	}
	if len(orphans) > 0 {
		s.log.Warn("unit removed with members still assigned", "unit_id", id, "members", len(orphans))
	}

	s.eventBus.Publish(Event{
		Type:    EventUnitDeleted,
		Payload: map[string]any{"unit_id": id},
	})
	return nil
}

// ListUnits returns every unit in storage order
func (s *RosterService) ListUnits(ctx context.Context) ([]*domain.Unit, error) {
	return s.units.GetAll(ctx)
}

// AddMember creates a new member in the given unit
func (s *RosterService) AddMember(ctx context.Context, name, title string, unitID int64) (*domain.Member, error) {
	s.warnIfMissingUnit(ctx, unitID)

	member, err := s.members.Create(ctx, name, title, unitID)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventMemberCreated,
		Payload: map[string]any{"member_id": member.ID, "unit_id": unitID},
	})
	return member, nil
}

// GetMember returns the member with the given id
func (s *RosterService) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("member %d: %w", id, ErrNotFound)
	}
	return member, nil
}

// MoveMember reassigns a member to another unit
func (s *RosterService) MoveMember(ctx context.Context, memberID, unitID int64) (*domain.Member, error) {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	s.warnIfMissingUnit(ctx, unitID)

	from := member.UnitID
	member.UnitID = unitID
	if err := s.members.Update(ctx, member); err != nil {
		member.UnitID = from
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventMemberMoved,
		Payload: map[string]any{"member_id": member.ID, "from_unit_id": from, "to_unit_id": unitID},
	})
	return member, nil
}

// RemoveMember deletes a member
func (s *RosterService) RemoveMember(ctx context.Context, id int64) error {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return err
	}
	if err := s.members.Delete(ctx, member); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventMemberDeleted,
		Payload: map[string]any{"member_id": id},
	})
	return nil
}

// ListMembers returns the members of a unit, or every member when unitID is 0
func (s *RosterService) ListMembers(ctx context.Context, unitID int64) ([]*domain.Member, error) {
	if unitID == 0 {
		return s.members.GetAll(ctx)
	}
	unit, err := s.GetUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	return s.membership.MembersOf(ctx, unit)
}

// Export snapshots every unit and member
func (s *RosterService) Export(ctx context.Context) (*domain.Roster, error) {
	units, err := s.units.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.members.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	roster := domain.NewRoster()
	for _, u := range units {
		roster.AddUnit(*u)
	}
	for _, m := range members {
		roster.AddMember(*m)
	}
	return roster, nil
}

// ImportResult summarizes an import
type ImportResult struct {
	Units   int `json:"units"`
	Members int `json:"members"`
}

// Import inserts every unit and member of roster as new rows. Member unit
// ids that refer to a unit in the roster are rewritten to that unit's new
// id; any other unit id is kept as is.
func (s *RosterService) Import(ctx context.Context, roster *domain.Roster) (*ImportResult, error) {
	result := &ImportResult{}
	if roster == nil {
		return result, nil
	}

	ids := make(map[int64]int64, len(roster.Units))
	for _, u := range roster.Units {
		created, err := s.units.Create(ctx, u.Name, u.Location)
		if err != nil {
			return result, fmt.Errorf("import unit %q: %w", u.Name, err)
		}
		if u.ID != 0 {
			ids[u.ID] = created.ID
		}
		result.Units++
	}

	for _, m := range roster.Members {
		unitID := m.UnitID
		if newID, ok := ids[unitID]; ok {
			unitID = newID
		}
		if _, err := s.members.Create(ctx, m.Name, m.Title, unitID); err != nil {
			return result, fmt.Errorf("import member %q: %w", m.Name, err)
		}
		result.Members++
	}

	s.log.Info("roster imported", "units", result.Units, "members", result.Members)
	s.eventBus.Publish(Event{Type: EventRosterImported, Payload: result})
	return result, nil
}

func (s *RosterService) warnIfMissingUnit(ctx context.Context, unitID int64) {
	unit, err := s.units.FindByID(ctx, unitID)
	if err == nil && unit == nil {
		s.log.Warn("member assigned to unknown unit", "unit_id", unitID)
	}
}
