package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgroster/internal/domain"
)

func newTestService(t *testing.T) (*RosterService, chan Event) {
	t.Helper()
	units, members := newStores(t)
	bus := NewEventBus()
	events := make(chan Event, 32)
	bus.Subscribe(events)
	return NewRosterService(units, members, bus, nil), events
}

func drain(ch chan Event) []EventType {
	var out []EventType
	for {
		select {
		case e := <-ch:
			out = append(out, e.Type)
		default:
			return out
		}
	}
}

func TestRosterServiceUnits(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	payroll, err := svc.AddUnit(ctx, "Payroll", "Building A")
	require.NoError(t, err)

	renamed, err := svc.RenameUnit(ctx, payroll.ID, "Payroll & Benefits", "Building B")
	require.NoError(t, err)
	assert.Same(t, payroll, renamed)

	all, err := svc.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Payroll & Benefits", all[0].Name)

	_, err = svc.RenameUnit(ctx, 999, "x", "y")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.RemoveUnit(ctx, payroll.ID))
	require.ErrorIs(t, svc.RemoveUnit(ctx, payroll.ID), ErrNotFound)

	assert.Equal(t, []EventType{EventUnitCreated, EventUnitUpdated, EventUnitDeleted}, drain(events))
}

func TestRosterServiceMembers(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	payroll, err := svc.AddUnit(ctx, "Payroll", "Building A")
	require.NoError(t, err)
	hr, err := svc.AddUnit(ctx, "Human Resources", "Building C")
	require.NoError(t, err)

	raha, err := svc.AddMember(ctx, "Raha", "Accountant", payroll.ID)
	require.NoError(t, err)
	tal, err := svc.AddMember(ctx, "Tal", "Senior Accountant", payroll.ID)
	require.NoError(t, err)

	moved, err := svc.MoveMember(ctx, tal.ID, hr.ID)
	require.NoError(t, err)
	assert.Equal(t, hr.ID, moved.UnitID)

	inPayroll, err := svc.ListMembers(ctx, payroll.ID)
	require.NoError(t, err)
	assert.Equal(t, []*domain.Member{raha}, inPayroll)

	everyone, err := svc.ListMembers(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, everyone, 2)

	_, err = svc.ListMembers(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MoveMember(ctx, 999, hr.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.RemoveMember(ctx, raha.ID))
	assert.False(t, raha.Persisted())
	require.ErrorIs(t, svc.RemoveMember(ctx, raha.ID), ErrNotFound)

	drain(events)
}

func TestRosterServiceRemoveUnitLeavesOrphans(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	payroll, err := svc.AddUnit(ctx, "Payroll", "Building A")
	require.NoError(t, err)
	raha, err := svc.AddMember(ctx, "Raha", "Accountant", payroll.ID)
	require.NoError(t, err)
	payrollID := payroll.ID

	require.NoError(t, svc.RemoveUnit(ctx, payrollID))

	got, err := svc.GetMember(ctx, raha.ID)
	require.NoError(t, err)
	assert.Equal(t, payrollID, got.UnitID)

	u, err := svc.Membership().UnitOf(ctx, got)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRosterServiceExportImport(t *testing.T) {
	src, _ := newTestService(t)
	ctx := context.Background()

	payroll, err := src.AddUnit(ctx, "Payroll", "Building A")
	require.NoError(t, err)
	hr, err := src.AddUnit(ctx, "Human Resources", "Building C")
	require.NoError(t, err)
	_, err = src.AddMember(ctx, "Raha", "Accountant", payroll.ID)
	require.NoError(t, err)
	_, err = src.AddMember(ctx, "Amir", "Manager", hr.ID)
	require.NoError(t, err)

	roster, err := src.Export(ctx)
	require.NoError(t, err)
	require.Len(t, roster.Units, 2)
	require.Len(t, roster.Members, 2)

	dst, events := newTestService(t)
	// occupy id 1 so imported ids must be remapped
	_, err = dst.AddUnit(ctx, "Existing", "HQ")
	require.NoError(t, err)
	drain(events)

	result, err := dst.Import(ctx, roster)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Units: 2, Members: 2}, result)
	assert.Equal(t, []EventType{EventRosterImported}, drain(events))

	units, err := dst.ListUnits(ctx)
	require.NoError(t, err)
	require.Len(t, units, 3)

	importedPayroll := units[1]
	assert.Equal(t, "Payroll", importedPayroll.Name)
	members, err := dst.ListMembers(ctx, importedPayroll.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Raha", members[0].Name)
}

func TestRosterServiceInitReset(t *testing.T) {
	svc, events := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Init(ctx))
	_, err := svc.AddUnit(ctx, "Payroll", "Building A")
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))
	require.NoError(t, svc.Init(ctx))

	units, err := svc.ListUnits(ctx)
	require.NoError(t, err)
	assert.Empty(t, units)
	assert.Contains(t, drain(events), EventRosterReset)
}

func TestEventBusSkipsSlowSubscribers(t *testing.T) {
	bus := NewEventBus()
	full := make(chan Event)
	ready := make(chan Event, 1)
	bus.Subscribe(full)
	bus.Subscribe(ready)

	bus.Publish(Event{Type: EventUnitCreated})

	assert.Equal(t, EventUnitCreated, (<-ready).Type)

	var nilBus *EventBus
	nilBus.Publish(Event{Type: EventUnitCreated})
}
