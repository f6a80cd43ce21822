package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgroster/internal/domain"
	"orgroster/internal/logger"
	"orgroster/internal/repository/sqlite"
	"orgroster/internal/retry"
)

type fakeMembers struct {
	all []*domain.Member
	err error
}

func (f *fakeMembers) GetAll(context.Context) ([]*domain.Member, error) {
	return f.all, f.err
}

type fakeUnits map[int64]*domain.Unit

func (f fakeUnits) FindByID(_ context.Context, id int64) (*domain.Unit, error) {
	return f[id], nil
}

func newStores(t *testing.T) (*sqlite.UnitRepository, *sqlite.MemberRepository) {
	t.Helper()
	db, err := sqlite.Open(sqlite.Config{
		Path:  filepath.Join(t.TempDir(), "roster.db"),
		Retry: retry.Policy{MaxAttempts: 5, Delay: time.Millisecond},
	}, logger.NewLogger(logger.TestConfig()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	units := sqlite.NewUnitRepository(db)
	members := sqlite.NewMemberRepository(db)
	require.NoError(t, units.CreateTable(ctx))
	require.NoError(t, members.CreateTable(ctx))
	return units, members
}

func TestMembersOfFiltersByUnit(t *testing.T) {
	payroll := &domain.Unit{ID: 1, Name: "Payroll"}
	members := &fakeMembers{all: []*domain.Member{
		{ID: 1, Name: "Raha", UnitID: 1},
		{ID: 2, Name: "Amir", UnitID: 2},
		{ID: 3, Name: "Tal", UnitID: 1},
	}}
	m := NewMembership(fakeUnits{}, members)

	got, err := m.MembersOf(context.Background(), payroll)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Same(t, members.all[0], got[0])
	assert.Same(t, members.all[2], got[1])
}

func TestMembersOfUnsavedUnit(t *testing.T) {
	members := &fakeMembers{all: []*domain.Member{{ID: 1, Name: "Drifter", UnitID: 0}}}
	m := NewMembership(fakeUnits{}, members)

	got, err := m.MembersOf(context.Background(), domain.NewUnit("Draft", "Nowhere"))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = m.MembersOf(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMembersOfPropagatesErrors(t *testing.T) {
	boom := errors.New("disk I/O error")
	m := NewMembership(fakeUnits{}, &fakeMembers{err: boom})

	_, err := m.MembersOf(context.Background(), &domain.Unit{ID: 1})
	require.ErrorIs(t, err, boom)
}

func TestUnitOf(t *testing.T) {
	payroll := &domain.Unit{ID: 1, Name: "Payroll"}
	m := NewMembership(fakeUnits{1: payroll}, &fakeMembers{})
	ctx := context.Background()

	got, err := m.UnitOf(ctx, &domain.Member{ID: 1, UnitID: 1})
	require.NoError(t, err)
	assert.Same(t, payroll, got)

	got, err = m.UnitOf(ctx, &domain.Member{ID: 2, UnitID: 404})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = m.UnitOf(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMembersOfScenario(t *testing.T) {
	units, members := newStores(t)
	ctx := context.Background()
	m := NewMembership(units, members)

	payroll, err := units.Create(ctx, "Payroll", "Building A")
	require.NoError(t, err)
	hr, err := units.Create(ctx, "Human Resources", "Building C, 2nd Floor")
	require.NoError(t, err)

	raha, err := members.Create(ctx, "Raha", "Accountant", payroll.ID)
	require.NoError(t, err)
	tal, err := members.Create(ctx, "Tal", "Senior Accountant", payroll.ID)
	require.NoError(t, err)
	amir, err := members.Create(ctx, "Amir", "Manager", hr.ID)
	require.NoError(t, err)

	got, err := m.MembersOf(ctx, payroll)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Same(t, raha, got[0])
	assert.Same(t, tal, got[1])

	t.Run("moving a member changes the grouping", func(t *testing.T) {
		tal.UnitID = hr.ID
		require.NoError(t, members.Update(ctx, tal))

		got, err := m.MembersOf(ctx, payroll)
		require.NoError(t, err)
		assert.Equal(t, []*domain.Member{raha}, got)

		got, err = m.MembersOf(ctx, hr)
		require.NoError(t, err)
		assert.Equal(t, []*domain.Member{tal, amir}, got)
	})

	t.Run("unit of a member resolves to the cached unit", func(t *testing.T) {
		u, err := m.UnitOf(ctx, amir)
		require.NoError(t, err)
		assert.Same(t, hr, u)
	})
}
