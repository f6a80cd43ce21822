package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"orgroster/internal/domain"
	"orgroster/internal/logger"
)

const membersTable = "members"

var memberColumns = []string{"id", "name", "title", "unit_id"}

// MemberRow is a raw members row
type MemberRow struct {
	ID     int64
	Name   string
	Title  string
	UnitID int64
}

// MemberRepository persists members and owns their identity cache
type MemberRepository struct {
	db    *DB
	cache *identityMap[domain.Member]
	log   logger.Logger
}

// NewMemberRepository creates a member repository with an empty identity cache
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{
		db:    db,
		cache: newIdentityMap[domain.Member](),
		log:   db.log.With("table", membersTable),
	}
}

// CreateTable creates the members table if it does not exist. The unit_id
// reference is declared but only enforced if foreign keys are switched on.
func (r *MemberRepository) CreateTable(ctx context.Context) error {
	_, err := r.db.execRaw(ctx, "create members table", `
		CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY,
			name TEXT,
			title TEXT,
			unit_id INTEGER,
			FOREIGN KEY (unit_id) REFERENCES organizational_units(id)
		)
	`)
	return err
}

// DropTable drops the members table if it exists and forgets every cached member
func (r *MemberRepository) DropTable(ctx context.Context) error {
	if _, err := r.db.execRaw(ctx, "drop members table", `DROP TABLE IF EXISTS members`); err != nil {
		return err
	}
	r.cache.reset()
	return nil
}

// Save inserts a new row for member and assigns the generated id back onto it
func (r *MemberRepository) Save(ctx context.Context, member *domain.Member) error {
	if member == nil {
		return fmt.Errorf("sqlite: save member: %w", ErrNilEntity)
	}
	if member.Persisted() {
		return fmt.Errorf("sqlite: save member %d: %w", member.ID, ErrAlreadyPersisted)
	}

	res, err := r.db.exec(ctx, "save member", sq.Insert(membersTable).
		Columns("name", "title", "unit_id").
		Values(member.Name, member.Title, member.UnitID))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: save member: last insert id: %w", err)
	}

	member.ID = id
	r.cache.put(id, member)
	r.log.Debug("member saved", "id", id, "name", member.Name, "unit_id", member.UnitID)
	return nil
}

// Create builds a member and saves it
func (r *MemberRepository) Create(ctx context.Context, name, title string, unitID int64) (*domain.Member, error) {
	member := domain.NewMember(name, title, unitID)
	if err := r.Save(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// Update overwrites the row matching member.ID with the member's fields.
// A member without an id is left alone.
func (r *MemberRepository) Update(ctx context.Context, member *domain.Member) error {
	if !member.Persisted() {
		r.log.Warn("update skipped: member has no id", "member", member.String())
		return nil
	}

	res, err := r.db.exec(ctx, "update member", sq.Update(membersTable).
		Set("name", member.Name).
		Set("title", member.Title).
		Set("unit_id", member.UnitID).
		Where(sq.Eq{"id": member.ID}))
	if err != nil {
		return err
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		r.log.Debug("update matched no row", "id", member.ID)
	}

	r.cache.put(member.ID, member)
	return nil
}

// Delete removes the row for member, evicts it from the cache and detaches it.
// A member without an id is left alone.
func (r *MemberRepository) Delete(ctx context.Context, member *domain.Member) error {
	if !member.Persisted() {
		r.log.Warn("delete skipped: member has no id", "member", member.String())
		return nil
	}

	if _, err := r.db.exec(ctx, "delete member", sq.Delete(membersTable).Where(sq.Eq{"id": member.ID})); err != nil {
		return err
	}

	r.cache.evict(member.ID)
	r.log.Debug("member deleted", "id", member.ID)
	member.Detach()
	return nil
}

// FindByID returns the member with the given id, or nil if there is none
func (r *MemberRepository) FindByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.findOne(ctx, "find member by id", sq.Eq{"id": id})
}

// FindByName returns the first member (lowest id) with the given name, or nil
func (r *MemberRepository) FindByName(ctx context.Context, name string) (*domain.Member, error) {
	return r.findOne(ctx, "find member by name", sq.Eq{"name": name})
}

func (r *MemberRepository) findOne(ctx context.Context, op string, pred sq.Eq) (*domain.Member, error) {
	rows, err := queryAll(ctx, r.db, op, sq.Select(memberColumns...).
		From(membersTable).
		Where(pred).
		OrderBy("id").
		Limit(1), scanMemberRow)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return r.InstanceFromRow(rows[0]), nil
}

// GetAll returns every member in storage order
func (r *MemberRepository) GetAll(ctx context.Context) ([]*domain.Member, error) {
	rows, err := queryAll(ctx, r.db, "list members", sq.Select(memberColumns...).
		From(membersTable).
		OrderBy("id"), scanMemberRow)
	if err != nil {
		return nil, err
	}

	members := make([]*domain.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, r.InstanceFromRow(row))
	}
	return members, nil
}

// InstanceFromRow returns the cached member for row.ID with its fields
// refreshed from row, or caches and returns a new member
func (r *MemberRepository) InstanceFromRow(row MemberRow) *domain.Member {
	return r.cache.resolve(row.ID,
		func(m *domain.Member) {
			m.Name = row.Name
			m.Title = row.Title
			m.UnitID = row.UnitID
		},
		func() *domain.Member {
			return &domain.Member{ID: row.ID, Name: row.Name, Title: row.Title, UnitID: row.UnitID}
		})
}

// Cached returns the live instance for id, or nil if none is cached
func (r *MemberRepository) Cached(id int64) *domain.Member {
	m, _ := r.cache.get(id)
	return m
}

// ResetCache forgets every cached member
func (r *MemberRepository) ResetCache() {
	r.cache.reset()
}

// TableExists reports whether the members table exists
func (r *MemberRepository) TableExists(ctx context.Context) (bool, error) {
	return r.db.tableExists(ctx, membersTable)
}
