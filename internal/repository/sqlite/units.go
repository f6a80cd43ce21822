package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"orgroster/internal/domain"
	"orgroster/internal/logger"
)

const unitsTable = "organizational_units"

var unitColumns = []string{"id", "name", "location"}

// UnitRow is a raw organizational_units row
type UnitRow struct {
	ID       int64
	Name     string
	Location string
}

// UnitRepository persists units and owns their identity cache
type UnitRepository struct {
	db    *DB
	cache *identityMap[domain.Unit]
	log   logger.Logger
}

// NewUnitRepository creates a unit repository with an empty identity cache
func NewUnitRepository(db *DB) *UnitRepository {
	return &UnitRepository{
		db:    db,
		cache: newIdentityMap[domain.Unit](),
		log:   db.log.With("table", unitsTable),
	}
}

// CreateTable creates the units table if it does not exist
func (r *UnitRepository) CreateTable(ctx context.Context) error {
	_, err := r.db.execRaw(ctx, "create units table", `
		CREATE TABLE IF NOT EXISTS organizational_units (
			id INTEGER PRIMARY KEY,
			name TEXT,
			location TEXT
		)
	`)
	return err
}

// DropTable drops the units table if it exists and forgets every cached unit
func (r *UnitRepository) DropTable(ctx context.Context) error {
	if _, err := r.db.execRaw(ctx, "drop units table", `DROP TABLE IF EXISTS organizational_units`); err != nil {
		return err
	}
	r.cache.reset()
	return nil
}

// Save inserts a new row for unit and assigns the generated id back onto it
func (r *UnitRepository) Save(ctx context.Context, unit *domain.Unit) error {
	if unit == nil {
		return fmt.Errorf("sqlite: save unit: %w", ErrNilEntity)
	}
	if unit.Persisted() {
		return fmt.Errorf("sqlite: save unit %d: %w", unit.ID, ErrAlreadyPersisted)
	}

	res, err := r.db.exec(ctx, "save unit", sq.Insert(unitsTable).
		Columns("name", "location").
		Values(unit.Name, unit.Location))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: save unit: last insert id: %w", err)
	}

	unit.ID = id
	r.cache.put(id, unit)
	r.log.Debug("unit saved", "id", id, "name", unit.Name)
	return nil
}

// Create builds a unit and saves it
func (r *UnitRepository) Create(ctx context.Context, name, location string) (*domain.Unit, error) {
	unit := domain.NewUnit(name, location)
	if err := r.Save(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// Update overwrites the row matching unit.ID with the unit's fields.
// A unit without an id is left alone.
func (r *UnitRepository) Update(ctx context.Context, unit *domain.Unit) error {
	if !unit.Persisted() {
		r.log.Warn("update skipped: unit has no id", "unit", unit.String())
		return nil
	}

	res, err := r.db.exec(ctx, "update unit", sq.Update(unitsTable).
		Set("name", unit.Name).
		Set("location", unit.Location).
		Where(sq.Eq{"id": unit.ID}))
	if err != nil {
		return err
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		r.log.Debug("update matched no row", "id", unit.ID)
	}

	r.cache.put(unit.ID, unit)
	return nil
}

// Delete removes the row for unit, evicts it from the cache and detaches it.
// A unit without an id is left alone.
func (r *UnitRepository) Delete(ctx context.Context, unit *domain.Unit) error {
	if !unit.Persisted() {
		r.log.Warn("delete skipped: unit has no id", "unit", unit.String())
		return nil
	}

	if _, err := r.db.exec(ctx, "delete unit", sq.Delete(unitsTable).Where(sq.Eq{"id": unit.ID})); err != nil {
		return err
	}

	r.cache.evict(unit.ID)
	r.log.Debug("unit deleted", "id", unit.ID)
	unit.Detach()
	return nil
}

// FindByID returns the unit with the given id, or nil if there is none
func (r *UnitRepository) FindByID(ctx context.Context, id int64) (*domain.Unit, error) {
	return r.findOne(ctx, "find unit by id", sq.Eq{"id": id})
}

// FindByName returns the first unit (lowest id) with the given name, or nil
func (r *UnitRepository) FindByName(ctx context.Context, name string) (*domain.Unit, error) {
	return r.findOne(ctx, "find unit by name", sq.Eq{"name": name})
}

func (r *UnitRepository) findOne(ctx context.Context, op string, pred sq.Eq) (*domain.Unit, error) {
	rows, err := queryAll(ctx, r.db, op, sq.Select(unitColumns...).
		From(unitsTable).
		Where(pred).
		OrderBy("id").
		Limit(1), scanUnitRow)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return r.InstanceFromRow(rows[0]), nil
}

// GetAll returns every unit in storage order
func (r *UnitRepository) GetAll(ctx context.Context) ([]*domain.Unit, error) {
	rows, err := queryAll(ctx, r.db, "list units", sq.Select(unitColumns...).
		From(unitsTable).
		OrderBy("id"), scanUnitRow)
	if err != nil {
		return nil, err
	}

	units := make([]*domain.Unit, 0, len(rows))
	for _, row := range rows {
		units = append(units, r.InstanceFromRow(row))
	}
	return units, nil
}

// InstanceFromRow returns the cached unit for row.ID with its fields
// refreshed from row, or caches and returns a new unit
func (r *UnitRepository) InstanceFromRow(row UnitRow) *domain.Unit {
	return r.cache.resolve(row.ID,
		func(u *domain.Unit) {
			u.Name = row.Name
			u.Location = row.Location
		},
		func() *domain.Unit {
			return &domain.Unit{ID: row.ID, Name: row.Name, Location: row.Location}
		})
}

// Cached returns the live instance for id, or nil if none is cached
func (r *UnitRepository) Cached(id int64) *domain.Unit {
	u, _ := r.cache.get(id)
	return u
}

// ResetCache forgets every cached unit
func (r *UnitRepository) ResetCache() {
	r.cache.reset()
}

// TableExists reports whether the units table exists
func (r *UnitRepository) TableExists(ctx context.Context) (bool, error) {
	return r.db.tableExists(ctx, unitsTable)
}
