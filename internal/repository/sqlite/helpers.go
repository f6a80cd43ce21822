package sqlite

import "database/sql"

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToInt64 safely converts sql.NullInt64 to int64 (NULL becomes 0)
func nullToInt64(ni sql.NullInt64) int64 {
	if ni.Valid {
		return ni.Int64
	}
	return 0
}

// ============================================================================
// Row Scanners
// ============================================================================
//
// Column order must match between:
// - unitColumns / memberColumns
// - scanArgs() return slice
//
// Name, location, title and unit_id are nullable in the schema, so rows
// written by other tools scan cleanly.

// unitRow holds all columns from a unit query for scanning
type unitRow struct {
	ID       int64
	Name     sql.NullString
	Location sql.NullString
}

// scanArgs returns pointers in unitColumns order: id, name, location
func (r *unitRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Location}
}

func (r *unitRow) toRow() UnitRow {
	return UnitRow{
		ID:       r.ID,
		Name:     nullToString(r.Name),
		Location: nullToString(r.Location),
	}
}

func scanUnitRow(rows *sql.Rows) (UnitRow, error) {
	var r unitRow
	if err := rows.Scan(r.scanArgs()...); err != nil {
		return UnitRow{}, err
	}
	return r.toRow(), nil
}

// memberRow holds all columns from a member query for scanning
type memberRow struct {
	ID     int64
	Name   sql.NullString
	Title  sql.NullString
	UnitID sql.NullInt64
}

// scanArgs returns pointers in memberColumns order: id, name, title, unit_id
func (r *memberRow) scanArgs() []any {
	return []any{&r.ID, &r.Name, &r.Title, &r.UnitID}
}

func (r *memberRow) toRow() MemberRow {
	return MemberRow{
		ID:     r.ID,
		Name:   nullToString(r.Name),
		Title:  nullToString(r.Title),
		UnitID: nullToInt64(r.UnitID),
	}
}

func scanMemberRow(rows *sql.Rows) (MemberRow, error) {
	var r memberRow
	if err := rows.Scan(r.scanArgs()...); err != nil {
		return MemberRow{}, err
	}
	return r.toRow(), nil
}
