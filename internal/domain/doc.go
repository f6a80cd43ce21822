// Package domain defines the core entity types for orgroster.
//
// # Core Types
//
// Unit represents an organizational unit such as a department, with a name
// and a location.
//
// Member represents a person working in a unit. Members reference their unit
// by id only; the reference is not enforced by the database.
//
// Roster is a plain snapshot of units and members used for import and export.
//
// # Identity
//
// Both entities carry an int64 ID assigned by the database on first save.
// The zero value means the entity has never been persisted, or has been
// deleted and detached.
//
// # Design Principles
//
// - No database or external dependencies
// - Pure value types; persistence lives in the repository packages
package domain
