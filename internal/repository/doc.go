// Package repository defines the data access interfaces for orgroster.
//
// The actual implementation is in the sqlite subpackage. Services depend on
// these interfaces rather than on each other's concrete repositories, so the
// unit and member stores never need to import one another.
//
// # Conventions
//
// Lookups that match no row return a nil entity and a nil error; deciding
// whether "not found" is a problem is left to the caller.
//
// Every persisted entity is represented by exactly one live object per
// repository. Repeated loads of the same row return the same pointer.
package repository
