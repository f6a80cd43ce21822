// Package sqlite implements the repository interfaces on top of
// modernc.org/sqlite.
//
// Every statement runs through the retry policy held by DB: lock contention
// (SQLITE_BUSY / SQLITE_LOCKED) is retried with a fixed delay, anything else
// fails at once. Each attempt checks out its own connection and releases it
// before the next attempt starts.
//
// UnitRepository and MemberRepository each own an identity cache, so loading
// the same row twice yields the same pointer.
package sqlite
