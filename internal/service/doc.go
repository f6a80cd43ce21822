// Package service implements business logic for orgroster.
//
// # Services
//
// Membership is the relationship accessor between units and members. It
// depends on the stores only through the narrow repository.UnitFinder and
// repository.MemberLister interfaces, and filters the full member list by
// unit id rather than pushing a join down to the database.
//
// RosterService coordinates the unit and member stores for the CLI: schema
// setup, CRUD by id, moving members between units, and roster import/export.
// Unknown ids surface as ErrNotFound here, while the repositories below
// simply return nil.
//
// # Event System
//
// RosterService publishes events via EventBus. Publishing never blocks; a
// subscriber that is not ready misses the event.
package service
