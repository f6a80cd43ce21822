package domain

import "fmt"

// Member represents a person belonging to an organizational unit.
// UnitID is a plain reference; it is not required to point at an existing unit.
type Member struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	UnitID int64  `json:"unit_id"`
}

// NewMember creates an unpersisted member assigned to the given unit
func NewMember(name, title string, unitID int64) *Member {
	return &Member{
		Name:   name,
		Title:  title,
		UnitID: unitID,
	}
}

// Persisted reports whether the member has a database-assigned id
func (m *Member) Persisted() bool {
	return m != nil && m.ID != 0
}

// Detach clears the id, marking the member as no longer backed by a row
func (m *Member) Detach() {
	m.ID = 0
}

// BelongsTo reports whether the member references the given unit
func (m *Member) BelongsTo(u *Unit) bool {
	return u.Persisted() && m.UnitID == u.ID
}

// String returns a debug representation such as
// <Member 3: Raha, Accountant, Unit ID: 1>
func (m *Member) String() string {
	if m == nil {
		return "<Member nil>"
	}
	return fmt.Sprintf("<Member %s: %s, %s, Unit ID: %d>", idString(m.ID), m.Name, m.Title, m.UnitID)
}
