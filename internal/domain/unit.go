package domain

import "fmt"

// Unit represents an organizational unit (a department, team, or office)
type Unit struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// NewUnit creates an unpersisted unit
func NewUnit(name, location string) *Unit {
	return &Unit{
		Name:     name,
		Location: location,
	}
}

// Persisted reports whether the unit has a database-assigned id
func (u *Unit) Persisted() bool {
	return u != nil && u.ID != 0
}

// Detach clears the id, marking the unit as no longer backed by a row
func (u *Unit) Detach() {
	u.ID = 0
}

// String returns a debug representation such as <Unit 1: Payroll, Building A>
func (u *Unit) String() string {
	if u == nil {
		return "<Unit nil>"
	}
	return fmt.Sprintf("<Unit %s: %s, %s>", idString(u.ID), u.Name, u.Location)
}

// idString renders an id, using "None" for the unset value
func idString(id int64) string {
	if id == 0 {
		return "None"
	}
	return fmt.Sprintf("%d", id)
}
