package domain

// Roster is a snapshot of units and members for import/export operations
type Roster struct {
	Units   []Unit   `json:"units"`
	Members []Member `json:"members"`
}

// NewRoster creates an empty roster
func NewRoster() *Roster {
	return &Roster{
		Units:   make([]Unit, 0),
		Members: make([]Member, 0),
	}
}

// AddUnit adds a unit to the roster
func (r *Roster) AddUnit(unit Unit) {
	r.Units = append(r.Units, unit)
}

// AddMember adds a member to the roster
func (r *Roster) AddMember(member Member) {
	r.Members = append(r.Members, member)
}

// MembersOf returns the roster members referencing the given unit id, in roster order
func (r *Roster) MembersOf(unitID int64) []Member {
	var out []Member
	for _, m := range r.Members {
		if m.UnitID == unitID {
			out = append(out, m)
		}
	}
	return out
}
