package codec

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"orgroster/internal/domain"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlRoster represents the YAML structure for roster data. Members may be
// listed at the top level with a unit_id, or nested under their unit.
type yamlRoster struct {
	Units   []yamlUnit   `yaml:"units"`
	Members []yamlMember `yaml:"members,omitempty"`
}

type yamlUnit struct {
	ID       int64        `yaml:"id,omitempty"`
	Name     string       `yaml:"name"`
	Location string       `yaml:"location"`
	Members  []yamlMember `yaml:"members,omitempty"`
}

type yamlMember struct {
	ID     int64  `yaml:"id,omitempty"`
	Name   string `yaml:"name"`
	Title  string `yaml:"title"`
	UnitID int64  `yaml:"unit_id,omitempty"`
}

// Parse imports roster data from YAML. Nested members take their unit's id;
// a nested unit without an id gets a negative placeholder so its members
// still resolve to it on import.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Roster, error) {
	var yr yamlRoster
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&yr); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	roster := domain.NewRoster()
	placeholder := int64(0)

	for _, yu := range yr.Units {
		unitID := yu.ID
		if unitID == 0 && len(yu.Members) > 0 {
			placeholder--
			unitID = placeholder
		}
		roster.AddUnit(domain.Unit{ID: unitID, Name: yu.Name, Location: yu.Location})

		for _, ym := range yu.Members {
			roster.AddMember(domain.Member{ID: ym.ID, Name: ym.Name, Title: ym.Title, UnitID: unitID})
		}
	}

	for _, ym := range yr.Members {
		roster.AddMember(domain.Member{ID: ym.ID, Name: ym.Name, Title: ym.Title, UnitID: ym.UnitID})
	}

	return roster, nil
}

// Export exports roster data to YAML, nesting each member under its unit.
// Members whose unit is not in the roster are listed at the top level.
func (c *YAMLCodec) Export(roster *domain.Roster, w io.Writer) error {
	yr := yamlRoster{
		Units: make([]yamlUnit, 0, len(roster.Units)),
	}

	known := make(map[int64]bool, len(roster.Units))
	for _, u := range roster.Units {
		known[u.ID] = true
		yu := yamlUnit{ID: u.ID, Name: u.Name, Location: u.Location}
		for _, m := range roster.MembersOf(u.ID) {
			yu.Members = append(yu.Members, yamlMember{ID: m.ID, Name: m.Name, Title: m.Title})
		}
		yr.Units = append(yr.Units, yu)
	}

	for _, m := range roster.Members {
		if !known[m.UnitID] {
			yr.Members = append(yr.Members, yamlMember{ID: m.ID, Name: m.Name, Title: m.Title, UnitID: m.UnitID})
		}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&yr); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}
