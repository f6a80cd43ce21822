// Package codec reads and writes roster snapshots in interchange formats.
package codec

import (
	"fmt"
	"io"

	"orgroster/internal/domain"
)

// Importer interface for importing roster data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Roster, error)
	Format() string
}

// Exporter interface for exporting roster data to various formats
type Exporter interface {
	Export(roster *domain.Roster, w io.Writer) error
	Format() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec registered for format
func ForFormat(format string) (Codec, error) {
	switch format {
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (want yaml or json)", format)
	}
}
