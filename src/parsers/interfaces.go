package parsers

import (
	"io"

	"github.com/username/anchorcomply/backend/src/models"
)

// TableParser turns an uploaded byte stream into a RawTable. The header row is
// required; cell values are kept as text and coerced later by the schema layer.
type TableParser interface {
	Parse(file io.Reader) (*models.RawTable, error)
}
