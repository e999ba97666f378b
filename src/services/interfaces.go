package services

import (
	"io"

	"github.com/username/anchorcomply/backend/src/models"
)

// UploadResult is what the mapping UI needs after an upload: the detected
// headers, a suggested mapping to confirm or override, and a short preview.
type UploadResult struct {
	SessionID string              `json:"session_id"`
	Kind      models.DatasetKind  `json:"kind"`
	Headers   []string            `json:"headers"`
	RowCount  int                 `json:"row_count"`
	Suggested models.FieldMapping `json:"suggested_mapping"`
	Preview   []models.RawRow     `json:"preview"`
}

// AuditService is the boundary the HTTP layer calls into. Sessions are
// explicit values identified by ID; nothing below this interface reads
// ambient state.
type AuditService interface {
	// UploadDataset parses an uploaded file (format is "csv" or "xlsx") into
	// the session's dataset slot and suggests a field mapping. An empty
	// sessionID starts a new session.
	UploadDataset(sessionID string, kind models.DatasetKind, format string, file io.Reader) (*UploadResult, error)

	// SetMappingOverrides replaces the suggested column choice for individual
	// canonical fields and returns the now-effective mapping.
	SetMappingOverrides(sessionID string, kind models.DatasetKind, overrides map[string]string) (*models.FieldMapping, error)

	// RunAudit normalizes the session's datasets and runs all reconciliation
	// checks. Only the sales dataset is required.
	RunAudit(sessionID string) (*models.AuditResult, error)

	// BuildReport runs the audit and renders the PDF report.
	BuildReport(sessionID string) ([]byte, error)
}
