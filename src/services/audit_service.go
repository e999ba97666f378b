package services

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/anchorcomply/backend/src/audit"
	"github.com/username/anchorcomply/backend/src/logger"
	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/parsers"
	"github.com/username/anchorcomply/backend/src/report"
	"github.com/username/anchorcomply/backend/src/schema"
)

const (
	ckSession    = "session_%s"
	ckSuggestion = "suggest_%s_%s" // kind, header fingerprint

	previewRows = 3
)

type auditServiceImpl struct {
	store     *cache.Cache
	engine    *audit.Engine
	assembler *report.Assembler
	cutoff    float64
}

func NewAuditService(store *cache.Cache, engine *audit.Engine, assembler *report.Assembler, fuzzyCutoff float64) AuditService {
	return &auditServiceImpl{
		store:     store,
		engine:    engine,
		assembler: assembler,
		cutoff:    fuzzyCutoff,
	}
}

func (s *auditServiceImpl) UploadDataset(sessionID string, kind models.DatasetKind, format string, file io.Reader) (*UploadResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, kind)
	}

	parser, err := parsers.GetParser(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	table, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	session, err := s.getOrCreateSession(sessionID)
	if err != nil {
		return nil, err
	}

	suggested := s.suggestMapping(kind, table.Headers)
	session.Datasets[kind] = &models.Dataset{Table: table, Suggested: suggested}
	s.putSession(session)

	logger.L.Info("Dataset uploaded",
		"sessionID", session.ID, "kind", kind, "rows", table.RowCount(), "columns", len(table.Headers))

	return &UploadResult{
		SessionID: session.ID,
		Kind:      kind,
		Headers:   table.Headers,
		RowCount:  table.RowCount(),
		Suggested: suggested,
		Preview:   table.Preview(previewRows),
	}, nil
}

// suggestMapping serves repeated uploads of the same header shape from cache;
// recomputing the fuzzy match is cheap but pointless for re-uploads.
func (s *auditServiceImpl) suggestMapping(kind models.DatasetKind, headers []string) models.FieldMapping {
	key := fmt.Sprintf(ckSuggestion, kind, schema.Fingerprint(headers))
	if cached, found := s.store.Get(key); found {
		if mapping, ok := cached.(models.FieldMapping); ok {
			return mapping
		}
	}
	mapping := schema.Suggest(headers, models.SchemaFor(kind), s.cutoff)
	s.store.Set(key, mapping, cache.DefaultExpiration)
	return mapping
}

func (s *auditServiceImpl) SetMappingOverrides(sessionID string, kind models.DatasetKind, overrides map[string]string) (*models.FieldMapping, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, kind)
	}
	session, found := s.getSession(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	dataset := session.Dataset(kind)
	if dataset == nil {
		return nil, fmt.Errorf("%w: no %s dataset uploaded", ErrInvalidMapping, kind)
	}

	sch := models.SchemaFor(kind)
	for field, column := range overrides {
		if _, ok := sch.Field(field); !ok {
			return nil, fmt.Errorf("%w: unknown canonical field %q", ErrInvalidMapping, field)
		}
		if column != "" && !hasHeader(dataset.Table, column) {
			return nil, fmt.Errorf("%w: column %q not present in the uploaded table", ErrInvalidMapping, column)
		}
	}

	if dataset.Overrides == nil {
		dataset.Overrides = make(map[string]string, len(overrides))
	}
	for field, column := range overrides {
		dataset.Overrides[field] = column
	}
	s.putSession(session)

	effective := dataset.EffectiveMapping()
	logger.L.Info("Mapping overrides applied", "sessionID", session.ID, "kind", kind, "overrides", len(overrides))
	return &effective, nil
}

func (s *auditServiceImpl) RunAudit(sessionID string) (*models.AuditResult, error) {
	session, found := s.getSession(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	if session.Dataset(models.DatasetSales) == nil {
		return nil, ErrNoSalesData
	}

	started := time.Now()
	input := audit.Input{
		Sales:         s.canonicalize(session, models.DatasetSales),
		FilingExtract: s.canonicalize(session, models.DatasetFilingExtract),
		FilingLog:     s.canonicalize(session, models.DatasetFilingLog),
	}
	result := s.engine.Run(input)

	logger.L.Info("Audit run complete",
		"sessionID", session.ID,
		"mismatches", result.Summary.TotalMismatches,
		"duplicates", result.Summary.TotalDuplicates,
		"lateFilings", result.Summary.TotalLateFilings,
		"duration", time.Since(started))
	return result, nil
}

func (s *auditServiceImpl) BuildReport(sessionID string) ([]byte, error) {
	result, err := s.RunAudit(sessionID)
	if err != nil {
		return nil, err
	}
	return s.assembler.Assemble(result)
}

// canonicalize applies the dataset's effective mapping. A missing dataset
// yields nil records; the engine treats that as an empty table.
func (s *auditServiceImpl) canonicalize(session *models.AuditSession, kind models.DatasetKind) []models.CanonicalRecord {
	dataset := session.Dataset(kind)
	if dataset == nil {
		return nil
	}
	return schema.Apply(dataset.Table, dataset.EffectiveMapping(), models.SchemaFor(kind))
}

func (s *auditServiceImpl) getOrCreateSession(sessionID string) (*models.AuditSession, error) {
	if sessionID == "" {
		session := &models.AuditSession{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			Datasets:  make(map[models.DatasetKind]*models.Dataset),
		}
		logger.L.Debug("New audit session created", "sessionID", session.ID)
		return session, nil
	}
	session, found := s.getSession(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *auditServiceImpl) getSession(sessionID string) (*models.AuditSession, bool) {
	if sessionID == "" {
		return nil, false
	}
	cached, found := s.store.Get(fmt.Sprintf(ckSession, sessionID))
	if !found {
		return nil, false
	}
	session, ok := cached.(*models.AuditSession)
	return session, ok
}

func (s *auditServiceImpl) putSession(session *models.AuditSession) {
	s.store.Set(fmt.Sprintf(ckSession, session.ID), session, cache.DefaultExpiration)
}

func hasHeader(table *models.RawTable, column string) bool {
	if table == nil {
		return false
	}
	for _, h := range table.Headers {
		if h == column {
			return true
		}
	}
	return false
}
