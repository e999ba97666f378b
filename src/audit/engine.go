// Package audit implements the reconciliation checks over canonical records:
// sales-vs-filing mismatches, duplicate invoices, and late periodic filings.
// Every check is a pure function of its input; running an audit twice on the
// same records yields the same findings.
package audit

import (
	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/utils"
)

// Config carries the tunables for one audit run. It is immutable for the
// duration of the run.
type Config struct {
	MismatchTolerance float64
	FeePerDay         float64
	MinLateFee        float64
	MaxLateFee        float64
}

// DefaultConfig mirrors the documented defaults: 1.00 currency unit of
// tolerance, 50 per day late fee clamped to [100, 5000].
func DefaultConfig() Config {
	return Config{
		MismatchTolerance: 1.00,
		FeePerDay:         50,
		MinLateFee:        100,
		MaxLateFee:        5000,
	}
}

// Input is one audit run's worth of canonical records. The filing extract and
// filing log may be empty or nil; the corresponding checks then return no
// findings instead of failing.
type Input struct {
	Sales         []models.CanonicalRecord
	FilingExtract []models.CanonicalRecord
	FilingLog     []models.CanonicalRecord
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.FeePerDay <= 0 {
		cfg.FeePerDay = DefaultConfig().FeePerDay
	}
	if cfg.MismatchTolerance <= 0 {
		cfg.MismatchTolerance = DefaultConfig().MismatchTolerance
	}
	return &Engine{cfg: cfg}
}

// Run executes the three independent checks and aggregates the summary.
func (e *Engine) Run(in Input) *models.AuditResult {
	result := &models.AuditResult{
		Mismatches:  e.CheckMismatches(in.Sales, in.FilingExtract),
		Duplicates:  CheckDuplicates(in.Sales),
		LateFilings: e.CheckLateFilings(in.FilingLog),
	}

	var totalFee float64
	for _, f := range result.LateFilings {
		totalFee += f.EstimatedFee
	}
	result.Summary = models.AuditSummary{
		SalesRecords:      len(in.Sales),
		FilingRecords:     len(in.FilingExtract),
		FilingLogRecords:  len(in.FilingLog),
		TotalMismatches:   len(result.Mismatches),
		TotalDuplicates:   result.Duplicates.DistinctRows(),
		TotalLateFilings:  len(result.LateFilings),
		TotalEstimatedFee: utils.RoundFloat(totalFee, 2),
	}
	return result
}
