package models

// FindingKind tags one reconciliation result.
type FindingKind string

const (
	FindingMismatch   FindingKind = "mismatch"
	FindingDuplicate  FindingKind = "duplicate"
	FindingLateFiling FindingKind = "late_filing"
)

// Duplicate detection bases. Both detectors run independently; their results
// are reported as separate groups and union-deduplicated for the summary.
const (
	DuplicateByInvoiceNo = "invoice_no"
	DuplicateByComposite = "value_date_customer"
)

// MismatchFinding is a sales invoice that is missing from the filing extract
// or whose taxable value differs beyond the configured tolerance.
type MismatchFinding struct {
	Kind              FindingKind `json:"kind"`
	Row               int         `json:"row"`
	InvoiceNo         string      `json:"invoice_no,omitempty"`
	Date              string      `json:"date,omitempty"`
	SalesValue        float64     `json:"sales_value"`
	FilingValue       *float64    `json:"filing_value,omitempty"`
	Difference        float64     `json:"difference"` // signed, sales minus filing
	MissingFromFiling bool        `json:"missing_from_filing"`
}

// DuplicateFinding is one member of a duplicate group. Every member of a
// group is flagged, not just the repeat occurrences.
type DuplicateFinding struct {
	Kind         FindingKind `json:"kind"`
	Basis        string      `json:"basis"`
	Row          int         `json:"row"`
	InvoiceNo    string      `json:"invoice_no,omitempty"`
	Date         string      `json:"date,omitempty"`
	TaxableValue float64     `json:"taxable_value"`
	CustomerID   string      `json:"customer_id,omitempty"`
}

// DuplicateReport keeps the two detector outputs as separate labeled groups
// for display while exposing a union-deduplicated count for the summary.
type DuplicateReport struct {
	ByInvoiceNo []DuplicateFinding `json:"by_invoice_no,omitempty"`
	ByComposite []DuplicateFinding `json:"by_composite,omitempty"`
}

// DistinctRows counts sales rows flagged by at least one detector.
func (d DuplicateReport) DistinctRows() int {
	seen := make(map[int]struct{})
	for _, f := range d.ByInvoiceNo {
		seen[f.Row] = struct{}{}
	}
	for _, f := range d.ByComposite {
		seen[f.Row] = struct{}{}
	}
	return len(seen)
}

// Empty reports whether neither detector flagged anything.
func (d DuplicateReport) Empty() bool {
	return len(d.ByInvoiceNo) == 0 && len(d.ByComposite) == 0
}

// LateFilingFinding is one periodic return filed after its due date.
type LateFilingFinding struct {
	Kind         FindingKind `json:"kind"`
	Row          int         `json:"row"`
	Month        string      `json:"month"`
	DueDate      string      `json:"due_date"`
	FilingDate   string      `json:"filing_date"`
	DaysLate     int         `json:"days_late"`
	EstimatedFee float64     `json:"estimated_fee"`
}

// AuditSummary carries the aggregate counts the report header is built from.
type AuditSummary struct {
	SalesRecords      int     `json:"sales_records"`
	FilingRecords     int     `json:"filing_records"`
	FilingLogRecords  int     `json:"filing_log_records"`
	TotalMismatches   int     `json:"total_mismatches"`
	TotalDuplicates   int     `json:"total_duplicates"` // union-deduplicated
	TotalLateFilings  int     `json:"total_late_filings"`
	TotalEstimatedFee float64 `json:"total_estimated_fee"`
}

// AuditResult is the full output of one reconciliation run. It is recomputed
// on every run and never persisted.
type AuditResult struct {
	Summary     AuditSummary        `json:"summary"`
	Mismatches  []MismatchFinding   `json:"mismatches"`
	Duplicates  DuplicateReport     `json:"duplicates"`
	LateFilings []LateFilingFinding `json:"late_filings"`
}
