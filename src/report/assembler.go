// Package report renders an audit result into the fixed-layout PDF the
// reviewers download. Section construction is kept separate from PDF drawing
// so the layout can be asserted on without decoding PDF bytes.
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/username/anchorcomply/backend/src/models"
)

const (
	reportTitle = "AnchorComply - Audit Summary Report"
	actionNote  = "Action: Reconcile mismatched invoices with the filing extract, correct duplicates, " +
		"and ensure timely filings to avoid penalties."
	disclaimer = "Confidential: This report is a prototype estimate. For final compliance work consult your CA."
)

type Options struct {
	RowCap   int    // max rows per table section
	Currency string // currency glyph, e.g. "Rs."
}

// Section is one table block of the report: a heading plus preformatted rows.
type Section struct {
	Title string
	Rows  []string
}

type Assembler struct {
	rowCap   int
	currency string
	printer  *message.Printer
}

func NewAssembler(opts Options) *Assembler {
	if opts.RowCap <= 0 {
		opts.RowCap = 10
	}
	if opts.Currency == "" {
		opts.Currency = "Rs."
	}
	return &Assembler{
		rowCap:   opts.RowCap,
		currency: opts.Currency,
		printer:  message.NewPrinter(language.English),
	}
}

// FormatCurrency renders an amount with the currency glyph and thousands
// separators. Plain decimal notation always; never scientific.
func (a *Assembler) FormatCurrency(v float64) string {
	return a.printer.Sprintf("%s%.2f", a.currency, v)
}

// SummaryText is the free-text paragraph under the report title.
func (a *Assembler) SummaryText(s models.AuditSummary) string {
	return a.printer.Sprintf(
		"Checked %d sales invoices against %d filing extract records and %d filing log entries. "+
			"Found %d mismatched or missing invoices, %d duplicate records flagged, and %d delayed filings "+
			"with estimated late fees of %s.",
		s.SalesRecords, s.FilingRecords, s.FilingLogRecords,
		s.TotalMismatches, s.TotalDuplicates, s.TotalLateFilings,
		a.FormatCurrency(s.TotalEstimatedFee))
}

// BuildSections lays out the table sections in their fixed order. A finding
// group with no entries contributes no section at all.
func (a *Assembler) BuildSections(res *models.AuditResult) []Section {
	var sections []Section

	if len(res.Mismatches) > 0 {
		sec := Section{Title: "Mismatched / Missing Invoices (sample)"}
		for _, f := range capMismatches(res.Mismatches, a.rowCap) {
			filing := "-"
			diff := "-"
			if f.FilingValue != nil {
				filing = a.FormatCurrency(*f.FilingValue)
				diff = a.FormatCurrency(f.Difference)
			}
			sec.Rows = append(sec.Rows, fmt.Sprintf("%s | %s | Sales:%s | Filing:%s | Diff:%s",
				orBlank(f.InvoiceNo), orBlank(f.Date), a.FormatCurrency(f.SalesValue), filing, diff))
		}
		sections = append(sections, sec)
	}

	if len(res.Duplicates.ByInvoiceNo) > 0 {
		sec := Section{Title: "Duplicate Invoice Numbers (sample)"}
		for _, f := range capDuplicates(res.Duplicates.ByInvoiceNo, a.rowCap) {
			sec.Rows = append(sec.Rows, a.duplicateRow(f))
		}
		sections = append(sections, sec)
	}
	if len(res.Duplicates.ByComposite) > 0 {
		sec := Section{Title: "Possible Duplicate Entries (amount + date + customer) (sample)"}
		for _, f := range capDuplicates(res.Duplicates.ByComposite, a.rowCap) {
			sec.Rows = append(sec.Rows, a.duplicateRow(f))
		}
		sections = append(sections, sec)
	}

	if len(res.LateFilings) > 0 {
		sec := Section{Title: "Delayed Filings & Estimated Late Fees (sample)"}
		for _, f := range capLateFilings(res.LateFilings, a.rowCap) {
			sec.Rows = append(sec.Rows, fmt.Sprintf("%s | Due: %s | Filed: %s | Days late: %d | Fee: %s",
				orBlank(f.Month), orBlank(f.DueDate), orBlank(f.FilingDate), f.DaysLate, a.FormatCurrency(f.EstimatedFee)))
		}
		sections = append(sections, sec)
	}

	return sections
}

func (a *Assembler) duplicateRow(f models.DuplicateFinding) string {
	return fmt.Sprintf("%s | %s | %s | %s",
		orBlank(f.InvoiceNo), orBlank(f.Date), a.FormatCurrency(f.TaxableValue), orBlank(f.CustomerID))
}

// orBlank keeps missing optional fields readable in fixed-width rows.
func orBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func capMismatches(in []models.MismatchFinding, n int) []models.MismatchFinding {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func capDuplicates(in []models.DuplicateFinding, n int) []models.DuplicateFinding {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func capLateFilings(in []models.LateFilingFinding, n int) []models.LateFilingFinding {
	if len(in) > n {
		return in[:n]
	}
	return in
}
