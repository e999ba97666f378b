package audit

import (
	"math"

	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/utils"
)

// CheckMismatches left-joins sales records to the filing extract on invoice
// number and flags every sales record that is missing a filing counterpart or
// whose taxable value differs by more than the tolerance.
//
// A sales record without an invoice_no field (the column was never mapped, or
// the cell was blank) has nothing to join on and is flagged as missing. When
// invoice_no is unmapped for the whole table every record gets flagged, which
// surfaces the bad mapping in the report instead of passing silently.
func (e *Engine) CheckMismatches(sales, filing []models.CanonicalRecord) []models.MismatchFinding {
	byInvoice := make(map[string]models.CanonicalRecord, len(filing))
	for _, rec := range filing {
		inv := rec.Text(models.FieldInvoiceNo)
		if inv == "" {
			continue
		}
		if _, exists := byInvoice[inv]; !exists {
			byInvoice[inv] = rec // first occurrence wins on duplicate filings
		}
	}

	var findings []models.MismatchFinding
	for _, rec := range sales {
		salesValue := rec.Amount(models.FieldTaxableValue)
		finding := models.MismatchFinding{
			Kind:       models.FindingMismatch,
			Row:        rec.Row,
			InvoiceNo:  rec.Text(models.FieldInvoiceNo),
			SalesValue: salesValue,
		}
		if d, ok := rec.Date(models.FieldDate); ok {
			finding.Date = utils.FormatDate(d)
		}

		counterpart, found := models.CanonicalRecord{}, false
		if finding.InvoiceNo != "" {
			counterpart, found = byInvoice[finding.InvoiceNo]
		}
		if !found {
			finding.MissingFromFiling = true
			findings = append(findings, finding)
			continue
		}

		filingValue := counterpart.Amount(models.FieldTaxableValue)
		diff := salesValue - filingValue
		if math.Abs(diff) > e.cfg.MismatchTolerance {
			fv := filingValue
			finding.FilingValue = &fv
			finding.Difference = utils.RoundFloat(diff, 2)
			findings = append(findings, finding)
		}
	}
	return findings
}
