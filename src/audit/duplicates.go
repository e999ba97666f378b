package audit

import (
	"fmt"
	"sort"

	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/utils"
)

// CheckDuplicates runs both duplicate detectors over the sales records:
// exact duplicate invoice numbers, and exact duplicates on the composite
// (taxable_value, date, customer_id) key. Every member of a duplicate group is
// flagged, not just the repeats. Records missing a key field are skipped by
// the detector that needs it.
func CheckDuplicates(sales []models.CanonicalRecord) models.DuplicateReport {
	var report models.DuplicateReport

	byInvoice := make(map[string][]models.CanonicalRecord)
	for _, rec := range sales {
		inv := rec.Text(models.FieldInvoiceNo)
		if inv == "" {
			continue
		}
		byInvoice[inv] = append(byInvoice[inv], rec)
	}
	for _, group := range byInvoice {
		if len(group) < 2 {
			continue
		}
		for _, rec := range group {
			report.ByInvoiceNo = append(report.ByInvoiceNo, newDuplicateFinding(rec, models.DuplicateByInvoiceNo))
		}
	}

	byComposite := make(map[string][]models.CanonicalRecord)
	for _, rec := range sales {
		d, hasDate := rec.Date(models.FieldDate)
		if !rec.Has(models.FieldTaxableValue) || !hasDate || !rec.Has(models.FieldCustomerID) {
			continue
		}
		key := fmt.Sprintf("%.2f|%s|%s",
			rec.Amount(models.FieldTaxableValue), utils.FormatDate(d), rec.Text(models.FieldCustomerID))
		byComposite[key] = append(byComposite[key], rec)
	}
	for _, group := range byComposite {
		if len(group) < 2 {
			continue
		}
		for _, rec := range group {
			report.ByComposite = append(report.ByComposite, newDuplicateFinding(rec, models.DuplicateByComposite))
		}
	}

	// Map iteration order is random; sort by source row so repeated runs over
	// the same input produce identical output.
	sortDuplicates(report.ByInvoiceNo)
	sortDuplicates(report.ByComposite)
	return report
}

func newDuplicateFinding(rec models.CanonicalRecord, basis string) models.DuplicateFinding {
	f := models.DuplicateFinding{
		Kind:         models.FindingDuplicate,
		Basis:        basis,
		Row:          rec.Row,
		InvoiceNo:    rec.Text(models.FieldInvoiceNo),
		TaxableValue: rec.Amount(models.FieldTaxableValue),
		CustomerID:   rec.Text(models.FieldCustomerID),
	}
	if d, ok := rec.Date(models.FieldDate); ok {
		f.Date = utils.FormatDate(d)
	}
	return f
}

func sortDuplicates(findings []models.DuplicateFinding) {
	sort.Slice(findings, func(i, j int) bool {
		return findings[i].Row < findings[j].Row
	})
}
