package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/utils"
)

// salesRec builds a canonical sales record for tests. Empty strings leave the
// corresponding field absent, mirroring an unmapped or unparsable source cell.
func salesRec(row int, inv, date string, value float64, customer string) models.CanonicalRecord {
	r := models.NewCanonicalRecord(row)
	if inv != "" {
		r.Strings[models.FieldInvoiceNo] = inv
	}
	if date != "" {
		if d, ok := utils.ParseDate(date); ok {
			r.Dates[models.FieldDate] = d
		}
	}
	r.Amounts[models.FieldTaxableValue] = value
	if customer != "" {
		r.Strings[models.FieldCustomerID] = customer
	}
	return r
}

func filingRec(row int, inv string, value float64) models.CanonicalRecord {
	r := models.NewCanonicalRecord(row)
	if inv != "" {
		r.Strings[models.FieldInvoiceNo] = inv
	}
	r.Amounts[models.FieldTaxableValue] = value
	return r
}

func logRec(row int, month, filed string, taxPaid float64) models.CanonicalRecord {
	r := models.NewCanonicalRecord(row)
	if month != "" {
		r.Strings[models.FieldMonth] = month
	}
	if filed != "" {
		if d, ok := utils.ParseDate(filed); ok {
			r.Dates[models.FieldFilingDate] = d
		}
	}
	r.Amounts[models.FieldTotalTaxPaid] = taxPaid
	return r
}

// End-to-end scenario: four sales rows (one without a customer id), a filing
// extract overlapping on three invoices with one value difference, and a
// filing log with one late and one on-time record.
func TestEngine_Run_EndToEnd(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	sales := []models.CanonicalRecord{
		salesRec(1, "INV-1", "2024-01-05", 1000, "29ABCDE1234F1Z5"),
		salesRec(2, "INV-2", "2024-01-09", 2000, "29ABCDE1234F1Z5"),
		salesRec(3, "INV-3", "2024-01-14", 3000, ""),
		salesRec(4, "INV-4", "2024-01-21", 4000, "07FGHIJ5678K2Z3"),
	}
	filing := []models.CanonicalRecord{
		filingRec(1, "INV-1", 1000),
		filingRec(2, "INV-2", 1500), // value differs
		filingRec(3, "INV-3", 3000.50),
	}
	filingLog := []models.CanonicalRecord{
		logRec(1, "2024-01", "2024-02-25", 5000), // 5 days late
		logRec(2, "2024-02", "2024-03-18", 5000), // on time
	}

	result := engine.Run(Input{Sales: sales, FilingExtract: filing, FilingLog: filingLog})

	// INV-2 differs by 500, INV-4 is missing; INV-3 differs by 0.50, inside
	// the 1.00 tolerance.
	require.Len(t, result.Mismatches, 2)
	assert.Equal(t, 2, result.Summary.TotalMismatches)
	assert.True(t, result.Duplicates.Empty())
	assert.Equal(t, 0, result.Summary.TotalDuplicates)
	require.Len(t, result.LateFilings, 1)
	assert.Equal(t, 5, result.LateFilings[0].DaysLate)
	assert.Equal(t, 250.0, result.LateFilings[0].EstimatedFee)
	assert.Equal(t, 250.0, result.Summary.TotalEstimatedFee)
	assert.Equal(t, 4, result.Summary.SalesRecords)
	assert.Equal(t, 3, result.Summary.FilingRecords)
}

func TestEngine_Run_IsIdempotent(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	in := Input{
		Sales: []models.CanonicalRecord{
			salesRec(1, "INV-1", "2024-01-05", 1000, "C1"),
			salesRec(2, "INV-1", "2024-01-05", 1000, "C1"),
			salesRec(3, "INV-9", "2024-01-06", 900, "C2"),
		},
		FilingLog: []models.CanonicalRecord{
			logRec(1, "2024-01", "2024-03-01", 100),
		},
	}

	first := engine.Run(in)
	second := engine.Run(in)
	assert.Equal(t, first, second)
}

func TestEngine_Run_ToleratesEmptyTables(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	result := engine.Run(Input{})

	assert.Empty(t, result.Mismatches)
	assert.True(t, result.Duplicates.Empty())
	assert.Empty(t, result.LateFilings)
	assert.Equal(t, models.AuditSummary{}, result.Summary)
}

func TestEngine_Run_OrderIndependent(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	sales := []models.CanonicalRecord{
		salesRec(1, "INV-1", "2024-01-05", 1000, "C1"),
		salesRec(2, "INV-2", "2024-01-06", 2000, "C2"),
		salesRec(3, "INV-3", "2024-01-07", 3000, "C3"),
	}
	reversed := []models.CanonicalRecord{sales[2], sales[1], sales[0]}

	a := engine.Run(Input{Sales: sales})
	b := engine.Run(Input{Sales: reversed})

	assert.ElementsMatch(t, a.Mismatches, b.Mismatches)
	assert.Equal(t, a.Summary, b.Summary)
}
