package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/anchorcomply/backend/src/models"
)

func TestCheckDuplicates_AllGroupMembersFlagged(t *testing.T) {
	sales := []models.CanonicalRecord{
		salesRec(1, "INV-1", "2024-01-05", 100, "C1"),
		salesRec(2, "INV-1", "2024-01-06", 200, "C2"),
		salesRec(3, "INV-1", "2024-01-07", 300, "C3"),
		salesRec(4, "INV-2", "2024-01-08", 400, "C4"),
	}

	report := CheckDuplicates(sales)
	// N records sharing an invoice number flag all N, never N-1.
	require.Len(t, report.ByInvoiceNo, 3)
	rows := []int{report.ByInvoiceNo[0].Row, report.ByInvoiceNo[1].Row, report.ByInvoiceNo[2].Row}
	assert.Equal(t, []int{1, 2, 3}, rows)
	assert.Empty(t, report.ByComposite)
	assert.Equal(t, 3, report.DistinctRows())
}

func TestCheckDuplicates_CompositeKey(t *testing.T) {
	sales := []models.CanonicalRecord{
		salesRec(1, "INV-1", "2024-01-05", 100, "C1"),
		salesRec(2, "INV-2", "2024-01-05", 100, "C1"), // same value+date+customer
		salesRec(3, "INV-3", "2024-01-05", 100, "C9"),
	}

	report := CheckDuplicates(sales)
	assert.Empty(t, report.ByInvoiceNo)
	require.Len(t, report.ByComposite, 2)
	assert.Equal(t, models.DuplicateByComposite, report.ByComposite[0].Basis)
	assert.Equal(t, 2, report.DistinctRows())
}

func TestCheckDuplicates_CompositeSkipsRecordsMissingKeyFields(t *testing.T) {
	// No customer_id on either record: the composite detector cannot apply.
	sales := []models.CanonicalRecord{
		salesRec(1, "INV-1", "2024-01-05", 100, ""),
		salesRec(2, "INV-2", "2024-01-05", 100, ""),
	}

	report := CheckDuplicates(sales)
	assert.True(t, report.Empty())
}

func TestCheckDuplicates_UnionCountDeduplicatesRows(t *testing.T) {
	// Rows 1 and 2 are duplicates under both detectors; the summary count
	// must count each row once.
	sales := []models.CanonicalRecord{
		salesRec(1, "INV-1", "2024-01-05", 100, "C1"),
		salesRec(2, "INV-1", "2024-01-05", 100, "C1"),
	}

	report := CheckDuplicates(sales)
	assert.Len(t, report.ByInvoiceNo, 2)
	assert.Len(t, report.ByComposite, 2)
	assert.Equal(t, 2, report.DistinctRows())
}

func TestCheckDuplicates_EmptyInput(t *testing.T) {
	assert.True(t, CheckDuplicates(nil).Empty())
}
