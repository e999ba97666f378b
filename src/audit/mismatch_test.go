package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/anchorcomply/backend/src/models"
)

func TestCheckMismatches_MatchingValuesProduceNoFinding(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	sales := []models.CanonicalRecord{salesRec(1, "INV-1", "2024-01-05", 1000, "C1")}
	filing := []models.CanonicalRecord{filingRec(1, "INV-1", 1000)}

	assert.Empty(t, engine.CheckMismatches(sales, filing))
}

func TestCheckMismatches_WithinToleranceIsNotFlagged(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	sales := []models.CanonicalRecord{salesRec(1, "INV-1", "", 1000, "")}
	filing := []models.CanonicalRecord{filingRec(1, "INV-1", 1000.99)}

	assert.Empty(t, engine.CheckMismatches(sales, filing))
}

func TestCheckMismatches_ValueDifferenceCarriesBothValues(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	sales := []models.CanonicalRecord{salesRec(1, "INV-1", "2024-01-05", 2000, "")}
	filing := []models.CanonicalRecord{filingRec(1, "INV-1", 1500)}

	findings := engine.CheckMismatches(sales, filing)
	require.Len(t, findings, 1)
	f := findings[0]
	assert.Equal(t, models.FindingMismatch, f.Kind)
	assert.Equal(t, "INV-1", f.InvoiceNo)
	assert.Equal(t, 2000.0, f.SalesValue)
	require.NotNil(t, f.FilingValue)
	assert.Equal(t, 1500.0, *f.FilingValue)
	assert.Equal(t, 500.0, f.Difference)
	assert.False(t, f.MissingFromFiling)
}

func TestCheckMismatches_MissingCounterpartProducesExactlyOneFinding(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	sales := []models.CanonicalRecord{salesRec(1, "INV-9", "", 700, "")}

	findings := engine.CheckMismatches(sales, nil)
	require.Len(t, findings, 1)
	assert.True(t, findings[0].MissingFromFiling)
	assert.Nil(t, findings[0].FilingValue)
}

// When invoice_no is absent from the sales schema there is nothing to join
// on, so every record is flagged. That is the documented degradation for a
// badly mapped upload, not an error.
func TestCheckMismatches_NoInvoiceFieldFlagsEverything(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	sales := []models.CanonicalRecord{
		salesRec(1, "", "2024-01-05", 100, "C1"),
		salesRec(2, "", "2024-01-06", 200, "C2"),
	}
	filing := []models.CanonicalRecord{filingRec(1, "INV-1", 100)}

	findings := engine.CheckMismatches(sales, filing)
	require.Len(t, findings, 2)
	for _, f := range findings {
		assert.True(t, f.MissingFromFiling)
	}
}

func TestCheckMismatches_DuplicateFilingRowsUseFirstOccurrence(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	sales := []models.CanonicalRecord{salesRec(1, "INV-1", "", 1000, "")}
	filing := []models.CanonicalRecord{
		filingRec(1, "INV-1", 1000),
		filingRec(2, "INV-1", 999999),
	}

	assert.Empty(t, engine.CheckMismatches(sales, filing))
}
