package schema

import (
	"strconv"
	"strings"

	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/utils"
)

// Apply materializes canonical records from a raw table under a field mapping.
// Unmapped fields are dropped; values are coerced per the schema's field types.
// Coercion never fails: a bad amount degrades to 0, a bad date leaves the field
// absent, and the record is still emitted. A single malformed row must not
// abort an audit; reviewers would rather see a partial result.
func Apply(table *models.RawTable, mapping models.FieldMapping, sch models.DatasetSchema) []models.CanonicalRecord {
	if table == nil || len(table.Rows) == 0 {
		return nil
	}

	records := make([]models.CanonicalRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		rec := models.NewCanonicalRecord(i + 1)
		for _, field := range sch.Fields {
			col := mapping.Column(field.Name)
			if col == "" {
				continue
			}
			raw, ok := row[col]
			if !ok {
				continue
			}
			switch field.Type {
			case models.FieldTypeAmount:
				rec.Amounts[field.Name] = CoerceAmount(raw)
			case models.FieldTypeDate:
				if d, parsed := utils.ParseDate(raw); parsed {
					rec.Dates[field.Name] = d
				}
			default:
				rec.Strings[field.Name] = strings.TrimSpace(raw)
			}
		}
		records = append(records, rec)
	}
	return records
}

// CoerceAmount parses a currency cell into a finite float64. Thousands
// separators are stripped and a parenthesized value is read as negative.
// Blank or unparsable input degrades to 0.
func CoerceAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "(", "-")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	// strconv accepts "NaN" and "Inf"; emitted output must stay finite.
	return utils.Finite(v)
}
