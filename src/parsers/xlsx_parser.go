package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/security/validation"
)

// XLSXTableParser reads the first sheet of a workbook; the first row is the
// required header row.
type XLSXTableParser struct{}

func NewXLSXParser() *XLSXTableParser {
	return &XLSXTableParser{}
}

func (p *XLSXTableParser) Parse(file io.Reader) (*models.RawTable, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	table := &models.RawTable{Headers: make([]string, len(rows[0]))}
	for i, label := range rows[0] {
		table.Headers[i] = validation.CleanHeaderLabel(label)
	}

	for _, cells := range rows[1:] {
		row := make(models.RawRow, len(table.Headers))
		for i, label := range table.Headers {
			if i < len(cells) {
				row[label] = strings.TrimSpace(cells[i])
			} else {
				row[label] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}
