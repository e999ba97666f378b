package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/security/validation"
)

type CSVTableParser struct{}

func NewCSVParser() *CSVTableParser {
	return &CSVTableParser{}
}

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

func (p *CSVTableParser) Parse(file io.Reader) (*models.RawTable, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	table := &models.RawTable{Headers: make([]string, len(header))}
	for i, label := range header {
		table.Headers[i] = validation.CleanHeaderLabel(label)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		row := make(models.RawRow, len(table.Headers))
		for i, label := range table.Headers {
			if i < len(record) {
				row[label] = strings.TrimSpace(record[i])
			} else {
				row[label] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// sniffDelimiter picks between comma and semicolon based on which occurs more
// often in the header line. Exported files from some locales use ';'.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}
