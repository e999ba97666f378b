package parsers

import "fmt"

// GetParser returns the parser for a detected file format ("csv" or "xlsx").
func GetParser(format string) (TableParser, error) {
	switch format {
	case "csv":
		return NewCSVParser(), nil
	case "xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for format: %s", format)
	}
}
