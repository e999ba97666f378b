package models

import "time"

// Canonical field names. These are stable across implementations so that test
// fixtures and API consumers can rely on them.
const (
	FieldInvoiceNo    = "invoice_no"
	FieldDate         = "date"
	FieldCustomerID   = "customer_id"
	FieldTaxableValue = "taxable_value"
	FieldIGST         = "igst"
	FieldCGST         = "cgst"
	FieldSGST         = "sgst"
	FieldMonth        = "month"
	FieldFilingDate   = "filing_date"
	FieldTotalTaxPaid = "total_tax_paid"
)

// DatasetKind identifies which of the three uploadable datasets a table is.
type DatasetKind string

const (
	DatasetSales         DatasetKind = "sales"
	DatasetFilingExtract DatasetKind = "gstr1"
	DatasetFilingLog     DatasetKind = "gstr3b"
)

// Valid reports whether k names a known dataset kind.
func (k DatasetKind) Valid() bool {
	switch k {
	case DatasetSales, DatasetFilingExtract, DatasetFilingLog:
		return true
	}
	return false
}

// FieldType drives value coercion when a mapping is applied.
type FieldType int

const (
	FieldTypeString FieldType = iota
	FieldTypeAmount
	FieldTypeDate
)

// SchemaField is one canonical field together with the header aliases the
// normalizer matches against.
type SchemaField struct {
	Name    string
	Type    FieldType
	Aliases []string
}

// DatasetSchema is the fixed target vocabulary for one dataset kind.
type DatasetSchema struct {
	Kind   DatasetKind
	Fields []SchemaField
}

// Field returns the schema field with the given canonical name.
func (s DatasetSchema) Field(name string) (SchemaField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return SchemaField{}, false
}

// SchemaFor returns the target schema for a dataset kind. The alias lists
// follow the import templates shipped with the product, so files exported
// from common accounting tools map without manual intervention.
func SchemaFor(kind DatasetKind) DatasetSchema {
	switch kind {
	case DatasetSales:
		return DatasetSchema{Kind: kind, Fields: []SchemaField{
			{Name: FieldInvoiceNo, Type: FieldTypeString, Aliases: []string{"invoice", "invoice_no", "billno", "bill_number", "invno", "inv_no"}},
			{Name: FieldDate, Type: FieldTypeDate, Aliases: []string{"date", "invoice_date", "bill_date", "created_date"}},
			{Name: FieldCustomerID, Type: FieldTypeString, Aliases: []string{"gstin", "customer_gstin", "buyer_gstin", "gst_no", "customer_id"}},
			{Name: FieldTaxableValue, Type: FieldTypeAmount, Aliases: []string{"taxable_value", "taxable", "value", "amount", "net_amount"}},
			{Name: FieldIGST, Type: FieldTypeAmount, Aliases: []string{"igst"}},
			{Name: FieldCGST, Type: FieldTypeAmount, Aliases: []string{"cgst"}},
			{Name: FieldSGST, Type: FieldTypeAmount, Aliases: []string{"sgst"}},
		}}
	case DatasetFilingExtract:
		return DatasetSchema{Kind: kind, Fields: []SchemaField{
			{Name: FieldInvoiceNo, Type: FieldTypeString, Aliases: []string{"invoice", "invoice_no", "invno", "inv_no"}},
			{Name: FieldDate, Type: FieldTypeDate, Aliases: []string{"date", "invoice_date"}},
			{Name: FieldTaxableValue, Type: FieldTypeAmount, Aliases: []string{"taxable_value", "taxable", "value"}},
		}}
	case DatasetFilingLog:
		return DatasetSchema{Kind: kind, Fields: []SchemaField{
			{Name: FieldMonth, Type: FieldTypeString, Aliases: []string{"month", "period", "tax_period"}},
			{Name: FieldFilingDate, Type: FieldTypeDate, Aliases: []string{"filing_date", "date_of_filing", "filed_on", "filingdate"}},
			{Name: FieldTotalTaxPaid, Type: FieldTypeAmount, Aliases: []string{"total_tax_paid", "tax_paid", "total_tax"}},
		}}
	}
	return DatasetSchema{Kind: kind}
}

// FieldMapping binds canonical field names to source column labels.
// An empty string means the field is unmapped and will be absent from the
// canonical records.
type FieldMapping struct {
	Columns  map[string]string `json:"columns"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Column returns the source column mapped to a canonical field, or "".
func (m FieldMapping) Column(field string) string {
	return m.Columns[field]
}

// IsMapped reports whether the canonical field is bound to a source column.
func (m FieldMapping) IsMapped(field string) bool {
	return m.Columns[field] != ""
}

// WithOverrides returns a copy of the mapping with explicit per-field user
// choices applied on top of the suggested columns. An override for a field the
// schema does not know is ignored by the caller's validation, not here.
func (m FieldMapping) WithOverrides(overrides map[string]string) FieldMapping {
	out := FieldMapping{Columns: make(map[string]string, len(m.Columns)), Warnings: m.Warnings}
	for field, col := range m.Columns {
		out.Columns[field] = col
	}
	for field, col := range overrides {
		out.Columns[field] = col
	}
	return out
}

// CanonicalRecord is one row of a RawTable after mapping and type coercion.
// A field is present in exactly one of the three maps, and only if the mapping
// bound it to a source column and (for dates) the value parsed.
type CanonicalRecord struct {
	Row     int                  `json:"row"` // 1-based data row in the source table
	Strings map[string]string    `json:"strings,omitempty"`
	Amounts map[string]float64   `json:"amounts,omitempty"`
	Dates   map[string]time.Time `json:"dates,omitempty"`
}

func NewCanonicalRecord(row int) CanonicalRecord {
	return CanonicalRecord{
		Row:     row,
		Strings: make(map[string]string),
		Amounts: make(map[string]float64),
		Dates:   make(map[string]time.Time),
	}
}

// Text returns the string value of a field, or "" when absent.
func (r CanonicalRecord) Text(field string) string {
	return r.Strings[field]
}

// Amount returns the numeric value of a field, or 0 when absent.
func (r CanonicalRecord) Amount(field string) float64 {
	return r.Amounts[field]
}

// Date returns the date value of a field and whether it is present.
func (r CanonicalRecord) Date(field string) (time.Time, bool) {
	d, ok := r.Dates[field]
	return d, ok
}

// Has reports whether the field is present on this record.
func (r CanonicalRecord) Has(field string) bool {
	if _, ok := r.Strings[field]; ok {
		return true
	}
	if _, ok := r.Amounts[field]; ok {
		return true
	}
	_, ok := r.Dates[field]
	return ok
}
