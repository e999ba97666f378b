package models

import "time"

// Dataset is one uploaded table together with its mapping state.
type Dataset struct {
	Table     *RawTable         `json:"table"`
	Suggested FieldMapping      `json:"suggested"`
	Overrides map[string]string `json:"overrides,omitempty"`
}

// EffectiveMapping is the suggested mapping with user overrides applied.
func (d *Dataset) EffectiveMapping() FieldMapping {
	if d == nil {
		return FieldMapping{Columns: map[string]string{}}
	}
	return d.Suggested.WithOverrides(d.Overrides)
}

// AuditSession is the explicit per-caller state the HTTP boundary hands into
// the core on each call. The core never reads session state from anywhere
// else; there is no process-global table store.
type AuditSession struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Datasets  map[DatasetKind]*Dataset `json:"datasets"`
}

// Dataset returns the uploaded dataset of the given kind, or nil.
func (s *AuditSession) Dataset(kind DatasetKind) *Dataset {
	if s == nil {
		return nil
	}
	return s.Datasets[kind]
}
