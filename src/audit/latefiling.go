package audit

import (
	"time"

	"github.com/username/anchorcomply/backend/src/models"
	"github.com/username/anchorcomply/backend/src/utils"
)

// dueDayOfMonth is the statutory filing day: returns for a period are due on
// the 20th of the following month.
const dueDayOfMonth = 20

// DueDate computes the filing deadline for a period's first day.
func DueDate(period time.Time) time.Time {
	return time.Date(period.Year(), period.Month()+1, dueDayOfMonth, 0, 0, 0, 0, time.UTC)
}

// CheckLateFilings flags every filing-log record filed strictly after its due
// date. Records with a missing or unparsable month or filing date are skipped;
// filing on the due date itself is on time. The estimated fee is days late
// times the per-day rate, clamped to the configured [min, max] band.
func (e *Engine) CheckLateFilings(filingLog []models.CanonicalRecord) []models.LateFilingFinding {
	var findings []models.LateFilingFinding
	for _, rec := range filingLog {
		period, ok := utils.ParsePeriod(rec.Text(models.FieldMonth))
		if !ok {
			continue
		}
		filed, ok := rec.Date(models.FieldFilingDate)
		if !ok {
			continue
		}

		due := DueDate(period)
		daysLate := utils.DaysBetween(due, filed)
		if daysLate <= 0 {
			continue
		}

		fee := float64(daysLate) * e.cfg.FeePerDay
		if e.cfg.MinLateFee > 0 || e.cfg.MaxLateFee > 0 {
			fee = utils.Clamp(fee, e.cfg.MinLateFee, e.cfg.MaxLateFee)
		}
		findings = append(findings, models.LateFilingFinding{
			Kind:         models.FindingLateFiling,
			Row:          rec.Row,
			Month:        rec.Text(models.FieldMonth),
			DueDate:      utils.FormatDate(due),
			FilingDate:   utils.FormatDate(filed),
			DaysLate:     daysLate,
			EstimatedFee: fee,
		})
	}
	return findings
}
