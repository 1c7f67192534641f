// Package stats aggregates route and report counters for the admin summary.
package stats

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// Summary is recomputed on every call, nothing is cached.
type Summary struct {
	CompletedRoutes      int64 `json:"completed_routes"`
	PendingRoutes        int64 `json:"pending_routes"`
	TotalReports         int64 `json:"total_reports"`
	ResolvedReports      int64 `json:"resolved_reports"`
	UnresolvedReports    int64 `json:"unresolved_reports"`
	PendingReports       int64 `json:"pending_reports"`
	DaysSinceFirstReport int   `json:"days_since_first_report"`
}

// Compute counts routes and reports as of now.
func Compute(ctx context.Context, db *gorm.DB, now time.Time) (Summary, error) {
	var s Summary
	db = db.WithContext(ctx)

	if err := db.Model(&models.Route{}).Where("completed = ?", true).Count(&s.CompletedRoutes).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Route{}).Where("completed = ?", false).Count(&s.PendingRoutes).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Report{}).Count(&s.TotalReports).Error; err != nil {
		return s, err
	}

	counts := map[models.ReportStatus]*int64{
		models.ReportResolved:   &s.ResolvedReports,
		models.ReportUnresolved: &s.UnresolvedReports,
		models.ReportPending:    &s.PendingReports,
	}
	for status, dst := range counts {
		if err := db.Model(&models.Report{}).Where("status = ?", status).Count(dst).Error; err != nil {
			return s, err
		}
	}

	var first models.Report
	err := db.Order("fecha ASC").Order("id ASC").First(&first).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		s.DaysSinceFirstReport = 0
	case err != nil:
		return s, err
	default:
		s.DaysSinceFirstReport = DaysBetween(first.Fecha, now)
	}
	return s, nil
}

// DaysBetween counts whole calendar days between the UTC dates of from and to.
func DaysBetween(from, to time.Time) int {
	a := truncateDay(from.UTC())
	b := truncateDay(to.UTC())
	days := int(b.Sub(a).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Reports returns every report, oldest first, with filer and assignee loaded.
func Reports(ctx context.Context, db *gorm.DB) ([]models.Report, error) {
	var reports []models.Report
	err := db.WithContext(ctx).
		Preload("User").
		Preload("Admin").
		Order("fecha ASC").Order("id ASC").
		Find(&reports).Error
	return reports, err
}
