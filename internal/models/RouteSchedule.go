package models

import (
	"time"

	"gorm.io/datatypes"
)

// RouteSchedule is a recurring time window for a route. The day it applies
// to is not stored; see DerivedDayOfWeek.
type RouteSchedule struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RouteID   uint           `gorm:"not null;uniqueIndex:idx_route_schedule" json:"route_id"`
	StartTime datatypes.Time `gorm:"not null;uniqueIndex:idx_route_schedule" json:"start_time"`
	EndTime   datatypes.Time `gorm:"not null;uniqueIndex:idx_route_schedule" json:"end_time"`
	CreatedAt time.Time      `json:"created_at"`
}

// DerivedDayOfWeek resolves the day a schedule is shown under: the route's
// legacy day when set, otherwise the weekday of its earliest date.
func DerivedDayOfWeek(route Route, dates []RouteDate) *string {
	if route.DayOfWeek != nil && *route.DayOfWeek != "" {
		day := *route.DayOfWeek
		return &day
	}
	var earliest *time.Time
	for _, d := range dates {
		if d.RouteID != route.ID {
			continue
		}
		t := time.Time(d.Date)
		if earliest == nil || t.Before(*earliest) {
			earliest = &t
		}
	}
	if earliest == nil {
		return nil
	}
	day := WeekdayName(*earliest)
	return &day
}
