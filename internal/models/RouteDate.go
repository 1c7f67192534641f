package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// RouteDate is one calendar day on which a route runs.
type RouteDate struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RouteID   uint           `gorm:"not null;uniqueIndex:idx_route_date" json:"route_id"`
	Date      datatypes.Date `gorm:"not null;uniqueIndex:idx_route_date" json:"date"`
	CreatedAt time.Time      `json:"created_at"`
}

// ParseCalendarDate parses a YYYY-MM-DD string as a UTC date.
func ParseCalendarDate(raw string) (datatypes.Date, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return datatypes.Date{}, apperrors.Invalid("date", "date must use the YYYY-MM-DD format")
	}
	return datatypes.Date(t), nil
}

// FormatDate renders a stored date in DateLayout.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}
