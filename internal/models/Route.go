package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Route is a named collection path. DayOfWeek, StartTime and EndTime are the
// legacy single-slot fields; dates and time windows live in RouteDate and
// RouteSchedule.
type Route struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description *string         `json:"description"`
	DayOfWeek   *string         `gorm:"size:10" json:"day_of_week"`
	StartTime   *datatypes.Time `json:"start_time"`
	EndTime     *datatypes.Time `json:"end_time"`
	Completed   bool            `gorm:"not null" json:"completed"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Points    []RoutePoint    `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"points,omitempty"`
	Dates     []RouteDate     `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Schedules []RouteSchedule `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// Weekdays lists the accepted legacy day names, Monday first.
var Weekdays = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

// NormalizeWeekday matches a day name case-insensitively, tolerating a
// missing accent, and returns its canonical spelling.
func NormalizeWeekday(raw string) (string, bool) {
	key := foldAccents(strings.ToLower(strings.TrimSpace(raw)))
	for _, d := range Weekdays {
		if foldAccents(strings.ToLower(d)) == key {
			return d, true
		}
	}
	return "", false
}

// WeekdayName returns the Spanish day name for t.
func WeekdayName(t time.Time) string {
	// time.Weekday starts on Sunday.
	return Weekdays[(int(t.Weekday())+6)%7]
}

func foldAccents(s string) string {
	return strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u").Replace(s)
}
