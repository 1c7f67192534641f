package models

import (
	"strings"
	"time"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

type ReportType string

const (
	ReportIncident ReportType = "incidencias"
	ReportRoutes   ReportType = "rutas"
	ReportUsers    ReportType = "usuarios"
)

type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportResolved   ReportStatus = "resolved"
	ReportUnresolved ReportStatus = "unresolved"
)

// MaxReportDetailLength bounds Report.Detalle.
const MaxReportDetailLength = 200

// Report is a citizen-filed issue ticket.
type Report struct {
	ID      uint         `gorm:"primaryKey" json:"id"`
	Tipo    ReportType   `gorm:"size:50;not null" json:"tipo"`
	Fecha   time.Time    `gorm:"autoCreateTime;index" json:"fecha"`
	Detalle string       `gorm:"size:200;not null" json:"detalle"`
	Status  ReportStatus `gorm:"size:20;not null;index" json:"status"`
	UserID  uint         `gorm:"not null;index" json:"user_id"`
	User    *User        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AdminID *uint        `gorm:"index" json:"admin_id"`
	Admin   *User        `gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// ParseReportType maps an optional type to a ReportType; empty means incidencias.
func ParseReportType(raw string) (ReportType, error) {
	switch t := ReportType(strings.ToLower(strings.TrimSpace(raw))); t {
	case "":
		return ReportIncident, nil
	case ReportIncident, ReportRoutes, ReportUsers:
		return t, nil
	default:
		return "", apperrors.Invalid("tipo", "tipo must be one of incidencias, rutas, usuarios")
	}
}

// ParseReportStatus accepts only pending, resolved and unresolved.
func ParseReportStatus(raw string) (ReportStatus, error) {
	switch s := ReportStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case ReportPending, ReportResolved, ReportUnresolved:
		return s, nil
	default:
		return "", apperrors.Invalid("status", "status must be one of pending, resolved, unresolved")
	}
}

// CanBeDeletedBy reports whether the actor may delete the report.
func (r Report) CanBeDeletedBy(userID uint, role Role) bool {
	return role == RoleAdmin || r.UserID == userID
}
