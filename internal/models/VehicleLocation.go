package models

import (
	"time"

	"gorm.io/gorm"
)

// Location event kinds.
const (
	LocationInitial = "initial"
	LocationMove    = "move"
	LocationStopped = "stopped"
)

// minMoveMeters is the smallest displacement treated as movement.
const minMoveMeters = 5.0

// VehicleLocation is one GPS fix reported by a collector.
type VehicleLocation struct {
	gorm.Model
	VehicleID        uint      `json:"vehicle_id" gorm:"not null;index"`
	Vehicle          *Vehicle  `gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID           *uint     `json:"user_id" gorm:"index"`
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	Bearing          float64   `json:"bearing"`
	SpeedMPS         float64   `json:"speed_mps"`
	DistanceFromLast float64   `json:"distance_from_last"`
	Timestamp        time.Time `json:"timestamp" gorm:"index"`
	EventType        string    `json:"event_type" gorm:"size:20"`
}

// NextLocation builds the fix that follows prev. prev is nil for the first fix.
func NextLocation(prev *VehicleLocation, vehicleID uint, lat, lon float64, at time.Time) VehicleLocation {
	loc := VehicleLocation{
		VehicleID: vehicleID,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: at,
		EventType: LocationInitial,
	}
	if prev == nil {
		return loc
	}

	loc.DistanceFromLast = DistanceMeters(prev.Latitude, prev.Longitude, lat, lon)
	if secs := at.Sub(prev.Timestamp).Seconds(); secs > 0 {
		loc.SpeedMPS = loc.DistanceFromLast / secs
	}
	if loc.DistanceFromLast >= minMoveMeters {
		loc.EventType = LocationMove
		loc.Bearing = BearingDegrees(prev.Latitude, prev.Longitude, lat, lon)
	} else {
		loc.EventType = LocationStopped
		loc.Bearing = prev.Bearing
	}
	return loc
}
