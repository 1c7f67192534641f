package models

import (
	"time"

	"gorm.io/gorm"
)

const DefaultVehicleName = "Camión recolector"

type Vehicle struct {
	gorm.Model
	Name       string    `json:"name" gorm:"size:100;not null"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	LastUpdate time.Time `json:"last_update"`
	RouteID    *uint     `json:"route_id" gorm:"index"`
	Route      *Route    `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"route,omitempty"`
}

// MoveTo records a new position and returns the distance covered in metres.
// The first fix after creation (0,0) reports zero.
func (v *Vehicle) MoveTo(lat, lon float64, at time.Time) float64 {
	var moved float64
	if v.Latitude != 0 || v.Longitude != 0 {
		moved = DistanceMeters(v.Latitude, v.Longitude, lat, lon)
	}
	v.Latitude = lat
	v.Longitude = lon
	v.LastUpdate = at
	return moved
}
