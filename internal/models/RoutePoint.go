package models

import (
	"fmt"
	"sort"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
)

// RoutePoint is a stop along a route. Seq fixes the rendering order; ties
// fall back to insertion order (ID).
type RoutePoint struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	RouteID   uint    `gorm:"index;not null" json:"-"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
	Seq       int     `gorm:"not null" json:"order"`
}

// PointInput is a submitted point; Order defaults to the list index.
type PointInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Order     *int     `json:"order"`
}

// BuildPoints validates submitted points and assigns their order.
func BuildPoints(routeID uint, in []PointInput) ([]RoutePoint, error) {
	points := make([]RoutePoint, 0, len(in))
	for i, p := range in {
		field := fmt.Sprintf("points[%d]", i)
		if p.Latitude == nil || p.Longitude == nil {
			return nil, apperrors.Invalid(field, "latitude and longitude are required")
		}
		if err := ValidateCoordinates(*p.Latitude, *p.Longitude); err != nil {
			return nil, apperrors.Invalid(field, err.Error())
		}
		seq := i
		if p.Order != nil {
			if *p.Order < 0 {
				return nil, apperrors.Invalid(field, "order must not be negative")
			}
			seq = *p.Order
		}
		points = append(points, RoutePoint{
			RouteID:   routeID,
			Latitude:  *p.Latitude,
			Longitude: *p.Longitude,
			Seq:       seq,
		})
	}
	return points, nil
}

// SortPoints orders points by Seq, then by ID.
func SortPoints(points []RoutePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Seq != points[j].Seq {
			return points[i].Seq < points[j].Seq
		}
		return points[i].ID < points[j].ID
	})
}
