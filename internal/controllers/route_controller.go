package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// routeInput is shared by create and update. Raw fields distinguish an
// omitted key from an explicit null.
type routeInput struct {
	Name        *string              `json:"name"`
	Description json.RawMessage      `json:"description"`
	DayOfWeek   json.RawMessage      `json:"day_of_week"`
	StartTime   json.RawMessage      `json:"start_time"`
	EndTime     json.RawMessage      `json:"end_time"`
	Completed   *bool                `json:"completed"`
	Points      *[]models.PointInput `json:"points"`
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// apply copies the submitted fields onto route.
func (in routeInput) apply(route *models.Route) error {
	if in.Name != nil {
		name := plainText(*in.Name)
		if name == "" {
			return apperrors.Invalid("name", "name is required")
		}
		route.Name = name
	}

	if len(in.Description) > 0 {
		if isNull(in.Description) {
			route.Description = nil
		} else {
			var d string
			if err := json.Unmarshal(in.Description, &d); err != nil {
				return apperrors.Invalid("description", "description must be a string")
			}
			d = plainText(d)
			route.Description = &d
		}
	}

	if len(in.DayOfWeek) > 0 {
		if isNull(in.DayOfWeek) {
			route.DayOfWeek = nil
		} else {
			var raw string
			if err := json.Unmarshal(in.DayOfWeek, &raw); err != nil {
				return apperrors.Invalid("day_of_week", "day_of_week must be a string")
			}
			if strings.TrimSpace(raw) == "" {
				route.DayOfWeek = nil
			} else {
				day, ok := models.NormalizeWeekday(raw)
				if !ok {
					return apperrors.Invalid("day_of_week", "day_of_week must be one of "+strings.Join(models.Weekdays, ", "))
				}
				route.DayOfWeek = &day
			}
		}
	}

	var err error
	if route.StartTime, err = optionalClock("start_time", in.StartTime, route.StartTime); err != nil {
		return err
	}
	if route.EndTime, err = optionalClock("end_time", in.EndTime, route.EndTime); err != nil {
		return err
	}
	if route.StartTime != nil && route.EndTime != nil && *route.EndTime <= *route.StartTime {
		return apperrors.Invalid("end_time", "end_time must be after start_time")
	}

	if in.Completed != nil {
		route.Completed = *in.Completed
	}
	return nil
}

func optionalClock(field string, raw json.RawMessage, current *datatypes.Time) (*datatypes.Time, error) {
	if len(raw) == 0 {
		return current, nil
	}
	if isNull(raw) {
		return nil, nil
	}
	t, err := models.ParseTimeOfDay(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func loadRoute(db *gorm.DB, id uint) (models.Route, error) {
	var route models.Route
	err := db.Preload("Points").First(&route, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return route, apperrors.NotFound("Route not found")
	}
	return route, err
}

// ListRoutes returns every route with its ordered points.
func ListRoutes(c *gin.Context) {
	var routes []models.Route
	if err := config.DB.Preload("Points").Order("id").Find(&routes).Error; err != nil {
		respondError(c, err)
		return
	}

	resp := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		resp = append(resp, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRoute stores a route and its points in one transaction.
func CreateRoute(c *gin.Context) {
	var input routeInput
	if err := bindJSON(c, &input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		respondError(c, err)
		return
	}
	if input.Name == nil {
		respondError(c, apperrors.Invalid("name", "name is required"))
		return
	}

	var route models.Route
	if err := input.apply(&route); err != nil {
		respondError(c, err)
		return
	}

	var pointInputs []models.PointInput
	if input.Points != nil {
		pointInputs = *input.Points
	}
	// validate before opening the transaction
	if _, err := models.BuildPoints(0, pointInputs); err != nil {
		respondError(c, err)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, tx.Error)
		return
	}

	if err := tx.Create(&route).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	points, _ := models.BuildPoints(route.ID, pointInputs)
	if len(points) > 0 {
		if err := tx.Create(&points).Error; err != nil {
			tx.Rollback()
			respondError(c, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, err)
		return
	}

	route.Points = points
	c.JSON(http.StatusCreated, toRouteResponse(route))
}

// GetRoute returns a single route with points.
func GetRoute(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	route, err := loadRoute(config.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(route))
}

// UpdateRoute applies the submitted fields. A "points" key replaces the full
// point set atomically.
func UpdateRoute(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input routeInput
	if err := bindJSON(c, &input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: invalid input payload")
		respondError(c, err)
		return
	}

	route, err := loadRoute(config.DB, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := input.apply(&route); err != nil {
		respondError(c, err)
		return
	}

	var newPoints []models.RoutePoint
	if input.Points != nil {
		if newPoints, err = models.BuildPoints(route.ID, *input.Points); err != nil {
			respondError(c, err)
			return
		}
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, tx.Error)
		return
	}

	if err := tx.Omit("Points").Save(&route).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if input.Points != nil {
		if err := tx.Where("route_id = ?", route.ID).Delete(&models.RoutePoint{}).Error; err != nil {
			tx.Rollback()
			respondError(c, err)
			return
		}
		if len(newPoints) > 0 {
			if err := tx.Create(&newPoints).Error; err != nil {
				tx.Rollback()
				respondError(c, err)
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, err)
		return
	}

	updated, err := loadRoute(config.DB, route.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(updated))
}

// DeleteRoute removes a route with its points, dates, schedules and community
// links, and detaches any vehicle assigned to it.
func DeleteRoute(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var route models.Route
	if err := config.DB.First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperrors.NotFound("Route not found")
		}
		respondError(c, err)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, tx.Error)
		return
	}

	children := []interface{}{
		&models.RoutePoint{},
		&models.RouteDate{},
		&models.RouteSchedule{},
		&models.RouteCommunity{},
	}
	for _, child := range children {
		if err := tx.Where("route_id = ?", route.ID).Delete(child).Error; err != nil {
			tx.Rollback()
			respondError(c, err)
			return
		}
	}

	if err := tx.Model(&models.Vehicle{}).Where("route_id = ?", route.ID).Update("route_id", nil).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Delete(&models.Route{}, route.ID).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
