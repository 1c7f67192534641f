package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

const (
	defaultLocationLimit = 50
	maxLocationLimit     = 500
)

func findVehicle(id uint) (models.Vehicle, error) {
	var vehicle models.Vehicle
	err := config.DB.Preload("Route").First(&vehicle, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vehicle, apperrors.NotFound("Vehicle not found")
	}
	return vehicle, err
}

// GetVehicle returns a vehicle with its route summary.
func GetVehicle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	vehicle, err := findVehicle(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}

// UpdateVehicleLocation records a collector's GPS fix.
func UpdateVehicleLocation(c *gin.Context) {
	if middleware.CurrentRole(c) != models.RoleCollector {
		respondError(c, apperrors.Forbidden("Only collectors can update vehicle location"))
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}
	if err := models.ValidateCoordinates(*input.Latitude, *input.Longitude); err != nil {
		respondError(c, apperrors.Invalidf("%s", err.Error()))
		return
	}

	vehicle, err := findVehicle(id)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	moved := vehicle.MoveTo(*input.Latitude, *input.Longitude, now)

	tx := config.DB.Begin()
	if tx.Error != nil {
		respondError(c, tx.Error)
		return
	}

	var prev *models.VehicleLocation
	var last models.VehicleLocation
	err = tx.Where("vehicle_id = ?", vehicle.ID).Order("timestamp DESC, id DESC").First(&last).Error
	switch {
	case err == nil:
		prev = &last
	case !errors.Is(err, gorm.ErrRecordNotFound):
		tx.Rollback()
		respondError(c, err)
		return
	}

	fix := models.NextLocation(prev, vehicle.ID, vehicle.Latitude, vehicle.Longitude, now)
	userID := middleware.CurrentUserID(c)
	fix.UserID = &userID
	if err := tx.Omit("Vehicle").Create(&fix).Error; err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	err = tx.Model(&vehicle).Omit("Route").Updates(map[string]interface{}{
		"latitude":    vehicle.Latitude,
		"longitude":   vehicle.Longitude,
		"last_update": vehicle.LastUpdate,
	}).Error
	if err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"vehicle_id": vehicle.ID,
		"user_id":    middleware.CurrentUserID(c),
		"moved_m":    moved,
		"event":      fix.EventType,
	}).Debug("Vehicle location updated")

	c.JSON(http.StatusOK, gin.H{
		"vehicle":        toVehicleResponse(vehicle),
		"distance_moved": moved,
	})
}

// ListVehicles is for administrative use.
func ListVehicles(c *gin.Context) {
	var vehicles []models.Vehicle
	if err := config.DB.Preload("Route").Order("id").Find(&vehicles).Error; err != nil {
		respondError(c, err)
		return
	}

	resp := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		resp = append(resp, toVehicleResponse(v))
	}
	c.JSON(http.StatusOK, resp)
}

// ListVehicleLocations returns the newest GPS fixes of a vehicle; ?limit caps the count.
func ListVehicleLocations(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := findVehicle(id); err != nil {
		respondError(c, err)
		return
	}

	limit := defaultLocationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLocationLimit {
			respondError(c, apperrors.Invalid("limit", fmt.Sprintf("limit must be between 1 and %d", maxLocationLimit)))
			return
		}
		limit = n
	}

	var fixes []models.VehicleLocation
	err = config.DB.Where("vehicle_id = ?", id).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&fixes).Error
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]VehicleLocationResponse, 0, len(fixes))
	for _, f := range fixes {
		resp = append(resp, toVehicleLocationResponse(f))
	}
	c.JSON(http.StatusOK, resp)
}

type vehicleInput struct {
	Name    *string `json:"name"`
	RouteID *uint   `json:"route_id"`
}

func (in vehicleInput) apply(v *models.Vehicle) error {
	if in.Name != nil {
		name, err := cleanText("name", *in.Name, 100)
		if err != nil {
			return err
		}
		v.Name = name
	}
	if in.RouteID != nil {
		if *in.RouteID == 0 {
			v.RouteID = nil
			v.Route = nil
			return nil
		}
		route, err := findRoute(config.DB, *in.RouteID)
		if err != nil {
			return err
		}
		v.RouteID = &route.ID
		v.Route = &route
	}
	return nil
}

// CreateVehicle registers a vehicle; name defaults to the generic truck name.
func CreateVehicle(c *gin.Context) {
	var input vehicleInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	vehicle := models.Vehicle{Name: models.DefaultVehicleName}
	if err := input.apply(&vehicle); err != nil {
		respondError(c, err)
		return
	}

	if err := config.DB.Omit("Route").Create(&vehicle).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVehicleResponse(vehicle))
}

// UpdateVehicle renames a vehicle or (re)assigns its route; route_id 0 clears it.
func UpdateVehicle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var input vehicleInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	vehicle, err := findVehicle(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := input.apply(&vehicle); err != nil {
		respondError(c, err)
		return
	}

	err = config.DB.Model(&vehicle).Omit("Route").Updates(map[string]interface{}{
		"name":     vehicle.Name,
		"route_id": vehicle.RouteID,
	}).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVehicleResponse(vehicle))
}
