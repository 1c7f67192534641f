package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// ListRouteSchedules returns schedules with their derived day of week.
func ListRouteSchedules(c *gin.Context) {
	routeID, err := parseOptionalID(c, "route_id")
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := scheduleResponses(config.DB, routeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func scheduleResponses(db *gorm.DB, routeID *uint) ([]RouteScheduleResponse, error) {
	q := db.Order("route_id ASC").Order("start_time ASC").Order("id ASC")
	if routeID != nil {
		q = q.Where("route_id = ?", *routeID)
	}
	var schedules []models.RouteSchedule
	if err := q.Find(&schedules).Error; err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.RouteID)
	}
	routes, err := routesByID(db, ids)
	if err != nil {
		return nil, err
	}
	dates, err := datesForRoutes(db, ids)
	if err != nil {
		return nil, err
	}

	resp := make([]RouteScheduleResponse, 0, len(schedules))
	for _, s := range schedules {
		resp = append(resp, toRouteScheduleResponse(s, routes[s.RouteID], dates[s.RouteID]))
	}
	return resp, nil
}

func datesForRoutes(db *gorm.DB, ids []uint) (map[uint][]models.RouteDate, error) {
	out := make(map[uint][]models.RouteDate)
	if len(ids) == 0 {
		return out, nil
	}
	var dates []models.RouteDate
	if err := db.Where("route_id IN ?", ids).Find(&dates).Error; err != nil {
		return nil, err
	}
	for _, d := range dates {
		out[d.RouteID] = append(out[d.RouteID], d)
	}
	return out, nil
}

const duplicateScheduleMsg = "This schedule already exists for the route"

// CreateRouteSchedule adds a time window to a route. Any day_of_week in the
// payload is ignored; the day is derived from the route.
func CreateRouteSchedule(c *gin.Context) {
	var input struct {
		RouteID   *uint           `json:"route_id" binding:"required"`
		StartTime json.RawMessage `json:"start_time"`
		EndTime   json.RawMessage `json:"end_time"`
	}
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	route, err := findRoute(config.DB, *input.RouteID)
	if err != nil {
		respondError(c, err)
		return
	}

	start, err := models.ParseTimeOfDay("start_time", input.StartTime)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := models.ParseTimeOfDay("end_time", input.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	if end <= start {
		respondError(c, apperrors.Invalid("end_time", "end_time must be after start_time"))
		return
	}

	var existing int64
	if err := config.DB.Model(&models.RouteSchedule{}).
		Where("route_id = ? AND start_time = ? AND end_time = ?", route.ID, start, end).
		Count(&existing).Error; err != nil {
		respondError(c, err)
		return
	}
	if existing > 0 {
		respondError(c, apperrors.Conflict(duplicateScheduleMsg))
		return
	}

	schedule := models.RouteSchedule{RouteID: route.ID, StartTime: start, EndTime: end}
	if err := config.DB.Create(&schedule).Error; err != nil {
		respondError(c, conflictOr(err, duplicateScheduleMsg))
		return
	}

	dates, err := datesForRoutes(config.DB, []uint{route.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRouteScheduleResponse(schedule, route, dates[route.ID]))
}

// DeleteRouteSchedule removes one schedule by id.
func DeleteRouteSchedule(c *gin.Context) {
	deleteByID(c, &models.RouteSchedule{}, "Route schedule not found", "Route schedule deleted")
}
