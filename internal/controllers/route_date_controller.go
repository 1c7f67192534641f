package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/apperrors"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

const duplicateRouteDateMsg = "This date is already assigned to the route"

func findRoute(db *gorm.DB, id uint) (models.Route, error) {
	var route models.Route
	err := db.First(&route, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return route, apperrors.NotFound("Route not found")
	}
	return route, err
}

// routesByID loads the routes referenced by ids.
func routesByID(db *gorm.DB, ids []uint) (map[uint]models.Route, error) {
	out := make(map[uint]models.Route, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var routes []models.Route
	if err := db.Where("id IN ?", ids).Find(&routes).Error; err != nil {
		return nil, err
	}
	for _, r := range routes {
		out[r.ID] = r
	}
	return out, nil
}

// ListRouteDates returns route dates ascending, optionally for one route.
func ListRouteDates(c *gin.Context) {
	routeID, err := parseOptionalID(c, "route_id")
	if err != nil {
		respondError(c, err)
		return
	}

	q := config.DB.Order("date ASC").Order("id ASC")
	if routeID != nil {
		q = q.Where("route_id = ?", *routeID)
	}
	var dates []models.RouteDate
	if err := q.Find(&dates).Error; err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uint, 0, len(dates))
	for _, d := range dates {
		ids = append(ids, d.RouteID)
	}
	routes, err := routesByID(config.DB, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]RouteDateResponse, 0, len(dates))
	for _, d := range dates {
		resp = append(resp, toRouteDateResponse(d, routes[d.RouteID]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRouteDate adds a calendar day to a route.
func CreateRouteDate(c *gin.Context) {
	var input struct {
		RouteID *uint  `json:"route_id" binding:"required"`
		Date    string `json:"date" binding:"required"`
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

	date, err := models.ParseCalendarDate(input.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	var existing int64
	if err := config.DB.Model(&models.RouteDate{}).
		Where("route_id = ? AND date = ?", route.ID, date).
		Count(&existing).Error; err != nil {
		respondError(c, err)
		return
	}
	if existing > 0 {
		respondError(c, apperrors.Conflict(duplicateRouteDateMsg))
		return
	}

	rd := models.RouteDate{RouteID: route.ID, Date: date}
	if err := config.DB.Create(&rd).Error; err != nil {
		respondError(c, conflictOr(err, duplicateRouteDateMsg))
		return
	}

	c.JSON(http.StatusCreated, toRouteDateResponse(rd, route))
}

// DeleteRouteDate removes one route date by id.
func DeleteRouteDate(c *gin.Context) {
	deleteByID(c, &models.RouteDate{}, "Route date not found", "Route date deleted")
}

// deleteByID deletes a row of model's table by the "id" path parameter.
func deleteByID(c *gin.Context, model interface{}, notFound, done string) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	res := config.DB.Delete(model, id)
	if res.Error != nil {
		respondError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperrors.NotFound("%s", notFound))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": done})
}
