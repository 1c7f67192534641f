package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// MyRoutes is the citizen calendar: every route date ascending, each with
// its route summary and that route's schedules.
func MyRoutes(c *gin.Context) {
	var dates []models.RouteDate
	if err := config.DB.Order("date ASC").Order("id ASC").Find(&dates).Error; err != nil {
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
	datesByRoute, err := datesForRoutes(config.DB, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	var schedules []models.RouteSchedule
	if len(ids) > 0 {
		if err := config.DB.Where("route_id IN ?", ids).Order("start_time ASC").Order("id ASC").Find(&schedules).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	byRoute := make(map[uint][]CalendarSchedule)
	for _, s := range schedules {
		byRoute[s.RouteID] = append(byRoute[s.RouteID], CalendarSchedule{
			ID:        s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			DayOfWeek: models.DerivedDayOfWeek(routes[s.RouteID], datesByRoute[s.RouteID]),
		})
	}

	resp := make([]CalendarEntry, 0, len(dates))
	for _, d := range dates {
		entry := CalendarEntry{
			ID:        d.ID,
			Date:      models.FormatDate(d.Date),
			Route:     toRouteSummary(routes[d.RouteID]),
			Schedules: byRoute[d.RouteID],
		}
		if entry.Schedules == nil {
			entry.Schedules = []CalendarSchedule{}
		}
		resp = append(resp, entry)
	}
	c.JSON(http.StatusOK, resp)
}

// CitizenRouteSchedules lists every schedule with its derived day.
func CitizenRouteSchedules(c *gin.Context) {
	resp, err := scheduleResponses(config.DB, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
