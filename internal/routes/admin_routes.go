package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/controllers"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

func AdminRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/routes", controllers.ListRoutes)
		admin.POST("/routes", controllers.CreateRoute)
		admin.GET("/routes/:id", controllers.GetRoute)
		admin.PUT("/routes/:id", controllers.UpdateRoute)
		admin.PATCH("/routes/:id", controllers.UpdateRoute)
		admin.DELETE("/routes/:id", controllers.DeleteRoute)
		admin.GET("/routes/:id/communities", controllers.GetRouteCommunities)

		admin.GET("/route-dates", controllers.ListRouteDates)
		admin.POST("/route-dates", controllers.CreateRouteDate)
		admin.DELETE("/route-dates/:id", controllers.DeleteRouteDate)

		admin.GET("/route-schedules", controllers.ListRouteSchedules)
		admin.POST("/route-schedules", controllers.CreateRouteSchedule)
		admin.DELETE("/route-schedules/:id", controllers.DeleteRouteSchedule)

		admin.GET("/communities", controllers.ListCommunities)
		admin.POST("/communities", controllers.CreateCommunity)
		admin.PUT("/communities/:id", controllers.UpdateCommunity)
		admin.PATCH("/communities/:id", controllers.UpdateCommunity)
		admin.DELETE("/communities/:id", controllers.DeleteCommunity)

		admin.GET("/route-communities", controllers.ListRouteCommunities)
		admin.POST("/route-communities", controllers.AssignCommunity)
		admin.DELETE("/route-communities/:id", controllers.UnassignCommunity)

		admin.GET("/messages", controllers.ListMessages)
		admin.POST("/messages", controllers.SendMessage)
		admin.DELETE("/messages/:id", controllers.DeleteMessage)

		admin.GET("/reports", controllers.ListReports)
		admin.GET("/reports/generate", controllers.GenerateReport)
		admin.GET("/reports/generate-pdf", controllers.GenerateReportPDF)
		admin.PUT("/reports/:id", controllers.UpdateReportStatus)
		admin.PATCH("/reports/:id", controllers.UpdateReportStatus)
		admin.DELETE("/reports/:id", controllers.DeleteReport)

		admin.GET("/users", controllers.ListUsers)
		admin.PUT("/users", controllers.UpdateUser)

		admin.GET("/vehicles", controllers.ListVehicles)
		admin.POST("/vehicles", controllers.CreateVehicle)
		admin.PUT("/vehicles/:id", controllers.UpdateVehicle)
		admin.GET("/vehicles/:id/locations", controllers.ListVehicleLocations)
	}
}
