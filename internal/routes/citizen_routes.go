package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/controllers"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
)

// CitizenRoutes are open to any signed-in user.
func CitizenRoutes(r *gin.RouterGroup) {
	citizen := r.Group("")
	citizen.Use(middleware.RequireAuth())
	{
		citizen.GET("/routes", controllers.ListRoutes)
		citizen.GET("/my-routes", controllers.MyRoutes)
		citizen.GET("/citizen/route-schedules", controllers.CitizenRouteSchedules)

		citizen.GET("/my-reports", controllers.ListMyReports)
		citizen.POST("/my-reports", controllers.CreateReport)
		citizen.DELETE("/my-reports/:id", controllers.DeleteReport)

		citizen.GET("/my-notifications", controllers.ListMyNotifications)
		citizen.DELETE("/my-notifications/:id", controllers.DeleteMyNotification)
		citizen.PATCH("/my-notifications/:id/read", controllers.MarkNotificationRead)
	}
}
