package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/controllers"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
)

func VehicleRoutes(r *gin.RouterGroup) {
	vehicle := r.Group("/vehicles")
	vehicle.Use(middleware.RequireAuth())
	{
		vehicle.GET("/:id", controllers.GetVehicle)
		// the handler itself rejects non-collectors with 403
		vehicle.PUT("/:id", controllers.UpdateVehicleLocation)
		vehicle.PUT("/:id/update-location", controllers.UpdateVehicleLocation)
	}
}
