package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/controllers"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/logger"
)

// SetupRouter builds the engine. Every endpoint is served at the root and
// mirrored under /api.
func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger(
		ginlog.WithWriter(logger.Writer()),
		ginlog.WithUTC(true),
		ginlog.WithSkipPath([]string{"/healthz", "/api/healthz"}),
	))

	for _, rg := range []*gin.RouterGroup{r.Group(""), r.Group("/api")} {
		rg.GET("/healthz", controllers.Health)

		AuthRoutes(rg)
		AdminRoutes(rg)
		CitizenRoutes(rg)
		VehicleRoutes(rg)
	}

	return r
}
