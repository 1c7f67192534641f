package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/controllers"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/middleware"
)

func AuthRoutes(r *gin.RouterGroup) {
	r.POST("/login", controllers.LoginUser)
	r.POST("/register", controllers.RegisterUser)
	r.POST("/token/refresh", controllers.RefreshToken)
	r.POST("/forgot-password", controllers.ForgotPassword)
	r.POST("/reset-password", controllers.ResetPassword)

	auth := r.Group("")
	auth.Use(middleware.RequireAuth())
	{
		auth.POST("/change-password", controllers.ChangePassword)
		auth.GET("/me", controllers.GetMe)
		auth.PUT("/me/photo", controllers.UpdateMyPhoto)
	}
}
