package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/uniportal/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, authController *controllers.AuthController) {
	// --- Login pages ---
	login := router.Group("/login")
	{
		login.GET("", authController.LoginIndex)
		login.GET("/:role", authController.ShowLoginForm)
		login.POST("/:role", authController.SubmitLoginForm)
	}

	// API version group
	v1 := router.Group("/api/v1")

	v1.GET("/roles", authController.ListRoles)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}
}
