package routes

import (
	userControllers "github.com/Vidhyalakshmi16/svm-mobiles/controllers/user"
	"github.com/Vidhyalakshmi16/svm-mobiles/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.RouterGroup, deps Deps) {
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(deps.AuthRateLimit, deps.Logger))
	{
		authGroup.POST("/register", userControllers.Register(deps.Auth, deps.Logger))
		authGroup.POST("/login", userControllers.Login(deps.Auth, deps.Logger))
		authGroup.POST("/forgot-password", userControllers.ForgotPassword(deps.Auth, deps.Logger))
		authGroup.GET("/me", middleware.ValidateToken(deps.Tokens), userControllers.GetUser(deps.Auth, deps.Logger))
	}
}

// SetupUserRoutes registers “/users”. Admin only.
func SetupUserRoutes(r *gin.RouterGroup, deps Deps) {
	users := r.Group("/users")
	users.Use(middleware.ValidateToken(deps.Tokens), middleware.RequireAdmin())
	{
		users.GET("", userControllers.GetAllUsers(deps.Auth, deps.Logger))
	}
}
