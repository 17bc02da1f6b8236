package userControllers

import (
	"net/http"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/middleware"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordInput struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// POST /auth/register
func Register(svc *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, log, apperr.Validation("Invalid request body"))
			return
		}
		session, err := svc.Register(c.Request.Context(), input.Name, input.Email, input.Password)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

// POST /auth/login
func Login(svc *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, log, apperr.Validation("Invalid request body"))
			return
		}
		session, err := svc.Login(c.Request.Context(), input.Email, input.Password)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// GET /auth/me
func GetUser(svc *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := svc.Me(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// POST /auth/forgot-password
func ForgotPassword(svc *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ForgotPasswordInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Error(c, log, apperr.Validation("Invalid request body"))
			return
		}
		if err := svc.ResetPassword(c.Request.Context(), input.Email, input.NewPassword); err != nil {
			response.Error(c, log, err)
			return
		}
		response.Message(c, http.StatusOK, "Password updated successfully")
	}
}

// GET /users
func GetAllUsers(svc *services.AuthService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := svc.ListUsers(c.Request.Context())
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}
