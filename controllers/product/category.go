package productcontroller

import (
	"net/http"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type categoryRequest struct {
	Name string `json:"name" form:"name"`
}

func GetAllCategories(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context())
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func CreateCategory(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, log, apperr.Validation("Invalid request body"))
			return
		}
		category, err := svc.CreateCategory(c.Request.Context(), req.Name)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBind(&req); err != nil {
			response.Error(c, log, apperr.Validation("Invalid request body"))
			return
		}
		category, err := svc.UpdateCategory(c.Request.Context(), c.Param("id"), req.Name)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategory(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, log, err)
			return
		}
		response.Message(c, http.StatusOK, "Category deleted")
	}
}
