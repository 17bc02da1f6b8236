package contactControllers

import (
	"net/http"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/middleware"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateServiceRequest POST /contact
func CreateServiceRequest(svc *services.ServiceRequestService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.ServiceRequestInput
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, log, apperr.Validation("Invalid request body"))
			return
		}
		r, err := svc.Create(c.Request.Context(), middleware.CurrentIdentity(c), req)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Service request submitted", "request": r})
	}
}

// GetMyServiceRequests GET /contact/my
func GetMyServiceRequests(svc *services.ServiceRequestService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := svc.ListMine(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

// GetAllServiceRequests GET /contact?status=
func GetAllServiceRequests(svc *services.ServiceRequestService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := svc.ListAll(c.Request.Context(), c.Query("status"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, requests)
	}
}

// UpdateServiceRequestStatus PATCH /contact/:id/status
func UpdateServiceRequestStatus(svc *services.ServiceRequestService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, log, apperr.Validation("Invalid status"))
			return
		}
		r, err := svc.UpdateStatus(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req.Status)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}
