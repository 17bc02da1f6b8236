package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/middleware"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// PlaceOrderHandler creates an order owned by the caller.
func PlaceOrderHandler(svc *services.OrderService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.PlaceOrderInput
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, log, apperr.Validation("Invalid order data"))
			return
		}

		order, err := svc.PlaceOrder(c.Request.Context(), middleware.CurrentIdentity(c), req)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func GetMyOrdersHandler(svc *services.OrderService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListMine(c.Request.Context(), middleware.CurrentIdentity(c))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetAllOrdersHandler lists every order, newest first. ?status= narrows the
// list when it names a known status.
func GetAllOrdersHandler(svc *services.OrderService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status models.Status
		if st, err := models.ParseStatus(c.Query("status")); err == nil {
			status = st
		}
		orders, err := svc.ListAll(c.Request.Context(), status)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrderHandler(svc *services.OrderService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Get(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatusHandler(svc *services.OrderService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, log, apperr.Validation("Invalid status"))
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), req.Status)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// InvoiceHandler streams the order's PDF invoice as a download.
func InvoiceHandler(svc *services.OrderService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, pdf, err := svc.Invoice(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="invoice-`+order.ID+`.pdf"`)
		c.Header("Content-Length", strconv.Itoa(len(pdf)))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

// DownloadInvoiceHandler serves a previously archived invoice by file name.
func DownloadInvoiceHandler(svc *services.OrderService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path, err := svc.InvoicePath(c.Param("filename"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.FileAttachment(path, c.Param("filename"))
	}
}
