package routes

import (
	contactControllers "github.com/Vidhyalakshmi16/svm-mobiles/controllers/contact"
	orderControllers "github.com/Vidhyalakshmi16/svm-mobiles/controllers/order"
	"github.com/Vidhyalakshmi16/svm-mobiles/middleware"
	"github.com/gin-gonic/gin"
)

func SetupOrderRoutes(r *gin.RouterGroup, deps Deps) {
	svc, log := deps.Orders, deps.Logger
	adminOnly := middleware.RequireAdmin()

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(deps.Tokens))
	{
		orders.POST("", orderControllers.PlaceOrderHandler(svc, log))
		orders.GET("/my", orderControllers.GetMyOrdersHandler(svc, log))
		orders.GET("", adminOnly, orderControllers.GetAllOrdersHandler(svc, log))

		// live feed for the admin dashboard
		if deps.Hub != nil {
			orders.GET("/ws", adminOnly, deps.Hub.Handler)
		}

		orders.GET("/:id", orderControllers.GetOrderHandler(svc, log))
		orders.PATCH("/:id/status", orderControllers.UpdateOrderStatusHandler(svc, log))
		orders.GET("/:id/invoice", orderControllers.InvoiceHandler(svc, log))
	}
}

func SetupInvoiceRoutes(r *gin.RouterGroup, deps Deps) {
	invoices := r.Group("/invoice")
	invoices.Use(middleware.ValidateToken(deps.Tokens), middleware.RequireAdmin())
	{
		invoices.GET("/:filename", orderControllers.DownloadInvoiceHandler(deps.Orders, deps.Logger))
	}
}

func SetupContactRoutes(r *gin.RouterGroup, deps Deps) {
	svc, log := deps.ServiceRequests, deps.Logger

	contact := r.Group("/contact")
	contact.Use(middleware.ValidateToken(deps.Tokens))
	{
		contact.POST("", contactControllers.CreateServiceRequest(svc, log))
		contact.GET("/my", contactControllers.GetMyServiceRequests(svc, log))
		contact.GET("", middleware.RequireAdmin(), contactControllers.GetAllServiceRequests(svc, log))
		contact.PATCH("/:id/status", contactControllers.UpdateServiceRequestStatus(svc, log))
	}
}
