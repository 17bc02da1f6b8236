package routes

import (
	"github.com/Vidhyalakshmi16/svm-mobiles/auth"
	"github.com/Vidhyalakshmi16/svm-mobiles/config"
	orderControllers "github.com/Vidhyalakshmi16/svm-mobiles/controllers/order"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	Catalog         *services.CatalogService
	Orders          *services.OrderService
	ServiceRequests *services.ServiceRequestService
	Auth            *services.AuthService
	Tokens          *auth.Tokens
	Hub             *orderControllers.Hub
	AuthRateLimit   config.RateLimitConfig
	Logger          *zap.Logger
}

// SetupRoutes is the single entry point that wires every route group under /api.
func SetupRoutes(r *gin.Engine, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	api := r.Group("/api")

	// 1️⃣ Auth (public, rate limited)
	SetupAuthRoutes(api, deps)

	// 2️⃣ Catalog: reads are public, writes are admin only
	SetupProductRoutes(api, deps)
	SetupCategoryRoutes(api, deps)

	// 3️⃣ Orders and invoices
	SetupOrderRoutes(api, deps)
	SetupInvoiceRoutes(api, deps)

	// 4️⃣ Service requests
	SetupContactRoutes(api, deps)

	// 5️⃣ Users (admin)
	SetupUserRoutes(api, deps)
}
