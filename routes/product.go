package routes

import (
	productcontroller "github.com/Vidhyalakshmi16/svm-mobiles/controllers/product"
	"github.com/Vidhyalakshmi16/svm-mobiles/middleware"
	"github.com/gin-gonic/gin"
)

func SetupProductRoutes(r *gin.RouterGroup, deps Deps) {
	svc, log := deps.Catalog, deps.Logger
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetAllProducts(svc, log))
		products.GET("/:id", productcontroller.GetProductByID(svc, log))

		admin := products.Group("")
		admin.Use(middleware.ValidateToken(deps.Tokens), middleware.RequireAdmin())
		{
			admin.POST("", productcontroller.CreateProduct(svc, log))
			admin.PUT("/:id", productcontroller.UpdateProduct(svc, log))
			admin.DELETE("/:id", productcontroller.DeleteProduct(svc, log))
			admin.POST("/apply-discount", productcontroller.ApplyDiscount(svc, log))

			// ─────────── Spreadsheet ───────────
			admin.GET("/export", productcontroller.ExportProductsToExcel(svc, log))
			admin.POST("/import", productcontroller.ImportProductsFromExcel(svc, log))
		}
	}
}

func SetupCategoryRoutes(r *gin.RouterGroup, deps Deps) {
	svc, log := deps.Catalog, deps.Logger
	categories := r.Group("/categories")
	{
		categories.GET("", productcontroller.GetAllCategories(svc, log))

		admin := categories.Group("")
		admin.Use(middleware.ValidateToken(deps.Tokens), middleware.RequireAdmin())
		{
			admin.POST("", productcontroller.CreateCategory(svc, log))
			admin.PUT("/:id", productcontroller.UpdateCategory(svc, log))
			admin.DELETE("/:id", productcontroller.DeleteCategory(svc, log))
		}
	}
}
