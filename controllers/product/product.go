package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetAllProducts lists products with their category.
// Query: search, category, min_price, max_price, sort_by, order=asc|desc
func GetAllProducts(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := store.ProductFilter{
			Search:     strings.TrimSpace(c.Query("search")),
			CategoryID: c.Query("category"),
			SortBy:     c.Query("sort_by"),
			Asc:        strings.EqualFold(c.Query("order"), "asc"),
		}
		for key, dst := range map[string]**float64{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
			raw := c.Query(key)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				response.Error(c, log, apperr.Validation("Invalid "+key))
				return
			}
			*dst = &v
		}

		products, err := svc.ListProducts(c.Request.Context(), f)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GetProductByID returns a single product.
// URL param: /products/:id
func GetProductByID(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// CreateProduct accepts up to five images under the "images" field.
func CreateProduct(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := readProductForm(c, services.MaxImagesOnCreate)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		defer form.close()

		product, err := svc.CreateProduct(c.Request.Context(), form.input, form.uploads)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct changes only the fields sent. existingImages, when sent,
// is the JSON list of current image URLs to keep; new files are appended.
func UpdateProduct(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := readProductForm(c, services.MaxImagesOnUpdate)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		defer form.close()

		product, err := svc.UpdateProduct(c.Request.Context(), c.Param("id"), form.input, form.keep, form.uploads)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			response.Error(c, log, err)
			return
		}
		response.Message(c, http.StatusOK, "Product deleted")
	}
}

type applyDiscountRequest struct {
	CategoryID string   `json:"categoryId"`
	Category   string   `json:"category"`
	Discount   *float64 `json:"discount"`
}

// ApplyDiscount sets one discount on every product of a category.
func ApplyDiscount(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req applyDiscountRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, log, apperr.Validation("Invalid request body"))
			return
		}
		if req.CategoryID == "" {
			req.CategoryID = req.Category
		}
		if req.Discount == nil {
			response.Error(c, log, apperr.Validation("discount is required"))
			return
		}

		n, err := svc.ApplyCategoryDiscount(c.Request.Context(), req.CategoryID, *req.Discount)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Discount applied", "updated": n})
	}
}
