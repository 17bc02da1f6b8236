// Package store persists the catalog, orders, service requests and users.
package store

import (
	"context"
	"errors"

	"github.com/Vidhyalakshmi16/svm-mobiles/models"
)

var (
	ErrNotFound  = errors.New("store: record not found")
	ErrDuplicate = errors.New("store: duplicate record")
)

// ProductSorts lists the columns a product listing may be ordered by.
var ProductSorts = map[string]string{
	"created_at":  "created_at",
	"price":       "price",
	"final_price": "final_price",
	"name":        "name",
}

type ProductFilter struct {
	Search     string
	CategoryID string
	MinPrice   *float64 // Compared against the final price
	MaxPrice   *float64
	SortBy     string // Key of ProductSorts, created_at when empty
	Asc        bool
}

type OrderFilter struct {
	UserID string
	Status models.Status
}

type ServiceRequestFilter struct {
	UserID string
	Status models.Status
}

type Products interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	// GetProduct loads the product with its category.
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	// RepriceCategory applies fn to every product in the category and saves
	// them all, or none if any write fails. It returns the number updated.
	RepriceCategory(ctx context.Context, categoryID string, fn func(*models.Product)) (int, error)
	CountProductsByCategory(ctx context.Context, categoryID string) (int64, error)
	// AllProducts returns every product ordered by name, for export.
	AllProducts(ctx context.Context) ([]models.Product, error)
}

type Categories interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	// ListCategories returns categories sorted by name.
	ListCategories(ctx context.Context) ([]models.Category, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type Orders interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns the newest orders first.
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.Status) error
}

type ServiceRequests interface {
	CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error
	GetServiceRequest(ctx context.Context, id string) (*models.ServiceRequest, error)
	ListServiceRequests(ctx context.Context, f ServiceRequestFilter) ([]models.ServiceRequest, error)
	UpdateServiceRequestStatus(ctx context.Context, id string, status models.Status) error
}

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserPassword(ctx context.Context, id, hash string) error
}

// Store is everything the services need from persistence.
type Store interface {
	Products
	Categories
	Orders
	ServiceRequests
	Users
	Close() error
}
