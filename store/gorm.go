package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/config"
	"github.com/Vidhyalakshmi16/svm-mobiles/logger"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm is the relational Store.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

// Open connects to postgres, mysql or sqlite depending on cfg.Driver. For
// sqlite, URL is a file path (or ":memory:" with a single connection).
func Open(cfg config.DatabaseConfig, logLevel string, log *zap.Logger) (*Gorm, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.URL)
	case "mysql":
		dialector = mysql.Open(cfg.URL)
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.GormLevel(logLevel), cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return NewGorm(db), nil
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates every table.
func (s *Gorm) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.ServiceRequest{},
	)
}

func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ─────────── Products ───────────

func (s *Gorm) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (s *Gorm) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Gorm) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", like, like)
	}
	if f.CategoryID != "" {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.MinPrice != nil {
		query = query.Where("final_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("final_price <= ?", *f.MaxPrice)
	}

	column, ok := ProductSorts[f.SortBy]
	if !ok {
		column = "created_at"
	}

	var products []models.Product
	err := query.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: !f.Asc}).
		Find(&products).Error
	return products, translate(err)
}

func (s *Gorm) AllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).Preload("Category").Order("name").Find(&products).Error
	return products, translate(err)
}

func (s *Gorm) SaveProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error)
}

func (s *Gorm) DeleteProduct(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id))
}

func (s *Gorm) RepriceCategory(ctx context.Context, categoryID string, fn func(*models.Product)) (int, error) {
	var n int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("category_id = ?", categoryID).Find(&products).Error; err != nil {
			return err
		}
		for i := range products {
			fn(&products[i])
			if err := tx.Omit(clause.Associations).Save(&products[i]).Error; err != nil {
				return err
			}
		}
		n = len(products)
		return nil
	})
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

func (s *Gorm) CountProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, translate(err)
}

// ─────────── Categories ───────────

func (s *Gorm) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Gorm) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Gorm) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Gorm) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, translate(err)
}

func (s *Gorm) SaveCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Save(c).Error)
}

func (s *Gorm) DeleteCategory(ctx context.Context, id string) error {
	return affected(s.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id))
}

// ─────────── Orders ───────────

func (s *Gorm) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(s.db.WithContext(ctx).Create(o).Error)
}

func (s *Gorm) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *Gorm) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	var orders []models.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, translate(err)
}

func (s *Gorm) UpdateOrderStatus(ctx context.Context, id string, status models.Status) error {
	return affected(s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status))
}

// ─────────── Service requests ───────────

func (s *Gorm) CreateServiceRequest(ctx context.Context, r *models.ServiceRequest) error {
	return translate(s.db.WithContext(ctx).Create(r).Error)
}

func (s *Gorm) GetServiceRequest(ctx context.Context, id string) (*models.ServiceRequest, error) {
	var r models.ServiceRequest
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// ListServiceRequests filters on the stored value, so a status filter also
// matches the legacy spellings that normalize to it.
func (s *Gorm) ListServiceRequests(ctx context.Context, f ServiceRequestFilter) ([]models.ServiceRequest, error) {
	query := s.db.WithContext(ctx).Model(&models.ServiceRequest{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	var requests []models.ServiceRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, translate(err)
	}
	if f.Status == "" {
		return requests, nil
	}
	filtered := requests[:0]
	for _, r := range requests {
		if r.Status == f.Status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *Gorm) UpdateServiceRequestStatus(ctx context.Context, id string, status models.Status) error {
	return affected(s.db.WithContext(ctx).Model(&models.ServiceRequest{}).Where("id = ?", id).Update("status", status))
}

// ─────────── Users ───────────

func (s *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Gorm) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Gorm) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Gorm) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, translate(err)
}

func (s *Gorm) UpdateUserPassword(ctx context.Context, id, hash string) error {
	return affected(s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash))
}
