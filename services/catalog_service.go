package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/storage"
	"github.com/Vidhyalakshmi16/svm-mobiles/store"
	"go.uber.org/zap"
)

const (
	MaxImagesOnCreate = 5
	MaxImagesOnUpdate = 10
)

type CatalogServiceDeps struct {
	Products   store.Products
	Categories store.Categories
	Images     storage.Images
	Logger     *zap.Logger
}

type CatalogService struct {
	products   store.Products
	categories store.Categories
	images     storage.Images
	log        *zap.Logger
}

func NewCatalogService(deps CatalogServiceDeps) *CatalogService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		products:   deps.Products,
		categories: deps.Categories,
		images:     deps.Images,
		log:        log.Named("catalog"),
	}
}

// ─────────── Categories ───────────

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Dependency("list categories", err)
	}
	return categories, nil
}

// CreateCategory rejects empty names and names that match an existing
// category once surrounding whitespace is removed.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{Name: name}
	if err := s.categories.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Category already exists")
		}
		return nil, apperr.Dependency("create category", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Category name is required")
	}
	category, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Category not found", "get category")
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categories.SaveCategory(ctx, category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Category already exists")
		}
		return nil, apperr.Dependency("update category", err)
	}
	return category, nil
}

func (s *CatalogService) ensureNameFree(ctx context.Context, name, exceptID string) error {
	existing, err := s.categories.FindCategoryByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return apperr.Dependency("find category", err)
	case existing.ID != exceptID:
		return apperr.Conflict("Category already exists")
	default:
		return nil
	}
}

// DeleteCategory refuses while products still reference the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetCategory(ctx, id); err != nil {
		return storeErr(err, "Category not found", "get category")
	}
	n, err := s.products.CountProductsByCategory(ctx, id)
	if err != nil {
		return apperr.Dependency("count products", err)
	}
	if n > 0 {
		return apperr.Conflict(fmt.Sprintf("Category is in use by %d product(s)", n))
	}
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return storeErr(err, "Category not found", "delete category")
	}
	return nil
}

// ─────────── Products ───────────

// ProductInput carries the fields present in a create or update request.
// Nil means "not sent".
type ProductInput struct {
	Name        *string
	Brand       *string
	CategoryID  *string
	Price       *float64
	Discount    *float64
	Cost        *float64
	Stock       *int
	Color       *string
	Description *string
}

// Upload is one image file from a multipart request.
type Upload struct {
	Name string
	Body io.Reader
}

func (s *CatalogService) ListProducts(ctx context.Context, f store.ProductFilter) ([]models.Product, error) {
	if f.SortBy != "" {
		if _, ok := store.ProductSorts[f.SortBy]; !ok {
			return nil, apperr.Validation("Invalid sort_by")
		}
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, apperr.Validation("min_price cannot exceed max_price")
	}
	products, err := s.products.ListProducts(ctx, f)
	if err != nil {
		return nil, apperr.Dependency("list products", err)
	}
	return products, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Product not found", "get product")
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, uploads []Upload) (*models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Validation("Product name is required")
	}
	if in.Price == nil {
		return nil, apperr.Validation("Price is required")
	}
	if len(uploads) > MaxImagesOnCreate {
		return nil, apperr.Validation(fmt.Sprintf("At most %d images are allowed", MaxImagesOnCreate))
	}

	p := &models.Product{}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	urls, err := s.saveImages(ctx, uploads)
	if err != nil {
		return nil, err
	}
	p.Images = urls
	p.Reprice()

	if err := s.products.CreateProduct(ctx, p); err != nil {
		s.discardImages(ctx, urls)
		return nil, apperr.Dependency("create product", err)
	}
	return s.GetProduct(ctx, p.ID)
}

// UpdateProduct changes only the fields present in in. When keep is non-nil
// the image list becomes keep (limited to images the product already has)
// followed by the new uploads; otherwise uploads are appended.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput, keep []string, uploads []Upload) (*models.Product, error) {
	if len(uploads) > MaxImagesOnUpdate {
		return nil, apperr.Validation(fmt.Sprintf("At most %d images are allowed", MaxImagesOnUpdate))
	}
	p, err := s.products.GetProduct(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Product not found", "get product")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, apperr.Validation("Product name cannot be empty")
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}

	images := p.Images
	if keep != nil {
		images = keepExisting(p.Images, keep)
	}
	urls, err := s.saveImages(ctx, uploads)
	if err != nil {
		return nil, err
	}
	p.Images = append(append([]string{}, images...), urls...)
	p.Reprice()
	p.Category = nil

	if err := s.products.SaveProduct(ctx, p); err != nil {
		s.discardImages(ctx, urls)
		return nil, apperr.Dependency("update product", err)
	}
	return s.GetProduct(ctx, p.ID)
}

func keepExisting(current, keep []string) []string {
	have := make(map[string]bool, len(current))
	for _, u := range current {
		have[u] = true
	}
	out := make([]string, 0, len(keep))
	for _, u := range keep {
		if have[u] {
			out = append(out, u)
			delete(have, u)
		}
	}
	return out
}

// apply copies the present fields of in onto p and validates them.
func (s *CatalogService) apply(ctx context.Context, p *models.Product, in ProductInput) error {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Description != nil {
		p.Description = sanitize(*in.Description)
	}
	if in.Price != nil {
		if !finite(*in.Price) {
			return apperr.Validation("Invalid price")
		}
		if *in.Price < 0 {
			return apperr.Validation("Price cannot be negative")
		}
		p.Price = *in.Price
	}
	if in.Discount != nil {
		if err := validateDiscount(*in.Discount); err != nil {
			return err
		}
		p.Discount = *in.Discount
	}
	if in.Cost != nil {
		if !finite(*in.Cost) {
			return apperr.Validation("Invalid cost")
		}
		if *in.Cost < 0 {
			return apperr.Validation("Cost cannot be negative")
		}
		p.Cost = *in.Cost
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return apperr.Validation("Stock cannot be negative")
		}
		p.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		id := strings.TrimSpace(*in.CategoryID)
		if id == "" {
			p.CategoryID = nil
		} else {
			if _, err := s.categories.GetCategory(ctx, id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return apperr.Validation("Category does not exist")
				}
				return apperr.Dependency("get category", err)
			}
			p.CategoryID = &id
		}
	}
	return nil
}

// finite rejects NaN and the infinities, which ParseFloat accepts.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateDiscount(d float64) error {
	if !finite(d) {
		return apperr.Validation("Invalid discount")
	}
	if d < 0 || d > 100 {
		return apperr.Validation("Discount must be between 0 and 100")
	}
	return nil
}

func (s *CatalogService) saveImages(ctx context.Context, uploads []Upload) ([]string, error) {
	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		url, err := s.images.Save(ctx, u.Name, u.Body)
		if err != nil {
			s.discardImages(ctx, urls)
			return nil, apperr.Dependency("save image", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// discardImages removes uploads whose product was never written.
func (s *CatalogService) discardImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := s.images.Delete(ctx, url); err != nil {
			s.log.Error("discard image", zap.String("url", url), zap.Error(err))
		}
	}
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return storeErr(err, "Product not found", "delete product")
	}
	return nil
}

// ApplyCategoryDiscount sets discount on every product in the category and
// reprices them, all in one write. It returns how many products changed.
func (s *CatalogService) ApplyCategoryDiscount(ctx context.Context, categoryID string, discount float64) (int, error) {
	if strings.TrimSpace(categoryID) == "" {
		return 0, apperr.Validation("categoryId is required")
	}
	if err := validateDiscount(discount); err != nil {
		return 0, err
	}
	if _, err := s.categories.GetCategory(ctx, categoryID); err != nil {
		return 0, storeErr(err, "Category not found", "get category")
	}

	n, err := s.products.RepriceCategory(ctx, categoryID, func(p *models.Product) {
		p.Discount = discount
		p.Reprice()
	})
	if err != nil {
		return 0, apperr.Dependency("apply category discount", err)
	}
	s.log.Info("category discount applied",
		zap.String("category_id", categoryID), zap.Float64("discount", discount), zap.Int("products", n))
	return n, nil
}

// ─────────── Spreadsheet import ───────────

// ImportRow is one product row from a spreadsheet. An empty ID creates a
// product; a known ID updates it.
type ImportRow struct {
	Line int
	ID   string
	ProductInput
	Images []string
}

type ImportResult struct {
	Created int      `json:"created_count"`
	Updated int      `json:"updated_count"`
	Skipped int      `json:"skipped_count"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportProducts upserts rows one at a time. Bad rows are skipped and reported.
func (s *CatalogService) ImportProducts(ctx context.Context, rows []ImportRow) (ImportResult, error) {
	var res ImportResult
	skip := func(row ImportRow, err error) {
		res.Skipped++
		res.Errors = append(res.Errors, fmt.Sprintf("row %d: %s", row.Line, apperr.From(err).PublicMessage()))
	}

	for _, row := range rows {
		p := &models.Product{}
		existing := false
		if row.ID != "" {
			found, err := s.products.GetProduct(ctx, row.ID)
			switch {
			case err == nil:
				p, existing = found, true
				p.Category = nil
			case !errors.Is(err, store.ErrNotFound):
				return res, apperr.Dependency("get product", err)
			default:
				p.ID = row.ID
			}
		}
		if !existing && (row.Name == nil || strings.TrimSpace(*row.Name) == "" || row.Price == nil) {
			skip(row, apperr.Validation("name and price are required"))
			continue
		}
		if err := s.apply(ctx, p, row.ProductInput); err != nil {
			skip(row, err)
			continue
		}
		if row.Images != nil {
			p.Images = row.Images
		}
		p.Reprice()

		var err error
		if existing {
			err = s.products.SaveProduct(ctx, p)
		} else {
			err = s.products.CreateProduct(ctx, p)
		}
		if err != nil {
			return res, apperr.Dependency("import product", err)
		}
		if existing {
			res.Updated++
		} else {
			res.Created++
		}
	}
	return res, nil
}

func (s *CatalogService) ExportProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.AllProducts(ctx)
	if err != nil {
		return nil, apperr.Dependency("list products", err)
	}
	return products, nil
}
