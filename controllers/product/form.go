package productcontroller

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
)

// productForm is what a create or update request carried.
type productForm struct {
	input   services.ProductInput
	keep    []string // nil when existingImages was not sent
	uploads []services.Upload
	files   []io.Closer
}

func (f *productForm) close() {
	for _, file := range f.files {
		file.Close()
	}
}

// productJSON mirrors the multipart fields for JSON bodies.
type productJSON struct {
	Name           *string   `json:"name"`
	Brand          *string   `json:"brand"`
	Category       *string   `json:"category"`
	Price          *float64  `json:"price"`
	Discount       *float64  `json:"discount"`
	Cost           *float64  `json:"cost"`
	Stock          *int      `json:"stock"`
	Color          *string   `json:"color"`
	Description    *string   `json:"description"`
	ExistingImages *[]string `json:"existingImages"`
}

// readProductForm accepts multipart (with files under "images"), urlencoded
// or JSON bodies. Only fields present in the request are set.
func readProductForm(c *gin.Context, maxImages int) (*productForm, error) {
	form := &productForm{}
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body productJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, apperr.Validation("Invalid request body")
		}
		form.input = services.ProductInput{
			Name:        body.Name,
			Brand:       body.Brand,
			CategoryID:  body.Category,
			Price:       body.Price,
			Discount:    body.Discount,
			Cost:        body.Cost,
			Stock:       body.Stock,
			Color:       body.Color,
			Description: body.Description,
		}
		if body.ExistingImages != nil {
			form.keep = append([]string{}, (*body.ExistingImages)...)
		}
		return form, nil
	}

	var err error
	in := &form.input
	in.Name = optString(c, "name")
	in.Brand = optString(c, "brand")
	in.CategoryID = optString(c, "category")
	in.Color = optString(c, "color")
	in.Description = optString(c, "description")
	if in.Price, err = optFloat(c, "price"); err != nil {
		return nil, err
	}
	if in.Discount, err = optFloat(c, "discount"); err != nil {
		return nil, err
	}
	if in.Cost, err = optFloat(c, "cost"); err != nil {
		return nil, err
	}
	if in.Stock, err = optInt(c, "stock"); err != nil {
		return nil, err
	}

	if raw, ok := c.GetPostForm("existingImages"); ok {
		keep := []string{}
		if strings.TrimSpace(raw) != "" {
			if err := json.Unmarshal([]byte(raw), &keep); err != nil {
				return nil, apperr.Validation("existingImages must be a JSON array of URLs")
			}
		}
		form.keep = keep
	}

	mf, err := c.MultipartForm()
	if err != nil || mf == nil {
		return form, nil
	}
	headers := mf.File["images"]
	if len(headers) > maxImages {
		return nil, apperr.Validation("At most " + strconv.Itoa(maxImages) + " images are allowed")
	}
	for _, h := range headers {
		if err := form.open(h); err != nil {
			form.close()
			return nil, err
		}
	}
	return form, nil
}

func (f *productForm) open(h *multipart.FileHeader) error {
	file, err := h.Open()
	if err != nil {
		return apperr.Validation("Could not read uploaded image")
	}
	f.files = append(f.files, file)
	f.uploads = append(f.uploads, services.Upload{Name: h.Filename, Body: file})
	return nil
}

func optString(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}

func optFloat(c *gin.Context, key string) (*float64, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil, apperr.Validation("Invalid " + key)
	}
	return &f, nil
}

func optInt(c *gin.Context, key string) (*int, error) {
	v, ok := c.GetPostForm(key)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil, apperr.Validation("Invalid " + key)
	}
	return &n, nil
}
