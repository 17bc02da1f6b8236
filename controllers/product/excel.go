package productcontroller

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Vidhyalakshmi16/svm-mobiles/apperr"
	"github.com/Vidhyalakshmi16/svm-mobiles/models"
	"github.com/Vidhyalakshmi16/svm-mobiles/response"
	"github.com/Vidhyalakshmi16/svm-mobiles/services"
	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

// Spreadsheet columns. FinalPrice and Profit are exported for reading only;
// import always recomputes them.
var sheetHeaders = []string{
	"ID", "Name", "Brand", "CategoryID", "Category", "Price", "Discount",
	"FinalPrice", "Cost", "Profit", "Stock", "Sold", "Color", "Description",
	"Images", "CreatedAt", "UpdatedAt",
}

func ExportProductsToExcel(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ExportProducts(c.Request.Context())
		if err != nil {
			response.Error(c, log, err)
			return
		}

		file, err := buildSheet(products)
		if err != nil {
			response.Error(c, log, apperr.Dependency("build product sheet", err))
			return
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")
		if err := file.Write(c.Writer); err != nil {
			log.Error("write product sheet", zap.Error(err))
		}
	}
}

func buildSheet(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}
	header := sheet.AddRow()
	for _, h := range sheetHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		categoryID, categoryName := "", ""
		if p.CategoryID != nil {
			categoryID = *p.CategoryID
		}
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(categoryID)
		row.AddCell().SetValue(categoryName)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Discount)
		row.AddCell().SetValue(p.FinalPrice)
		row.AddCell().SetValue(p.Cost)
		row.AddCell().SetValue(p.Profit)
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(p.Sold)
		row.AddCell().SetValue(p.Color)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(strings.Join(p.Images, ","))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return file, nil
}

// ImportProductsFromExcel reads the first sheet of an uploaded .xlsx under
// the "file" field. Columns are matched by header name, so a sheet produced
// by the export can be edited and uploaded back.
func ImportProductsFromExcel(svc *services.CatalogService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			response.Error(c, log, apperr.Validation("Excel file is required"))
			return
		}
		file, err := header.Open()
		if err != nil {
			response.Error(c, log, apperr.Validation("Failed to open Excel file"))
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, header.Size)
		if err != nil {
			response.Error(c, log, apperr.Validation("Failed to parse Excel file"))
			return
		}
		if len(xlFile.Sheets) == 0 || len(xlFile.Sheets[0].Rows) < 2 {
			response.Error(c, log, apperr.Validation("Excel file is empty or missing header row"))
			return
		}

		rows, skipped := parseSheet(xlFile.Sheets[0])
		res, err := svc.ImportProducts(c.Request.Context(), rows)
		if err != nil {
			response.Error(c, log, err)
			return
		}
		res.Skipped += len(skipped)
		res.Errors = append(skipped, res.Errors...)

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": res.Created,
			"updated_count": res.Updated,
			"skipped_count": res.Skipped,
			"errors":        res.Errors,
		})
	}
}

// parseSheet turns data rows into import rows. Rows with unparseable numbers
// are reported back instead.
func parseSheet(sheet *xlsx.Sheet) ([]services.ImportRow, []string) {
	columns := map[string]int{}
	for i, cell := range sheet.Rows[0].Cells {
		columns[strings.ToLower(strings.TrimSpace(cell.String()))] = i
	}

	var rows []services.ImportRow
	var problems []string
	for i := 1; i < len(sheet.Rows); i++ {
		r := sheet.Rows[i]
		if r == nil {
			continue
		}
		get := func(name string) (string, bool) {
			idx, ok := columns[strings.ToLower(name)]
			if !ok || idx >= len(r.Cells) {
				return "", false
			}
			return strings.TrimSpace(r.Cells[idx].String()), true
		}
		str := func(name string) *string {
			if v, ok := get(name); ok && v != "" {
				return &v
			}
			return nil
		}

		row := services.ImportRow{Line: i + 1}
		row.ID, _ = get("ID")
		row.Name = str("Name")
		row.Brand = str("Brand")
		row.CategoryID = str("CategoryID")
		row.Color = str("Color")
		row.Description = str("Description")
		if images := str("Images"); images != nil {
			for _, u := range strings.Split(*images, ",") {
				if u = strings.TrimSpace(u); u != "" {
					row.Images = append(row.Images, u)
				}
			}
		}

		var bad string
		num := func(name string) *float64 {
			v := str(name)
			if v == nil {
				return nil
			}
			f, err := strconv.ParseFloat(*v, 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				bad = name
				return nil
			}
			return &f
		}
		row.Price = num("Price")
		row.Discount = num("Discount")
		row.Cost = num("Cost")
		if stock := num("Stock"); stock != nil {
			n := int(*stock)
			row.Stock = &n
		}

		if row.ID == "" && row.Name == nil && row.Price == nil {
			continue // blank line
		}
		if bad != "" {
			problems = append(problems, "row "+strconv.Itoa(row.Line)+": invalid "+bad)
			continue
		}
		rows = append(rows, row)
	}
	return rows, problems
}
