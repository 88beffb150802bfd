package productControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/models"
	"github.com/vendora/marketplace-api/response"
)

// GET /api/admin/products/export-excel
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Find(&products).Error; err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to fetch products")
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to create Excel sheet")
			return
		}

		headers := []string{
			"ID", "Name", "Slug", "Description", "Price", "CompareAtPrice",
			"SKU", "Brand", "Stock", "TrackQuantity", "AllowBackorder",
			"CategoryID", "VendorID", "IsActive", "IsApproved", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.CompareAtPrice)
			row.AddCell().SetValue(p.SKU)
			row.AddCell().SetValue(p.Brand)
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(strconv.FormatBool(p.TrackQuantity))
			row.AddCell().SetValue(strconv.FormatBool(p.AllowBackorder))
			row.AddCell().SetValue(p.CategoryID)
			row.AddCell().SetValue(p.VendorID)
			row.AddCell().SetValue(strconv.FormatBool(p.IsActive))
			row.AddCell().SetValue(strconv.FormatBool(p.IsApproved))
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")

		if err := file.Write(c.Writer); err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to write Excel file")
			return
		}
	}
}

// POST /api/admin/products/import-excel
// Columns: ID (optional, updates existing), Name, Description, Price, SKU,
// Brand, Stock, CategoryID, VendorID. Rows that fail to parse are skipped.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Excel file is required")
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to open Excel file")
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to parse Excel file")
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			response.Error(c, http.StatusBadRequest, "Excel file is empty or missing header row")
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			idStr := get(0)
			name := get(1)
			description := get(2)
			price, priceErr := strconv.ParseFloat(get(3), 64)
			sku := get(4)
			brand := get(5)
			stock, _ := strconv.Atoi(get(6))
			categoryID, _ := strconv.ParseUint(get(7), 10, 64)
			vendorID, _ := strconv.ParseUint(get(8), 10, 64)

			if name == "" || priceErr != nil {
				skippedCount++
				continue
			}

			if idStr != "" {
				if id, err := strconv.Atoi(idStr); err == nil {
					var existing models.Product
					if err := db.First(&existing, id).Error; err == nil {
						existing.Name = name
						existing.Description = description
						existing.Price = price
						existing.Brand = brand
						existing.Stock = stock
						if sku != "" {
							existing.SKU = sku
						}
						if categoryID != 0 {
							existing.CategoryID = uint(categoryID)
						}
						if err := db.Save(&existing).Error; err == nil {
							updatedCount++
							continue
						}
					}
				}
				skippedCount++
				continue
			}

			product := models.Product{
				Name:          name,
				Slug:          uniqueSlug(db, name),
				Description:   description,
				Price:         price,
				SKU:           sku,
				Brand:         brand,
				Stock:         stock,
				TrackQuantity: true,
				CategoryID:    uint(categoryID),
				VendorID:      uint(vendorID),
				IsActive:      true,
				IsApproved:    true, // admin import skips the review queue
			}
			if product.SKU == "" {
				product.SKU = "SKU-" + strings.ToUpper(product.Slug)
			}

			if err := db.Create(&product).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		response.OK(c, "Import completed", gin.H{
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
