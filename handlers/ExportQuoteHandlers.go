package handlers

import (
	"backend/models"
	"backend/storage"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExportQuotesHandler exports quote requests to an Excel workbook
// @Summary Export quotes to Excel
// @Description Download the visible quote requests as an .xlsx workbook. Customers get their own quotes; printers and admins get all of them.
// @Tags Quotes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 "Excel file"
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes/export [get]
func ExportQuotesHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)

		customerID := user.ID
		if strings.EqualFold(user.RoleName, "printer") || strings.EqualFold(user.RoleName, "admin") {
			customerID = 0
		}

		quotes, err := storage.ListQuotes(db, customerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotes", "details": err.Error()})
			return
		}

		f := excelize.NewFile()
		defer func() {
			if err := f.Close(); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error closing Excel file"})
			}
		}()

		sheetName := "Quotes"
		index, err := f.NewSheet(sheetName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating sheet"})
			return
		}
		f.SetActiveSheet(index)
		f.DeleteSheet("Sheet1") // Delete default sheet

		headerStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{
				Bold:  true,
				Color: "FFFFFF",
			},
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{"4472C4"},
				Pattern: 1,
			},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating style"})
			return
		}

		headers := []string{
			"Quote Code", "Customer", "Product", "Quantity",
			"Width (mm)", "Height (mm)", "Status", "Quoted Price",
			"Notes", "Created At", "Updated At",
		}
		for i, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheetName, cell, header)
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		titleCaser := cases.Title(language.Und)

		for rowIdx, q := range quotes {
			row := rowIdx + 2
			values := []interface{}{
				q.QuoteCode, q.CustomerName, q.ProductName, q.Quantity,
				q.WidthMM, q.HeightMM, titleCaser.String(q.Status), q.QuotedPrice,
				q.Notes, q.CreatedAt.Format("2006-01-02 15:04"), q.UpdatedAt.Format("2006-01-02 15:04"),
			}
			for colIdx, value := range values {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
				f.SetCellValue(sheetName, cell, value)
			}
		}

		// Widen the text-heavy columns
		f.SetColWidth(sheetName, "A", "C", 20)
		f.SetColWidth(sheetName, "I", "K", 24)

		filename := fmt.Sprintf("quote_export_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error writing Excel file"})
			return
		}
	}
}
