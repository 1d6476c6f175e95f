package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// BuildLayoutPDF renders an arranged layout onto a plotter-sized page and
// returns the document. The page matches the sheet, so item coordinates map
// directly in millimeters.
func BuildLayoutPDF(settings models.PlotterSettings, arrangements []models.ArrangementItem) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: settings.SheetWidth, Ht: settings.SheetHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// --- Header ---
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(10, 10, "Matbixx - Layout")
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(10, 15, fmt.Sprintf("Toplam: %d", len(arrangements)))

	// --- Sheet border ---
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(5, 5, settings.SheetWidth-10, settings.SheetHeight-10, "D")

	// --- Placed designs ---
	for i, item := range arrangements {
		pdf.SetDrawColor(51, 102, 204)
		pdf.SetFillColor(230, 242, 255)
		pdf.Rect(item.X, item.Y, item.Width, item.Height, "FD")

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(item.X+1, item.Y+4, fmt.Sprintf("Design %d", i+1))
		pdf.Text(item.X+1, item.Y+9, fmt.Sprintf("%.0fx%.0fmm", item.Width, item.Height))
	}

	return pdf
}

// GenerateLayoutPDF godoc
// @Summary      Generate a plotter layout PDF
// @Description  Render the arranged designs onto a sheet-sized PDF and return a URL the panel can download it from.
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        request  body      models.GeneratePdfRequest  true  "Arrangement to render"
// @Success      200      {object}  models.GeneratePdfResponse
// @Failure      400      {object}  object
// @Failure      500      {object}  object
// @Router       /api/automation/plotter/generate-pdf [post]
func GenerateLayoutPDF(c *gin.Context) {
	var req models.GeneratePdfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
		return
	}

	if len(req.Arrangements) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "no arrangements to render"})
		return
	}

	settings := req.PlotterSettings
	if settings.SheetWidth <= 0 || settings.SheetHeight <= 0 {
		settings = models.DefaultPlotterSettings()
	}

	pdf := BuildLayoutPDF(settings, req.Arrangements)

	outputDir := filepath.Join(DataDir(), "layouts")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "unable to create output directory"})
		return
	}

	fileName := fmt.Sprintf("layout-%s.pdf", uuid.NewString())
	outputPath := filepath.Join(outputDir, fileName)
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to generate PDF"})
		return
	}

	c.JSON(http.StatusOK, models.GeneratePdfResponse{
		PdfURL: "/api/get-file?file=" + filepath.ToSlash(filepath.Join("layouts", fileName)),
	})
}
