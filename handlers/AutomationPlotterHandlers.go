package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"backend/models"
	"backend/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Engine boundary errors. Partial or zero fit is never an error: the result
// reports totalArranged against totalRequested and the caller decides what
// to show.
var (
	ErrDesignsRequired        = errors.New("at least one design required")
	ErrInvalidPlotterSettings = errors.New("printable area must be positive")
)

// ---------- Utility ----------

func designFootprint(d models.Design, settings models.PlotterSettings) (w, h float64) {
	if d.Dimensions != nil {
		return d.Dimensions.Width, d.Dimensions.Height
	}
	return settings.LabelWidth, settings.LabelHeight
}

func formatEfficiency(usedArea, printableArea float64) string {
	if printableArea <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", usedArea/printableArea*100.0)
}

// ---------- CORE PACKING FUNCTION ----------

// ArrangeDesigns packs designs onto the plotter sheet using row-based greedy
// packing: items go left to right in input order, a full row wraps to a new
// row below, and packing stops once the next row would leave the printable
// area. Designs larger than the printable area itself are skipped silently.
//
// The function is pure: identical inputs always produce the identical
// result, and concurrent calls need no locking.
func ArrangeDesigns(designs []models.Design, settings models.PlotterSettings) (models.ArrangementResult, error) {
	if len(designs) == 0 {
		return models.ArrangementResult{}, ErrDesignsRequired
	}

	printableW := settings.PrintableWidth()
	printableH := settings.PrintableHeight()
	if printableW <= 0 || printableH <= 0 {
		return models.ArrangementResult{}, ErrInvalidPlotterSettings
	}

	left := settings.MarginLeft
	top := settings.MarginTop
	right := settings.MarginLeft + printableW
	bottom := settings.MarginTop + printableH

	arrangements := []models.ArrangementItem{}

	cursorX := left
	cursorY := top
	rowHeight := 0.0

	usedCoreArea := 0.0
	maxX := left
	maxY := top

	for _, d := range designs {
		w, h := designFootprint(d, settings)

		// A design the printable area can never hold is excluded without
		// stopping the run.
		if w > printableW || h > printableH {
			continue
		}

		if cursorX+w > right {
			cursorY += rowHeight + settings.VerticalSpacing
			cursorX = left
			rowHeight = 0
		}

		// The sheet is full: everything after this point stays unplaced.
		if cursorY+h > bottom {
			break
		}

		arrangements = append(arrangements, models.ArrangementItem{
			DesignID: d.ID,
			X:        cursorX,
			Y:        cursorY,
			Width:    w,
			Height:   h,
			WithMargins: models.ItemFootprint{
				Width:  w + settings.HorizontalSpacing,
				Height: h + settings.VerticalSpacing,
			},
		})

		usedCoreArea += w * h
		if cursorX+w > maxX {
			maxX = cursorX + w
		}
		if cursorY+h > maxY {
			maxY = cursorY + h
		}

		cursorX += w + settings.HorizontalSpacing
		if h > rowHeight {
			rowHeight = h
		}
	}

	result := models.ArrangementResult{
		Arrangements:   arrangements,
		TotalArranged:  len(arrangements),
		TotalRequested: len(designs),
		Efficiency:     formatEfficiency(usedCoreArea, printableW*printableH),
	}
	if len(arrangements) > 0 {
		result.UsedArea = models.UsedArea{Width: maxX - left, Height: maxY - top}
	}
	return result, nil
}

// ---------- HTTP handler ----------

// AutoArrangeHandler godoc
// @Summary      Auto-arrange uploaded designs on the plotter sheet
// @Description  Packs the requested designs onto the configured sheet and returns placement coordinates in millimeters.
// @Tags         automation
// @Accept       json
// @Produce      json
// @Param        body  body      models.AutoArrangeRequest  true  "Design ids and plotter settings"
// @Success      200   {object}  models.ArrangementResult
// @Failure      400   {object}  object
// @Failure      500   {object}  object
// @Router       /api/automation/plotter/auto-arrange [post]
func AutoArrangeHandler(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AutoArrangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid JSON: " + err.Error()})
			return
		}

		if len(req.DesignIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": ErrDesignsRequired.Error()})
			return
		}

		settings := req.PlotterSettings
		if settings == (models.PlotterSettings{}) {
			settings = models.DefaultPlotterSettings()
		}
		if settings.PrintableWidth() <= 0 || settings.PrintableHeight() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": ErrInvalidPlotterSettings.Error()})
			return
		}

		user := c.MustGet("user").(*models.User)

		// Unknown design ids fail here, before the engine runs.
		rows, err := storage.GetDesignsByIDs(gdb, user.ID, req.DesignIDs)
		if err != nil {
			if errors.Is(err, storage.ErrDesignNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load designs: " + err.Error()})
			return
		}

		designs := make([]models.Design, 0, len(rows))
		for _, row := range rows {
			designs = append(designs, models.Design{ID: row.ID, Dimensions: row.Size()})
		}

		result, err := ArrangeDesigns(designs, settings)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
