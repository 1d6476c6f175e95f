package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultLabelDesigns(n int) []models.Design {
	designs := make([]models.Design, 0, n)
	for i := 0; i < n; i++ {
		designs = append(designs, models.Design{ID: fmt.Sprintf("design-%d", i+1)})
	}
	return designs
}

func sizedDesign(id string, w, h float64) models.Design {
	return models.Design{ID: id, Dimensions: &models.DesignSize{Width: w, Height: h}}
}

func TestArrangeDesigns_DefaultSheetTwentyLabels(t *testing.T) {
	settings := models.DefaultPlotterSettings()

	result, err := ArrangeDesigns(defaultLabelDesigns(20), settings)
	require.NoError(t, err)

	assert.Equal(t, 20, result.TotalArranged)
	assert.Equal(t, 20, result.TotalRequested)
	assert.Len(t, result.Arrangements, 20)
	assert.Equal(t, "32.6%", result.Efficiency)

	// 6 columns fit per row: the 7th item wraps to a second row.
	assert.Equal(t, result.Arrangements[0].Y, result.Arrangements[5].Y)
	assert.Greater(t, result.Arrangements[6].Y, result.Arrangements[5].Y)
	assert.Equal(t, result.Arrangements[0].X, result.Arrangements[6].X)
}

func TestArrangeDesigns_OversizedDesignSkipped(t *testing.T) {
	settings := models.DefaultPlotterSettings()

	result, err := ArrangeDesigns([]models.Design{sizedDesign("wide", 400, 50)}, settings)
	require.NoError(t, err)

	assert.Equal(t, 0, result.TotalArranged)
	assert.Equal(t, 1, result.TotalRequested)
	assert.NotNil(t, result.Arrangements)
	assert.Len(t, result.Arrangements, 0)
	assert.Equal(t, models.UsedArea{}, result.UsedArea)
}

func TestArrangeDesigns_EmptyInput(t *testing.T) {
	_, err := ArrangeDesigns(nil, models.DefaultPlotterSettings())
	assert.ErrorIs(t, err, ErrDesignsRequired)
}

func TestArrangeDesigns_SheetCapacity(t *testing.T) {
	settings := models.DefaultPlotterSettings()

	// 330x480 sheet, 3mm margins, 50x50 labels with 2mm spacing holds
	// 6 columns by 9 rows.
	result, err := ArrangeDesigns(defaultLabelDesigns(100), settings)
	require.NoError(t, err)

	assert.Equal(t, 54, result.TotalArranged)
	assert.Equal(t, 100, result.TotalRequested)
	assert.Len(t, result.Arrangements, 54)
}

func TestArrangeDesigns_InvalidPrintableArea(t *testing.T) {
	settings := models.DefaultPlotterSettings()
	settings.MarginLeft = 200
	settings.MarginRight = 200

	_, err := ArrangeDesigns(defaultLabelDesigns(1), settings)
	assert.ErrorIs(t, err, ErrInvalidPlotterSettings)
}

func TestArrangeDesigns_NoOverlapAndContainment(t *testing.T) {
	settings := models.DefaultPlotterSettings()

	designs := []models.Design{
		sizedDesign("a", 100, 40),
		sizedDesign("b", 60, 80),
		sizedDesign("c", 200, 30),
		sizedDesign("d", 50, 50),
		sizedDesign("e", 120, 60),
		sizedDesign("f", 90, 90),
	}

	result, err := ArrangeDesigns(designs, settings)
	require.NoError(t, err)
	require.Equal(t, len(designs), result.TotalArranged)

	right := settings.MarginLeft + settings.PrintableWidth()
	bottom := settings.MarginTop + settings.PrintableHeight()

	for _, item := range result.Arrangements {
		assert.GreaterOrEqual(t, item.X, settings.MarginLeft)
		assert.GreaterOrEqual(t, item.Y, settings.MarginTop)
		assert.LessOrEqual(t, item.X+item.Width, right)
		assert.LessOrEqual(t, item.Y+item.Height, bottom)
	}

	for i := 0; i < len(result.Arrangements); i++ {
		for j := i + 1; j < len(result.Arrangements); j++ {
			a, b := result.Arrangements[i], result.Arrangements[j]
			overlapX := a.X < b.X+b.Width && b.X < a.X+a.Width
			overlapY := a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
			assert.False(t, overlapX && overlapY, "items %s and %s overlap", a.DesignID, b.DesignID)
		}
	}
}

func TestArrangeDesigns_Deterministic(t *testing.T) {
	settings := models.DefaultPlotterSettings()
	designs := []models.Design{
		sizedDesign("a", 100, 40),
		sizedDesign("b", 60, 80),
		{ID: "c"},
		sizedDesign("d", 200, 30),
	}

	first, err := ArrangeDesigns(designs, settings)
	require.NoError(t, err)
	second, err := ArrangeDesigns(designs, settings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestArrangeDesigns_PlacedPrefixStableUnderTruncation(t *testing.T) {
	settings := models.DefaultPlotterSettings()
	designs := defaultLabelDesigns(100)

	full, err := ArrangeDesigns(designs, settings)
	require.NoError(t, err)

	// Feeding only the designs that fit must reproduce the same placements.
	truncated, err := ArrangeDesigns(designs[:full.TotalArranged], settings)
	require.NoError(t, err)

	assert.Equal(t, full.Arrangements, truncated.Arrangements)
	assert.Equal(t, full.UsedArea, truncated.UsedArea)
}

func TestArrangeDesigns_DuplicateIDsPlacedIndependently(t *testing.T) {
	settings := models.DefaultPlotterSettings()
	designs := []models.Design{
		sizedDesign("same", 50, 50),
		sizedDesign("same", 50, 50),
		sizedDesign("same", 50, 50),
	}

	result, err := ArrangeDesigns(designs, settings)
	require.NoError(t, err)

	require.Equal(t, 3, result.TotalArranged)
	seen := map[string]int{}
	positions := map[[2]float64]bool{}
	for _, item := range result.Arrangements {
		seen[item.DesignID]++
		positions[[2]float64{item.X, item.Y}] = true
	}
	assert.Equal(t, 3, seen["same"])
	assert.Len(t, positions, 3, "each copy gets its own slot")
}

func TestArrangeDesigns_FallbackToLabelSize(t *testing.T) {
	settings := models.DefaultPlotterSettings()
	settings.LabelWidth = 70
	settings.LabelHeight = 35

	result, err := ArrangeDesigns([]models.Design{{ID: "no-dims"}}, settings)
	require.NoError(t, err)

	require.Len(t, result.Arrangements, 1)
	assert.Equal(t, 70.0, result.Arrangements[0].Width)
	assert.Equal(t, 35.0, result.Arrangements[0].Height)
	assert.Equal(t, models.UsedArea{Width: 70, Height: 35}, result.UsedArea)
}

func TestArrangeDesigns_SpacingRecordedOnFootprint(t *testing.T) {
	settings := models.DefaultPlotterSettings()

	result, err := ArrangeDesigns(defaultLabelDesigns(2), settings)
	require.NoError(t, err)
	require.Len(t, result.Arrangements, 2)

	first, second := result.Arrangements[0], result.Arrangements[1]
	assert.Equal(t, models.ItemFootprint{Width: 52, Height: 52}, first.WithMargins)
	assert.Equal(t, first.X+first.Width+settings.HorizontalSpacing, second.X)
	assert.Equal(t, first.Y, second.Y)
}

func TestArrangeDesigns_ExactFitAgainstPrintableEdge(t *testing.T) {
	settings := models.PlotterSettings{
		SheetWidth:  110,
		SheetHeight: 60,
		MarginTop:   5, MarginBottom: 5, MarginLeft: 5, MarginRight: 5,
		LabelWidth: 50, LabelHeight: 50,
		HorizontalSpacing: 2, VerticalSpacing: 2,
	}

	// Printable area is 100x50: a 100x50 design fits exactly.
	result, err := ArrangeDesigns([]models.Design{sizedDesign("exact", 100, 50)}, settings)
	require.NoError(t, err)

	require.Equal(t, 1, result.TotalArranged)
	assert.Equal(t, 5.0, result.Arrangements[0].X)
	assert.Equal(t, 5.0, result.Arrangements[0].Y)
	assert.Equal(t, models.UsedArea{Width: 100, Height: 50}, result.UsedArea)
}

func TestFormatEfficiency(t *testing.T) {
	assert.Equal(t, "0.0%", formatEfficiency(0, 100))
	assert.Equal(t, "50.0%", formatEfficiency(50, 100))
	assert.Equal(t, "32.6%", formatEfficiency(20*2500, 324*474))
	assert.Equal(t, "0.0%", formatEfficiency(10, 0))
}

// ---------- HTTP validation paths ----------

func postAutoArrange(t *testing.T, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/api/automation/plotter/auto-arrange", AutoArrangeHandler(nil))

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/automation/plotter/auto-arrange", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAutoArrangeHandler_EmptyDesignIDs(t *testing.T) {
	w := postAutoArrange(t, models.AutoArrangeRequest{DesignIDs: []string{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrDesignsRequired.Error(), resp["message"])
}

func TestAutoArrangeHandler_InvalidSettings(t *testing.T) {
	settings := models.DefaultPlotterSettings()
	settings.MarginLeft = 400

	w := postAutoArrange(t, models.AutoArrangeRequest{
		DesignIDs:       []string{"d1"},
		PlotterSettings: settings,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrInvalidPlotterSettings.Error(), resp["message"])
}

func TestAutoArrangeHandler_MalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/automation/plotter/auto-arrange", AutoArrangeHandler(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/automation/plotter/auto-arrange", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}
