package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLayoutPDF(t *testing.T) {
	settings := models.DefaultPlotterSettings()
	arrangements := []models.ArrangementItem{
		{DesignID: "a", X: 3, Y: 3, Width: 50, Height: 50},
		{DesignID: "b", X: 55, Y: 3, Width: 50, Height: 50},
	}

	pdf := BuildLayoutPDF(settings, arrangements)
	require.NotNil(t, pdf)
	require.NoError(t, pdf.Error())

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	assert.Greater(t, buf.Len(), 0)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestGenerateLayoutPDF_RejectsEmptyArrangements(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/automation/plotter/generate-pdf", GenerateLayoutPDF)

	body, err := json.Marshal(models.GeneratePdfRequest{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/automation/plotter/generate-pdf", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no arrangements to render", resp["message"])
}

func TestGenerateLayoutPDF_WritesFileAndReturnsURL(t *testing.T) {
	t.Setenv("MATBIXX_DATA_DIR", t.TempDir())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/automation/plotter/generate-pdf", GenerateLayoutPDF)

	reqBody := models.GeneratePdfRequest{
		PlotterSettings: models.DefaultPlotterSettings(),
		Arrangements: []models.ArrangementItem{
			{DesignID: "a", X: 3, Y: 3, Width: 50, Height: 50},
		},
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/automation/plotter/generate-pdf", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp models.GeneratePdfResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.PdfURL, "/api/get-file?file=layouts/")
	assert.Contains(t, resp.PdfURL, ".pdf")
}
