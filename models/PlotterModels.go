package models

import "time"

// ---------- Plotter configuration ----------

// PlotterSettings describes the print sheet the automation panel arranges
// designs onto. All dimensions are millimeters. Field names follow the
// automation panel's wire contract.
type PlotterSettings struct {
	SheetWidth  float64 `json:"sheetWidth"`
	SheetHeight float64 `json:"sheetHeight"`

	MarginTop    float64 `json:"marginTop"`
	MarginBottom float64 `json:"marginBottom"`
	MarginLeft   float64 `json:"marginLeft"`
	MarginRight  float64 `json:"marginRight"`

	// Fallback item size for designs without intrinsic dimensions.
	LabelWidth  float64 `json:"labelWidth"`
	LabelHeight float64 `json:"labelHeight"`

	// Minimum gap enforced between adjacent placed items.
	HorizontalSpacing float64 `json:"horizontalSpacing"`
	VerticalSpacing   float64 `json:"verticalSpacing"`
}

// PrintableWidth returns the usable sheet width after margins.
func (s PlotterSettings) PrintableWidth() float64 {
	return s.SheetWidth - s.MarginLeft - s.MarginRight
}

// PrintableHeight returns the usable sheet height after margins.
func (s PlotterSettings) PrintableHeight() float64 {
	return s.SheetHeight - s.MarginTop - s.MarginBottom
}

// DefaultPlotterSettings is the 330x480mm plotter sheet the automation
// panel ships with.
func DefaultPlotterSettings() PlotterSettings {
	return PlotterSettings{
		SheetWidth:        330,
		SheetHeight:       480,
		MarginTop:         3,
		MarginBottom:      3,
		MarginLeft:        3,
		MarginRight:       3,
		LabelWidth:        50,
		LabelHeight:       50,
		HorizontalSpacing: 2,
		VerticalSpacing:   2,
	}
}

// ---------- Designs ----------

// DesignSize is an intrinsic design dimension pair in millimeters,
// measured from the uploaded file.
type DesignSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Design is the engine's read-only view of an uploaded design. Dimensions
// is nil when the uploaded file carried no usable size; the engine then
// falls back to the plotter's label size.
type Design struct {
	ID         string      `json:"id"`
	Dimensions *DesignSize `json:"dimensions,omitempty"`
}

// ---------- Arrangement ----------

// ItemFootprint is an item's exclusive tiling footprint: core size plus
// the configured spacing.
type ItemFootprint struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ArrangementItem is one placed design. X and Y are the top-left corner in
// millimeters relative to the sheet origin; Width and Height are the core
// footprint as placed.
type ArrangementItem struct {
	DesignID    string        `json:"designId"`
	X           float64       `json:"x"`
	Y           float64       `json:"y"`
	Width       float64       `json:"width"`
	Height      float64       `json:"height"`
	WithMargins ItemFootprint `json:"withMargins"`
}

// UsedArea is the bounding box the arrangement actually consumed, used by
// the automation panel for preview scaling.
type UsedArea struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ArrangementResult is the outcome of one auto-arrange run. Arrangements
// keeps placement order. Efficiency is placed core area over printable area
// as a percentage string with one decimal, e.g. "32.6%".
type ArrangementResult struct {
	Arrangements   []ArrangementItem `json:"arrangements"`
	TotalArranged  int               `json:"totalArranged"`
	TotalRequested int               `json:"totalRequested"`
	Efficiency     string            `json:"efficiency"`
	UsedArea       UsedArea          `json:"usedArea"`
}

// ---------- Wire shapes ----------

type AutoArrangeRequest struct {
	DesignIDs       []string        `json:"designIds"`
	PlotterSettings PlotterSettings `json:"plotterSettings"`
}

type GeneratePdfRequest struct {
	PlotterSettings PlotterSettings   `json:"plotterSettings"`
	Arrangements    []ArrangementItem `json:"arrangements"`
}

type GeneratePdfResponse struct {
	PdfURL string `json:"pdfUrl"`
}

// DesignListItem is what GET /api/automation/plotter/designs returns per
// uploaded design.
type DesignListItem struct {
	ID         string      `json:"id"`
	FileName   string      `json:"fileName"`
	FileType   string      `json:"fileType"`
	FileSize   int64       `json:"fileSize"`
	Dimensions *DesignSize `json:"dimensions,omitempty"`
	UploadedAt time.Time   `json:"uploadedAt"`
}
