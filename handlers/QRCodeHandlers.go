package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"net/http"
	"strconv"

	"backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// addLabel adds text to an image at the specified position
func addLabel(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{0, 0, 0, 255}
	face := inconsolata.Regular8x16

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

// addLabelBold adds bold text for field labels
func addLabelBold(img *image.RGBA, x, y int, label string) {
	col := color.RGBA{30, 30, 30, 255}
	face := inconsolata.Bold8x16

	point := fixed.Point26_6{
		X: fixed.Int26_6(x * 64),
		Y: fixed.Int26_6(y * 64),
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  point,
	}
	d.DrawString(label)
}

func truncateLabel(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// GenerateQuoteQRCode godoc
// @Summary      Generate a quote tracking QR code as JPEG
// @Description  Render a QR code carrying the quote code and status, with a readable summary below it, suitable for printing on job tickets.
// @Tags         qr
// @Param        id   path      int  true  "Quote ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      400  {object}  object
// @Failure      404  {object}  object
// @Router       /api/quotes/{id}/qr [get]
func GenerateQuoteQRCode(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		quote, err := storage.GetQuoteByID(db, quoteID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}

		qrData := struct {
			ID        int    `json:"id"`
			QuoteCode string `json:"quote_code"`
			Status    string `json:"status"`
		}{
			ID:        quote.ID,
			QuoteCode: quote.QuoteCode,
			Status:    quote.Status,
		}

		jsonData, err := json.Marshal(qrData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to marshal quote data"})
			return
		}

		qr, err := qrcode.New(string(jsonData), qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}

		qrImg := qr.Image(512)

		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 5*lineHeight + padding
		totalHeight := qrSize + padding + textAreaHeight

		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

		qrRect := image.Rect(0, 0, qrSize, qrSize)
		draw.Draw(combinedImg, qrRect, qrImg, image.Point{}, draw.Src)

		// Separator line between QR code and text
		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		addLabelBold(combinedImg, xPos, startY, "Quote Code:")
		addLabel(combinedImg, xPos+120, startY, quote.QuoteCode)

		addLabelBold(combinedImg, xPos, startY+lineHeight, "Customer:")
		addLabel(combinedImg, xPos+120, startY+lineHeight, truncateLabel(quote.CustomerName, 30))

		addLabelBold(combinedImg, xPos, startY+2*lineHeight, "Product:")
		addLabel(combinedImg, xPos+120, startY+2*lineHeight, truncateLabel(quote.ProductName, 30))

		addLabelBold(combinedImg, xPos, startY+3*lineHeight, "Quantity:")
		addLabel(combinedImg, xPos+120, startY+3*lineHeight, fmt.Sprintf("%d (%.0fx%.0fmm)", quote.Quantity, quote.WidthMM, quote.HeightMM))

		addLabelBold(combinedImg, xPos, startY+4*lineHeight, "Status:")
		addLabel(combinedImg, xPos+120, startY+4*lineHeight, quote.Status)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combinedImg, nil); err != nil {
			c.String(http.StatusInternalServerError, "JPEG encoding failed")
			return
		}

		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
