package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/storage"
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CreateQuoteHandler files a new quote request for a product
// @Summary Create quote request
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body models.CreateQuoteRequest true "Quote request"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Router /api/quotes [post]
func CreateQuoteHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)

		var req models.CreateQuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		quote := &models.QuoteRequest{
			QuoteCode:  repository.GenerateQuoteCode(),
			CustomerID: user.ID,
			ProductID:  req.ProductID,
			Quantity:   req.Quantity,
			WidthMM:    req.WidthMM,
			HeightMM:   req.HeightMM,
			Notes:      req.Notes,
			FilePath:   req.FilePath,
		}

		id, err := storage.CreateQuoteRequest(db, quote)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Quote request created",
			"quote_id":   id,
			"quote_code": quote.QuoteCode,
			"status":     models.QuoteStatusPending,
		})
	}
}

// ListQuotesHandler lists quote requests for the current user
// @Summary List quote requests
// @Description Customers see their own requests; printers and admins see all of them.
// @Tags Quotes
// @Produce json
// @Success 200 {array} models.QuoteRequest
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes [get]
func ListQuotesHandler(db *sql.DB) gin.HandlerFunc {
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

		if quotes == nil {
			quotes = []models.QuoteRequest{}
		}
		c.JSON(http.StatusOK, quotes)
	}
}

// GetQuoteHandler fetches a single quote request
// @Summary Get quote request
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.QuoteRequest
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/quotes/{id} [get]
func GetQuoteHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)

		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		quote, err := storage.GetQuoteByID(db, quoteID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		if strings.EqualFold(user.RoleName, "customer") && quote.CustomerID != user.ID {
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only view your own quote requests"})
			return
		}

		c.JSON(http.StatusOK, quote)
	}
}

var validQuoteStatuses = map[string]bool{
	models.QuoteStatusPending:  true,
	models.QuoteStatusQuoted:   true,
	models.QuoteStatusAccepted: true,
	models.QuoteStatusRejected: true,
}

// buildQuoteStatusUpdate decides which quote fields a status transition
// persists. An answer (quoted) records the offered price, the answering
// printer and the next revision code; acceptance assigns an order reference.
// Every other transition keeps what the answer recorded, so a customer
// accepting an offer never wipes the quoted price or the printer assignment.
func buildQuoteStatusUpdate(quote *models.QuoteRequest, status string, offeredPrice float64, actorID int, actorIsPrinter bool) models.QuoteStatusUpdate {
	upd := models.QuoteStatusUpdate{
		Status:         status,
		QuotedPrice:    quote.QuotedPrice,
		PrinterID:      quote.PrinterID,
		RevisionCode:   quote.RevisionCode,
		OrderReference: quote.OrderReference,
	}

	switch status {
	case models.QuoteStatusQuoted:
		upd.QuotedPrice = offeredPrice
		if actorIsPrinter {
			upd.PrinterID = actorID
		}
		upd.RevisionCode = repository.NextRevisionCode(quote.RevisionCode)
	case models.QuoteStatusAccepted:
		if upd.OrderReference == "" {
			tag := quote.ProductName
			if i := strings.IndexByte(tag, ' '); i > 0 {
				tag = tag[:i]
			}
			if tag == "" {
				tag = "ORDER"
			}
			upd.OrderReference = repository.GenerateOrderReference(tag, "MBX", quote.ID)
		}
	}

	return upd
}

// UpdateQuoteStatusHandler answers or closes a quote request
// @Summary Update quote status
// @Description Printers quote a price; customers accept or reject the offer. The customer is notified by email when the status changes.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param request body models.UpdateQuoteStatusRequest true "New status"
// @Success 200 {object} object
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/quotes/{id}/status [put]
func UpdateQuoteStatusHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*models.User)

		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote ID"})
			return
		}

		var req models.UpdateQuoteStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		status := strings.ToLower(req.Status)
		if !validQuoteStatuses[status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}

		quote, err := storage.GetQuoteByID(db, quoteID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		// Printers may answer (quoted). Customers may accept or reject their
		// own quoted offer. Admins may do either.
		switch {
		case strings.EqualFold(user.RoleName, "admin"):
		case strings.EqualFold(user.RoleName, "printer"):
			if status != models.QuoteStatusQuoted && status != models.QuoteStatusRejected {
				c.JSON(http.StatusForbidden, gin.H{"error": "Printers can only quote or reject requests"})
				return
			}
		default:
			if quote.CustomerID != user.ID || (status != models.QuoteStatusAccepted && status != models.QuoteStatusRejected) {
				c.JSON(http.StatusForbidden, gin.H{"error": "You can only accept or reject your own quotes"})
				return
			}
		}

		upd := buildQuoteStatusUpdate(quote, status, req.QuotedPrice, user.ID, strings.EqualFold(user.RoleName, "printer"))
		if err := storage.UpdateQuoteStatus(db, quoteID, upd); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		updated, err := storage.GetQuoteByID(db, quoteID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Notify the customer. Email failures do not fail the update.
		var customerEmail string
		if err := db.QueryRow(`SELECT email FROM users WHERE id = $1`, updated.CustomerID).Scan(&customerEmail); err == nil {
			if emailService, err := services.NewEmailService(); err == nil {
				if err := emailService.SendQuoteStatusEmail(customerEmail, *updated); err != nil {
					log.Printf("failed to send quote status email for quote %d: %v", quoteID, err)
				}
			} else {
				log.Printf("email service unavailable: %v", err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Quote status updated",
			"quote":   updated,
		})
	}
}
