package handlers

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildQuoteStatusUpdate_AcceptKeepsQuotedFields(t *testing.T) {
	quote := &models.QuoteRequest{
		ID:           42,
		ProductName:  "Label Roll",
		Status:       models.QuoteStatusQuoted,
		QuotedPrice:  125.5,
		PrinterID:    7,
		RevisionCode: "RV-01",
	}

	// The customer's accept request carries no price and no printer. The
	// offer the printer recorded must survive the transition.
	upd := buildQuoteStatusUpdate(quote, models.QuoteStatusAccepted, 0, 31, false)

	assert.Equal(t, models.QuoteStatusAccepted, upd.Status)
	assert.Equal(t, 125.5, upd.QuotedPrice)
	assert.Equal(t, 7, upd.PrinterID)
	assert.Equal(t, "RV-01", upd.RevisionCode)
	assert.Equal(t, "LABEL/MBX/0042", upd.OrderReference)
}

func TestBuildQuoteStatusUpdate_RejectKeepsQuotedFields(t *testing.T) {
	quote := &models.QuoteRequest{
		ID:           42,
		ProductName:  "Label Roll",
		Status:       models.QuoteStatusQuoted,
		QuotedPrice:  125.5,
		PrinterID:    7,
		RevisionCode: "RV-01",
	}

	upd := buildQuoteStatusUpdate(quote, models.QuoteStatusRejected, 0, 31, false)

	assert.Equal(t, models.QuoteStatusRejected, upd.Status)
	assert.Equal(t, 125.5, upd.QuotedPrice)
	assert.Equal(t, 7, upd.PrinterID)
	assert.Empty(t, upd.OrderReference)
}

func TestBuildQuoteStatusUpdate_QuotedRecordsOfferAndRevision(t *testing.T) {
	quote := &models.QuoteRequest{ID: 9, Status: models.QuoteStatusPending}

	upd := buildQuoteStatusUpdate(quote, models.QuoteStatusQuoted, 200, 7, true)

	assert.Equal(t, 200.0, upd.QuotedPrice)
	assert.Equal(t, 7, upd.PrinterID)
	assert.Equal(t, "RV-01", upd.RevisionCode)

	// A re-quote by an admin bumps the revision but keeps the printer who
	// made the original offer.
	quote.QuotedPrice = 200
	quote.PrinterID = 7
	quote.RevisionCode = "RV-01"
	upd = buildQuoteStatusUpdate(quote, models.QuoteStatusQuoted, 180, 1, false)

	assert.Equal(t, 180.0, upd.QuotedPrice)
	assert.Equal(t, 7, upd.PrinterID)
	assert.Equal(t, "RV-02", upd.RevisionCode)
}

func TestBuildQuoteStatusUpdate_AcceptTwiceKeepsOrderReference(t *testing.T) {
	quote := &models.QuoteRequest{
		ID:             42,
		ProductName:    "Sticker",
		Status:         models.QuoteStatusAccepted,
		QuotedPrice:    50,
		OrderReference: "STICKER/MBX/0042",
	}

	upd := buildQuoteStatusUpdate(quote, models.QuoteStatusAccepted, 0, 31, false)

	assert.Equal(t, "STICKER/MBX/0042", upd.OrderReference)
}

func TestBuildQuoteStatusUpdate_OrderReferenceFallbackTag(t *testing.T) {
	quote := &models.QuoteRequest{ID: 3, QuotedPrice: 10}

	upd := buildQuoteStatusUpdate(quote, models.QuoteStatusAccepted, 0, 31, false)

	assert.Equal(t, "ORDER/MBX/0003", upd.OrderReference)
}
